package repository

import (
	"context"

	"redecell/internal/dto"
	"redecell/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChecklistRepository interface {
	List(ctx context.Context, filter dto.ChecklistFilter) ([]model.ChecklistTemplate, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.ChecklistTemplate, error)
	// Delete removes the template; items go with it through ON DELETE CASCADE.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)

	CreateTx(tx *gorm.DB, t *model.ChecklistTemplate) error
	CreateItemTx(tx *gorm.DB, item *model.ChecklistTemplateItem) error
	UpdateTx(tx *gorm.DB, t *model.ChecklistTemplate) (int64, error)
	DeleteItemsTx(tx *gorm.DB, templateID uuid.UUID) error

	DB() *gorm.DB
}

type checklistRepo struct{ db *gorm.DB }

func NewChecklistRepository(db *gorm.DB) ChecklistRepository { return &checklistRepo{db: db} }

func (r *checklistRepo) DB() *gorm.DB { return r.db }

// List applies the optional filters as bound parameters; the same scoped query
// feeds both the COUNT and the page.
func (r *checklistRepo) List(ctx context.Context, filter dto.ChecklistFilter) ([]model.ChecklistTemplate, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ChecklistTemplate{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("(name ILIKE ? OR description ILIKE ?)", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var templates []model.ChecklistTemplate
	err := q.Order("name ASC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&templates).Error
	return templates, total, err
}

func (r *checklistRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ChecklistTemplate, error) {
	var t model.ChecklistTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *checklistRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ChecklistTemplate{})
	return res.RowsAffected, res.Error
}

func (r *checklistRepo) CreateTx(tx *gorm.DB, t *model.ChecklistTemplate) error {
	return tx.Omit("Items").Create(t).Error
}

func (r *checklistRepo) CreateItemTx(tx *gorm.DB, item *model.ChecklistTemplateItem) error {
	return tx.Create(item).Error
}

func (r *checklistRepo) UpdateTx(tx *gorm.DB, t *model.ChecklistTemplate) (int64, error) {
	res := tx.Model(&model.ChecklistTemplate{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"name":        t.Name,
		"description": t.Description,
		"category":    t.Category,
		"updated_at":  t.UpdatedAt,
	})
	return res.RowsAffected, res.Error
}

func (r *checklistRepo) DeleteItemsTx(tx *gorm.DB, templateID uuid.UUID) error {
	return tx.Where("template_id = ?", templateID).Delete(&model.ChecklistTemplateItem{}).Error
}

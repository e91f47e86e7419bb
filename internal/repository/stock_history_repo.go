package repository

import (
	"context"

	"redecell/internal/dto"
	"redecell/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockHistoryRepository is append-only: there is no update or delete.
type StockHistoryRepository interface {
	CreateTx(tx *gorm.DB, h *model.StockHistory) error
	List(ctx context.Context, filter dto.StockHistoryFilter) ([]model.StockHistory, int64, error)
}

type stockHistoryRepo struct{ db *gorm.DB }

func NewStockHistoryRepository(db *gorm.DB) StockHistoryRepository {
	return &stockHistoryRepo{db: db}
}

func (r *stockHistoryRepo) CreateTx(tx *gorm.DB, h *model.StockHistory) error {
	return tx.Omit("Variation").Create(h).Error
}

// List expects filter.Page and filter.Limit to be already normalised.
func (r *stockHistoryRepo) List(ctx context.Context, filter dto.StockHistoryFilter) ([]model.StockHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockHistory{})
	if filter.VariationID != "" {
		id, err := uuid.Parse(filter.VariationID)
		if err != nil {
			return nil, 0, err
		}
		q = q.Where("variation_id = ?", id)
	}
	if filter.ChangeType != "" {
		q = q.Where("change_type = ?", filter.ChangeType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.StockHistory
	err := q.Preload("Variation").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&rows).Error
	return rows, total, err
}

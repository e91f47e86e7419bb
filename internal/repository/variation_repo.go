package repository

import (
	"context"

	"redecell/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VariationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error)
	// IncrementStockTx adds delta to stock_quantity in a single statement.
	IncrementStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
}

type variationRepo struct{ db *gorm.DB }

func NewVariationRepository(db *gorm.DB) VariationRepository { return &variationRepo{db: db} }

func (r *variationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	var v model.ProductVariation
	err := r.db.WithContext(ctx).Preload("Product").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *variationRepo) IncrementStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.ProductVariation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
			"updated_at":     gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

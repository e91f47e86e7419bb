package repository

import (
	"context"
	"errors"

	"redecell/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashSessionRepository interface {
	// FindOpenByUser returns (nil, nil) when the user has no open session.
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.CashSession, error)
	Create(ctx context.Context, s *model.CashSession) error
	// Close persists the closing columns of a session that is still open.
	// Returns gorm.ErrRecordNotFound if the session was closed concurrently.
	Close(ctx context.Context, s *model.CashSession) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CashSession, error)
}

type cashSessionRepo struct{ db *gorm.DB }

func NewCashSessionRepository(db *gorm.DB) CashSessionRepository {
	return &cashSessionRepo{db: db}
}

func (r *cashSessionRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND closing_time IS NULL", userID).
		Order("opening_time DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashSessionRepo) Create(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashSessionRepo) Close(ctx context.Context, s *model.CashSession) error {
	res := r.db.WithContext(ctx).Model(&model.CashSession{}).
		Where("id = ? AND closing_time IS NULL", s.ID).
		Updates(map[string]interface{}{
			"closing_time":     s.ClosingTime,
			"final_amount":     s.FinalAmount,
			"calculated_sales": s.CalculatedSales,
			"difference":       s.Difference,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cashSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CashSession, error) {
	var sessions []model.CashSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("opening_time DESC").
		Find(&sessions).Error
	return sessions, err
}

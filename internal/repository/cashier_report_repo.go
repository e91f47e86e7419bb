package repository

import (
	"context"
	"time"

	"redecell/internal/dto"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// CashierReportRepository runs the read-only aggregate queries used to reconcile
// a cash session. It shares the gorm connection pool through sqlx.
type CashierReportRepository interface {
	SumSalesSince(ctx context.Context, userID uuid.UUID, since time.Time) (decimal.Decimal, error)
	SalesByPaymentMethod(ctx context.Context, userID uuid.UUID, since time.Time) ([]dto.PaymentMethodTotal, error)
}

type cashierReportRepo struct{ db *sqlx.DB }

func NewCashierReportRepository(db *sqlx.DB) CashierReportRepository {
	return &cashierReportRepo{db: db}
}

const sumSalesSinceSQL = `
SELECT COALESCE(SUM(total_amount), 0)
  FROM sales
 WHERE user_id = $1 AND sale_date >= $2`

func (r *cashierReportRepo) SumSalesSince(ctx context.Context, userID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, sumSalesSinceSQL, userID, since)
	return total, err
}

const salesByPaymentMethodSQL = `
SELECT pm.name AS payment_method, COALESCE(SUM(sp.amount), 0) AS total
  FROM sales s
  JOIN sales_payments sp  ON sp.sale_id = s.id
  JOIN payment_methods pm ON pm.id = sp.payment_method_id
 WHERE s.user_id = $1 AND s.sale_date >= $2
 GROUP BY pm.name
 ORDER BY pm.name`

func (r *cashierReportRepo) SalesByPaymentMethod(ctx context.Context, userID uuid.UUID, since time.Time) ([]dto.PaymentMethodTotal, error) {
	rows := []dto.PaymentMethodTotal{}
	err := r.db.SelectContext(ctx, &rows, salesByPaymentMethodSQL, userID, since)
	return rows, err
}

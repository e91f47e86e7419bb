package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenCashRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount" validate:"min=0"`
}

type CloseCashRequest struct {
	FinalAmount decimal.Decimal `json:"final_amount" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CashSessionResponse struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	OpeningTime     string           `json:"opening_time"`
	InitialAmount   decimal.Decimal  `json:"initial_amount"`
	ClosingTime     *string          `json:"closing_time"`
	FinalAmount     *decimal.Decimal `json:"final_amount"`
	CalculatedSales *decimal.Decimal `json:"calculated_sales"`
	Difference      *decimal.Decimal `json:"difference"`
}

type CloseCashResponse struct {
	CashSessionResponse
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	VarianceLevel  string          `json:"variance_level"` // normal | atencao | critico
}

type CashStatusResponse struct {
	IsOpen  bool                 `json:"isOpen"`
	Session *CashSessionResponse `json:"session,omitempty"`
}

// PaymentMethodTotal is scanned directly from the cashier report query.
type PaymentMethodTotal struct {
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	Total         decimal.Decimal `json:"total"          db:"total"`
}

type CashSummaryResponse struct {
	Session        CashSessionResponse  `json:"session"`
	TotalSales     decimal.Decimal      `json:"total_sales"`
	ExpectedAmount decimal.Decimal      `json:"expected_amount"`
	Payments       []PaymentMethodTotal `json:"payments"`
}

package dto

import "github.com/shopspring/decimal"

type BankAccountRequest struct {
	Name          string          `json:"name"           validate:"required,min=2,max=100"`
	BankName      string          `json:"bank_name"      validate:"required"`
	Agency        *string         `json:"agency"`
	AccountNumber string          `json:"account_number" validate:"required,max=30"`
	Balance       decimal.Decimal `json:"balance"`
}

type BankAccountResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	BankName      string          `json:"bank_name"`
	Agency        *string         `json:"agency"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     string          `json:"created_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccount is a company bank account used by finance. AccountNumber is unique.
type BankAccount struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	BankName      string    `gorm:"not null"`
	Agency        *string
	AccountNumber string          `gorm:"uniqueIndex;not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

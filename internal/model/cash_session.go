package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashSession is one operator's open-to-close cash drawer period.
// Open while ClosingTime is nil; mutated exactly once on close.
type CashSession struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpeningTime     time.Time       `gorm:"not null"`
	InitialAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ClosingTime     *time.Time
	FinalAmount     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CalculatedSales *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Difference      *decimal.Decimal `gorm:"type:decimal(12,2)"`
}

// IsOpen reports whether the session has not been closed yet.
func (s *CashSession) IsOpen() bool { return s.ClosingTime == nil }

package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock change types.
const (
	StockChangePurchase = "compra"
)

// StockHistory is an append-only audit record of a stock change.
// Rows are never updated or deleted.
type StockHistory struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VariationID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null"`
	ChangeType     string    `gorm:"type:varchar(30);not null"`
	QuantityChange int       `gorm:"not null"` // positive = entrada, negative = saída
	Reason         string
	ReferenceID    *uuid.UUID `gorm:"type:uuid"` // purchase order id when applicable
	CreatedAt      time.Time

	Variation *ProductVariation `gorm:"foreignKey:VariationID"`
}

// TableName keeps the singular table name used by the schema.
func (StockHistory) TableName() string { return "stock_history" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses. Status is recomputed from received quantities and never rolled back.
const (
	POStatusPending           = "Pendente"
	POStatusPartiallyReceived = "Recebido Parcialmente"
	POStatusReceived          = "Recebido"
)

// PurchaseOrder is a supplier order for restocking.
type PurchaseOrder struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID               uuid.UUID       `gorm:"type:uuid;not null"`
	OrderDate            time.Time       `gorm:"not null;default:now()"`
	ExpectedDeliveryDate *time.Time      `gorm:"type:date"`
	Status               string          `gorm:"type:varchar(30);not null;default:'Pendente'"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes                *string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Supplier *Supplier           `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

// PurchaseOrderItem is a line of a purchase order. 0 <= QuantityReceived <= Quantity.
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariationID      uuid.UUID       `gorm:"type:uuid;not null"`
	LineNo           int             `gorm:"not null;default:0"` // position in the request that created it
	Quantity         int             `gorm:"not null"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	QuantityReceived int             `gorm:"not null;default:0"`

	Variation *ProductVariation `gorm:"foreignKey:VariationID"`
}

// StatusFor derives the order status from aggregate ordered vs received quantities.
func StatusFor(totalOrdered, totalReceived int) string {
	if totalReceived >= totalOrdered {
		return POStatusReceived
	}
	return POStatusPartiallyReceived
}

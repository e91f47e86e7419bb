package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a vendor purchase orders are placed with.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	CNPJ      *string   `gorm:"column:cnpj;uniqueIndex"`
	Email     *string
	Phone     *string
	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

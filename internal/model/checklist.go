package model

import (
	"time"

	"github.com/google/uuid"
)

// Checklist item response types.
const (
	ResponseBoolean = "boolean"
	ResponseText    = "text"
)

// ChecklistTemplate is a reusable checklist definition used on repair intake.
type ChecklistTemplate struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Description *string
	Category    *string `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []ChecklistTemplateItem `gorm:"foreignKey:TemplateID"`
}

// ChecklistTemplateItem is an ordered item. DisplayOrder is dense 0..n-1 per template.
type ChecklistTemplateItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TemplateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemText     string    `gorm:"not null"`
	ResponseType string    `gorm:"type:varchar(10);not null"`
	DisplayOrder int       `gorm:"not null"`
}

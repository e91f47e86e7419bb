package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ChecklistItemInput struct {
	ItemText     string `json:"item_text"     validate:"required,min=1"`
	ResponseType string `json:"response_type" validate:"required,oneof=boolean text"`
}

type ChecklistTemplateRequest struct {
	Name        string               `json:"name"        validate:"required,min=2,max=150"`
	Description *string              `json:"description"`
	Category    *string              `json:"category"`
	Items       []ChecklistItemInput `json:"items"       validate:"dive"`
}

// ChecklistFilter holds the optional list filters; zero values mean "no filter".
type ChecklistFilter struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Category string `form:"category"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ChecklistItemResponse struct {
	ID           string `json:"id"`
	ItemText     string `json:"item_text"`
	ResponseType string `json:"response_type"`
	DisplayOrder int    `json:"display_order"`
}

type ChecklistTemplateResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	Category    *string                 `json:"category"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
	Items       []ChecklistItemResponse `json:"items,omitempty"`
}

type ChecklistListResponse struct {
	Data       []ChecklistTemplateResponse `json:"data"`
	Total      int64                       `json:"total"`
	Page       int                         `json:"page"`
	Limit      int                         `json:"limit"`
	TotalPages int                         `json:"total_pages"`
}

package dto

type StockHistoryFilter struct {
	VariationID string `form:"variation_id"`
	ChangeType  string `form:"change_type"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

type StockHistoryResponse struct {
	ID             string  `json:"id"`
	VariationID    string  `json:"variation_id"`
	VariationName  string  `json:"variation_name,omitempty"`
	UserID         string  `json:"user_id"`
	ChangeType     string  `json:"change_type"`
	QuantityChange int     `json:"quantity_change"`
	Reason         string  `json:"reason"`
	ReferenceID    *string `json:"reference_id"`
	CreatedAt      string  `json:"created_at"`
}

type StockHistoryListResponse struct {
	Data       []StockHistoryResponse `json:"data"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

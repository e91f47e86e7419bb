package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseOrderItemInput struct {
	VariationID string          `json:"variation_id" validate:"required,uuid"`
	Quantity    int             `json:"quantity"     validate:"gt=0"`
	CostPrice   decimal.Decimal `json:"cost_price"   validate:"min=0"`
}

// CreatePurchaseOrderRequest: supplier_id and items presence are checked by the
// service so the workflow answers 400 with its own message.
type CreatePurchaseOrderRequest struct {
	SupplierID           string                   `json:"supplier_id"            validate:"omitempty,uuid"`
	ExpectedDeliveryDate *string                  `json:"expected_delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Notes                *string                  `json:"notes"`
	Items                []PurchaseOrderItemInput `json:"items"                  validate:"dive"`
}

type UpdatePurchaseOrderRequest struct {
	SupplierID           string                   `json:"supplier_id"            validate:"required,uuid"`
	ExpectedDeliveryDate *string                  `json:"expected_delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Notes                *string                  `json:"notes"`
	Items                []PurchaseOrderItemInput `json:"items"                  validate:"dive"`
}

type ReceiveItemInput struct {
	ItemID   string `json:"item_id"  validate:"required,uuid"`
	Quantity int    `json:"quantity"`
}

type ReceiveItemsRequest struct {
	ItemsToReceive []ReceiveItemInput `json:"itemsToReceive" validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	VariationID      string          `json:"variation_id"`
	ProductName      string          `json:"product_name,omitempty"`
	VariationName    string          `json:"variation_name,omitempty"`
	Quantity         int             `json:"quantity"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	QuantityReceived int             `json:"quantity_received"`
}

type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	SupplierID           string                      `json:"supplier_id"`
	SupplierName         string                      `json:"supplier_name,omitempty"`
	UserID               string                      `json:"user_id"`
	OrderDate            string                      `json:"order_date"`
	ExpectedDeliveryDate *string                     `json:"expected_delivery_date"`
	Status               string                      `json:"status"`
	TotalAmount          decimal.Decimal             `json:"total_amount"`
	Notes                *string                     `json:"notes"`
	Items                []PurchaseOrderItemResponse `json:"items,omitempty"`
}

type ReceiveItemsResponse struct {
	PurchaseOrderID string `json:"purchase_order_id"`
	Status          string `json:"status"`
	TotalOrdered    int    `json:"total_ordered"`
	TotalReceived   int    `json:"total_received"`
}

package dto

type CreateSupplierRequest struct {
	Name  string  `json:"name"  validate:"required,min=2,max=150"`
	CNPJ  *string `json:"cnpj"  validate:"omitempty,min=14,max=18"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
}

type SupplierResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	CNPJ     *string `json:"cnpj"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	IsActive bool    `json:"is_active"`
}

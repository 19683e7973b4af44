package request

// CreateClientRequest represents a create client request
type CreateClientRequest struct {
	Name    string  `json:"name" binding:"required,max=255"`
	Email   *string `json:"email" binding:"omitempty,email,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address" binding:"omitempty,max=1000"`
	City    *string `json:"city" binding:"omitempty,max=100"`
	State   *string `json:"state" binding:"omitempty,max=100"`
	ZipCode *string `json:"zip_code" binding:"omitempty,max=20"`
	Country *string `json:"country" binding:"omitempty,max=100"`
	TaxID   *string `json:"tax_id" binding:"omitempty,max=50"`
	Notes   *string `json:"notes" binding:"omitempty,max=5000"`
}

// UpdateClientRequest represents a partial client update
type UpdateClientRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Email   *string `json:"email" binding:"omitempty,email,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address" binding:"omitempty,max=1000"`
	City    *string `json:"city" binding:"omitempty,max=100"`
	State   *string `json:"state" binding:"omitempty,max=100"`
	ZipCode *string `json:"zip_code" binding:"omitempty,max=20"`
	Country *string `json:"country" binding:"omitempty,max=100"`
	TaxID   *string `json:"tax_id" binding:"omitempty,max=50"`
	Notes   *string `json:"notes" binding:"omitempty,max=5000"`
}

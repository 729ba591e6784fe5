package dto

import (
	"bleuims/internal/core/apperror"
	"bleuims/internal/domain/sale"
)

// CartItem is one sold product line.
type CartItem struct {
	Name     string `json:"name" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required"`
}

// DeductFromSaleRequest carries the sold items of a completed sale.
type DeductFromSaleRequest struct {
	CartItems []CartItem `json:"cartItems" binding:"required"`
}

// ToModel converts to domain sold items. Every quantity must be positive.
func (r *DeductFromSaleRequest) ToModel() ([]sale.SoldItem, error) {
	items := make([]sale.SoldItem, len(r.CartItems))
	for i, ci := range r.CartItems {
		if ci.Quantity <= 0 {
			return nil, apperror.NewValidation("cart item quantity must be positive").
				WithDetail("name", ci.Name).
				WithDetail("quantity", ci.Quantity)
		}
		items[i] = sale.SoldItem{Name: ci.Name, Quantity: ci.Quantity}
	}
	return items, nil
}

// DeductFromSaleResponse acknowledges a processed sale deduction.
type DeductFromSaleResponse struct {
	Message string `json:"message"`
}

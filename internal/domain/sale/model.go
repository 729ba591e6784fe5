// Package sale provides the sale deduction processor: given a cart of sold
// products, it resolves each product's recipe and deducts the required
// materials from inventory in one transaction.
package sale

import (
	"github.com/shopspring/decimal"
)

// SoldItem is one cart line of a completed sale.
type SoldItem struct {
	Name     string
	Quantity int64
}

// RecipeLine is one material requirement of a recipe, per unit of product
// sold.
type RecipeLine struct {
	MaterialID int64           `db:"material_id"`
	Quantity   decimal.Decimal `db:"quantity"`
}

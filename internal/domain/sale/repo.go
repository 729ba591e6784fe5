package sale

import (
	"context"

	"github.com/shopspring/decimal"
)

// RecipeSource resolves product recipes. Recipes are read-only from this
// service's perspective; they are maintained by the product service.
type RecipeSource interface {
	// FindRecipeByProduct returns the recipe id for a product name.
	// Returns apperror.NewNotFound when the product has no recipe.
	FindRecipeByProduct(ctx context.Context, productName string) (int64, error)

	// Requirements returns the material requirements of a recipe.
	Requirements(ctx context.Context, recipeID int64) ([]RecipeLine, error)
}

// Inventory is the slice of the material repository the processor needs.
type Inventory interface {
	AdjustQuantity(ctx context.Context, id int64, delta decimal.Decimal) error
	RecomputeAllStatuses(ctx context.Context) error
}

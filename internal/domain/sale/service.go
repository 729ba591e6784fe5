package sale

import (
	"context"

	"github.com/shopspring/decimal"

	"bleuims/internal/core/apperror"
	"bleuims/internal/core/tx"
	"bleuims/pkg/logger"
)

// Service deducts sold materials from inventory.
type Service struct {
	recipes   RecipeSource
	inventory Inventory
	tx        tx.Manager
}

// NewService creates a new sale deduction service.
func NewService(recipes RecipeSource, inventory Inventory, txm tx.Manager) *Service {
	return &Service{recipes: recipes, inventory: inventory, tx: txm}
}

// DeductFromSale processes sold items in input order. Products without a
// recipe are skipped (a product may legitimately have no material recipe).
// Quantities may go negative; there is no floor. After all deductions, one
// set-based status recompute covers every material row.
//
// Everything runs in a single transaction; any failure rolls back and is
// surfaced as a single generic internal error.
func (s *Service) DeductFromSale(ctx context.Context, items []SoldItem) error {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, item := range items {
			recipeID, err := s.recipes.FindRecipeByProduct(ctx, item.Name)
			if err != nil {
				if apperror.IsNotFound(err) {
					logger.Info(ctx, "no recipe for product, skipping deduction",
						"product", item.Name)
					continue
				}
				return err
			}

			lines, err := s.recipes.Requirements(ctx, recipeID)
			if err != nil {
				return err
			}

			for _, line := range lines {
				required := line.Quantity.Mul(decimal.NewFromInt(item.Quantity))
				if err := s.inventory.AdjustQuantity(ctx, line.MaterialID, required.Neg()); err != nil {
					return err
				}
				logger.Info(ctx, "deducted material for sale",
					"material_id", line.MaterialID,
					"deducted", required.String(),
					"product", item.Name,
					"quantity_sold", item.Quantity)
			}
		}

		return s.inventory.RecomputeAllStatuses(ctx)
	})
	if err != nil {
		logger.Error(ctx, "sale deduction failed, transaction rolled back", "error", err)
		appErr := apperror.NewInternal(err)
		appErr.Message = "Failed to update materials inventory."
		return appErr
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bleuims/internal/core/apperror"
	"bleuims/internal/domain/sale"
)

const (
	productsTable        = "products"
	recipesTable         = "recipes"
	recipeMaterialsTable = "recipe_materials"
)

// RecipeRepo implements sale.RecipeSource over the product/recipe tables,
// which are read-only from this service's perspective.
type RecipeRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewRecipeRepo creates a new recipe repository.
func NewRecipeRepo(txm *TxManager) *RecipeRepo {
	return &RecipeRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindRecipeByProduct returns the recipe id for a product name.
func (r *RecipeRepo) FindRecipeByProduct(ctx context.Context, productName string) (int64, error) {
	sql, args, err := r.builder.Select("r.id").
		From(recipesTable + " r").
		Join(productsTable + " p ON p.id = r.product_id").
		Where(squirrel.Eq{"p.name": productName}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var recipeID int64
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&recipeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFound("recipe", productName)
		}
		return 0, fmt.Errorf("find recipe by product: %w", err)
	}
	return recipeID, nil
}

// Requirements returns the material requirements of a recipe.
func (r *RecipeRepo) Requirements(ctx context.Context, recipeID int64) ([]sale.RecipeLine, error) {
	sql, args, err := r.builder.Select("material_id", "quantity").
		From(recipeMaterialsTable).
		Where(squirrel.Eq{"recipe_id": recipeID}).
		OrderBy("material_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sale.RecipeLine
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select recipe materials: %w", err)
	}
	return lines, nil
}

// Ensure interface compliance.
var _ sale.RecipeSource = (*RecipeRepo)(nil)

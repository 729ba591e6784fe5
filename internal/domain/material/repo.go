package material

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for Material persistence.
//
// Mutating methods are expected to run inside a transaction started by the
// service; implementations must return apperror.NewNotFound when an id does
// not exist.
type Repository interface {
	// List returns all materials with their persisted status (no recompute).
	List(ctx context.Context) ([]Material, error)

	// Get retrieves a material by id.
	Get(ctx context.Context, id int64) (*Material, error)

	// FindByNameFold retrieves a material by case-insensitive name match.
	FindByNameFold(ctx context.Context, name string) (*Material, error)

	// Create inserts a material and fills the assigned id.
	Create(ctx context.Context, m *Material) error

	// Update overwrites name, quantity, measurement, date added and status.
	Update(ctx context.Context, m *Material) error

	// Delete removes a material row.
	Delete(ctx context.Context, id int64) error

	// Count returns the total number of material rows.
	Count(ctx context.Context) (int64, error)

	// CountBatches returns the number of batch rows referencing a material.
	CountBatches(ctx context.Context, id int64) (int64, error)

	// StatusCounts returns per-status counts, zero-filled.
	StatusCounts(ctx context.Context) (StatusCounts, error)

	// ListByStatus returns materials whose persisted status matches.
	ListByStatus(ctx context.Context, status Status) ([]Material, error)

	// AdjustQuantity changes the aggregate quantity by delta (signed).
	AdjustQuantity(ctx context.Context, id int64, delta decimal.Decimal) error

	// UpdateStatus persists a recomputed status.
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// RecomputeAllStatuses rewrites the status of every material row with a
	// single set-based update using the resolver thresholds.
	RecomputeAllStatuses(ctx context.Context) error
}

package batch

import (
	"context"

	"github.com/shopspring/decimal"

	"bleuims/internal/domain/material"
)

// Repository defines the interface for batch persistence.
// Implementations must return apperror.NewNotFound for missing ids.
type Repository interface {
	// Insert stores a batch and fills the assigned id and the
	// server-assigned restock timestamp.
	Insert(ctx context.Context, b *Batch) error

	// Get retrieves a batch (with its material's name) by id.
	Get(ctx context.Context, id int64) (*Batch, error)

	// ListAll returns every batch joined with its material's name.
	ListAll(ctx context.Context) ([]Batch, error)

	// ListByMaterial returns the batches recorded for one material.
	ListByMaterial(ctx context.Context, materialID int64) ([]Batch, error)

	// ApplyUpdate changes only the fields set on u.
	ApplyUpdate(ctx context.Context, id int64, u Update) error

	// UpdateStatus persists a re-derived batch status.
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// MaterialStore is the slice of the material repository the batch recorder
// needs to keep the parent aggregate consistent.
type MaterialStore interface {
	Get(ctx context.Context, id int64) (*material.Material, error)
	AdjustQuantity(ctx context.Context, id int64, delta decimal.Decimal) error
	UpdateStatus(ctx context.Context, id int64, status material.Status) error
}

package material

import (
	"context"
	"fmt"

	"bleuims/internal/core/apperror"
	"bleuims/internal/core/tx"
)

// Service provides business logic for the Material ledger.
// Every mutating operation runs in a single transaction; failure before
// commit leaves no partial effect.
type Service struct {
	repo Repository
	tx   tx.ReadOnlyManager
}

// NewService creates a new Material service.
func NewService(repo Repository, txm tx.ReadOnlyManager) *Service {
	return &Service{repo: repo, tx: txm}
}

// List returns all materials with their persisted status.
func (s *Service) List(ctx context.Context) ([]Material, error) {
	var out []Material
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.repo.List(ctx)
		return err
	})
	return out, err
}

// Create adds a material. The name must not collide case-insensitively with
// an existing one; the initial status is derived from quantity and
// measurement.
func (s *Service) Create(ctx context.Context, m *Material) (*Material, error) {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkNameFree(ctx, m.Name, 0); err != nil {
			return err
		}

		m.Status = ResolveStatus(m.Quantity, m.Measurement)
		if err := s.repo.Create(ctx, m); err != nil {
			return fmt.Errorf("create material: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update overwrites a material. The status is recomputed from the new
// quantity and measurement regardless of whether they changed.
func (s *Service) Update(ctx context.Context, m *Material) (*Material, error) {
	var out *Material
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkNameFree(ctx, m.Name, m.ID); err != nil {
			return err
		}

		m.Status = ResolveStatus(m.Quantity, m.Measurement)
		if err := s.repo.Update(ctx, m); err != nil {
			return err
		}

		stored, err := s.repo.Get(ctx, m.ID)
		if err != nil {
			return err
		}
		out = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a material. Deleting a material that still has recorded
// batches is forbidden, so batch history never ends up orphaned.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		batches, err := s.repo.CountBatches(ctx, id)
		if err != nil {
			return err
		}
		if batches > 0 {
			return apperror.NewConflict("material still has recorded batches").
				WithDetail("material_id", id).
				WithDetail("batch_count", batches)
		}
		return s.repo.Delete(ctx, id)
	})
}

// Count returns the total number of materials.
func (s *Service) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.repo.Count(ctx)
		return err
	})
	return n, err
}

// StockStatusCounts returns per-status material counts, zero-filled for
// statuses with no rows.
func (s *Service) StockStatusCounts(ctx context.Context) (StatusCounts, error) {
	var counts StatusCounts
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		counts, err = s.repo.StatusCounts(ctx)
		return err
	})
	return counts, err
}

// LowStockAlerts returns the dashboard projection of every material
// currently in Low Stock status.
func (s *Service) LowStockAlerts(ctx context.Context) ([]LowStockAlert, error) {
	var alerts []LowStockAlert
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		materials, err := s.repo.ListByStatus(ctx, StatusLowStock)
		if err != nil {
			return err
		}
		alerts = make([]LowStockAlert, len(materials))
		for i, m := range materials {
			alerts[i] = LowStockAlert{
				Name:          m.Name,
				Category:      "Material",
				InStock:       m.Quantity,
				ReorderLevel:  LowStockReorderLevel,
				LastRestocked: nil,
				Status:        m.Status,
			}
		}
		return nil
	})
	return alerts, err
}

// checkNameFree fails with a duplicate error when another material (with a
// different id) already uses the name, compared case-insensitively.
func (s *Service) checkNameFree(ctx context.Context, name string, excludeID int64) error {
	existing, err := s.repo.FindByNameFold(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return apperror.NewDuplicate("material", "name", name)
	}
	return nil
}

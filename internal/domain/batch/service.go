package batch

import (
	"context"
	"fmt"

	"bleuims/internal/core/apperror"
	"bleuims/internal/core/tx"
	"bleuims/internal/domain/material"
)

// Service provides business logic for the batch recorder.
//
// Invariant: creating or updating a batch's quantity changes the parent
// material's aggregate quantity by exactly the delta, atomically with the
// batch write, and the material's derived status is recomputed afterwards.
type Service struct {
	repo      Repository
	materials MaterialStore
	tx        tx.Manager
}

// NewService creates a new batch service.
func NewService(repo Repository, materials MaterialStore, txm tx.Manager) *Service {
	return &Service{repo: repo, materials: materials, tx: txm}
}

// Create records a restock event. The batch's own status is derived from its
// quantity, the restock timestamp is assigned server-side, and the parent
// material's aggregate quantity grows by the batch quantity.
func (s *Service) Create(ctx context.Context, b *Batch) (*Batch, error) {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := s.materials.Get(ctx, b.MaterialID)
		if err != nil {
			return err
		}

		b.Status = ResolveStatus(b.Quantity)
		if err := s.repo.Insert(ctx, b); err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		b.MaterialName = m.Name

		if err := s.materials.AdjustQuantity(ctx, b.MaterialID, b.Quantity); err != nil {
			return fmt.Errorf("adjust material quantity: %w", err)
		}
		return s.refreshMaterialStatus(ctx, b.MaterialID)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListAll returns every batch. Stored statuses that no longer match the
// batch quantity are repaired before the response is built; the repair runs
// row by row inside the same transaction as the read.
func (s *Service) ListAll(ctx context.Context) ([]Batch, error) {
	var out []Batch
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		rows, err := s.repo.ListAll(ctx)
		if err != nil {
			return err
		}
		if err := s.repairStatuses(ctx, rows); err != nil {
			return err
		}
		out = rows
		return nil
	})
	return out, err
}

// ListByMaterial returns the batches of one material, with the same lazy
// status repair as ListAll.
func (s *Service) ListByMaterial(ctx context.Context, materialID int64) ([]Batch, error) {
	var out []Batch
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		rows, err := s.repo.ListByMaterial(ctx, materialID)
		if err != nil {
			return err
		}
		if err := s.repairStatuses(ctx, rows); err != nil {
			return err
		}
		out = rows
		return nil
	})
	return out, err
}

// Update applies a partial update. If the quantity changes, the parent
// material's aggregate quantity is adjusted by new minus old, the batch's
// own status is re-derived, and the material's status is recomputed.
func (s *Service) Update(ctx context.Context, id int64, u Update) (*Batch, error) {
	if u.IsEmpty() {
		return nil, apperror.NewValidation("nothing to update")
	}

	var out *Batch
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if err := s.repo.ApplyUpdate(ctx, id, u); err != nil {
			return fmt.Errorf("apply batch update: %w", err)
		}

		if u.Quantity != nil {
			delta := u.Quantity.Sub(old.Quantity)
			if err := s.materials.AdjustQuantity(ctx, old.MaterialID, delta); err != nil {
				return fmt.Errorf("adjust material quantity: %w", err)
			}
		}

		updated, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if want := ResolveStatus(updated.Quantity); want != updated.Status {
			if err := s.repo.UpdateStatus(ctx, id, want); err != nil {
				return err
			}
			updated.Status = want
		}

		if u.Quantity != nil {
			if err := s.refreshMaterialStatus(ctx, old.MaterialID); err != nil {
				return err
			}
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// repairStatuses rewrites any stored batch status that disagrees with the
// batch's current quantity.
func (s *Service) repairStatuses(ctx context.Context, rows []Batch) error {
	for i := range rows {
		want := ResolveStatus(rows[i].Quantity)
		if want == rows[i].Status {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, rows[i].ID, want); err != nil {
			return err
		}
		rows[i].Status = want
	}
	return nil
}

// refreshMaterialStatus re-derives and persists the parent material's status
// from its current quantity and measurement.
func (s *Service) refreshMaterialStatus(ctx context.Context, materialID int64) error {
	m, err := s.materials.Get(ctx, materialID)
	if err != nil {
		return err
	}
	if want := material.ResolveStatus(m.Quantity, m.Measurement); want != m.Status {
		return s.materials.UpdateStatus(ctx, materialID, want)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bleuims/internal/core/apperror"
	"bleuims/internal/domain/batch"
)

const batchesTable = "material_batches"

// batchSelectColumns join the parent material's name into every read.
var batchSelectColumns = []string{
	"b.id", "b.material_id", "m.name AS material_name",
	"b.quantity", "b.unit", "b.batch_date", "b.restocked_at",
	"b.logged_by", "b.notes", "b.status",
}

// BatchRepo implements batch.Repository.
type BatchRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewBatchRepo creates a new batch repository.
func NewBatchRepo(txm *TxManager) *BatchRepo {
	return &BatchRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *BatchRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(batchSelectColumns...).
		From(batchesTable + " b").
		Join(materialsTable + " m ON m.id = b.material_id")
}

// Insert stores a batch. The restock timestamp is assigned by the database.
func (r *BatchRepo) Insert(ctx context.Context, b *batch.Batch) error {
	sql, args, err := r.builder.Insert(batchesTable).
		Columns("material_id", "quantity", "unit", "batch_date", "logged_by", "notes", "status").
		Values(b.MaterialID, b.Quantity, b.Unit, b.BatchDate, b.LoggedBy, b.Notes, b.Status).
		Suffix("RETURNING id, restocked_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&b.ID, &b.RestockedAt); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// Get retrieves a batch with its material's name.
func (r *BatchRepo) Get(ctx context.Context, id int64) (*batch.Batch, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b batch.Batch
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("batch", id)
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// ListAll returns every batch ordered by id.
func (r *BatchRepo) ListAll(ctx context.Context) ([]batch.Batch, error) {
	sql, args, err := r.baseSelect().OrderBy("b.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []batch.Batch
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("select batches: %w", err)
	}
	return batches, nil
}

// ListByMaterial returns the batches recorded for one material.
func (r *BatchRepo) ListByMaterial(ctx context.Context, materialID int64) ([]batch.Batch, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"b.material_id": materialID}).
		OrderBy("b.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []batch.Batch
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("select batches by material: %w", err)
	}
	return batches, nil
}

// ApplyUpdate changes only the fields set on u.
func (r *BatchRepo) ApplyUpdate(ctx context.Context, id int64, u batch.Update) error {
	q := r.builder.Update(batchesTable)
	if u.Quantity != nil {
		q = q.Set("quantity", *u.Quantity)
	}
	if u.Unit != nil {
		q = q.Set("unit", *u.Unit)
	}
	if u.BatchDate != nil {
		q = q.Set("batch_date", *u.BatchDate)
	}
	if u.LoggedBy != nil {
		q = q.Set("logged_by", *u.LoggedBy)
	}
	if u.Notes != nil {
		q = q.Set("notes", *u.Notes)
	}

	sql, args, err := q.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("batch", id)
	}
	return nil
}

// UpdateStatus persists a re-derived batch status.
func (r *BatchRepo) UpdateStatus(ctx context.Context, id int64, status batch.Status) error {
	sql, args, err := r.builder.Update(batchesTable).
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}
	return nil
}

// Ensure interface compliance.
var _ batch.Repository = (*BatchRepo)(nil)

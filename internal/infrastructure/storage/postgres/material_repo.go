package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"bleuims/internal/core/apperror"
	"bleuims/internal/domain/material"
)

const materialsTable = "materials"

var materialColumns = []string{"id", "name", "quantity", "measurement", "date_added", "status"}

// MaterialRepo implements material.Repository.
type MaterialRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewMaterialRepo creates a new material repository.
func NewMaterialRepo(txm *TxManager) *MaterialRepo {
	return &MaterialRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *MaterialRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(materialColumns...).From(materialsTable)
}

// List returns all materials ordered by id.
func (r *MaterialRepo) List(ctx context.Context) ([]material.Material, error) {
	sql, args, err := r.baseSelect().OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var materials []material.Material
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &materials, sql, args...); err != nil {
		return nil, fmt.Errorf("select materials: %w", err)
	}
	return materials, nil
}

// Get retrieves a material by id.
func (r *MaterialRepo) Get(ctx context.Context, id int64) (*material.Material, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m material.Material
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("material", id)
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}

// FindByNameFold retrieves a material by case-insensitive name match.
func (r *MaterialRepo) FindByNameFold(ctx context.Context, name string) (*material.Material, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", name)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m material.Material
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("material", name)
		}
		return nil, fmt.Errorf("find material by name: %w", err)
	}
	return &m, nil
}

// Create inserts a material and fills the assigned id.
func (r *MaterialRepo) Create(ctx context.Context, m *material.Material) error {
	sql, args, err := r.builder.Insert(materialsTable).
		Columns("name", "quantity", "measurement", "date_added", "status").
		Values(m.Name, m.Quantity, m.Measurement, m.DateAdded, m.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&m.ID); err != nil {
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// Update overwrites a material row.
func (r *MaterialRepo) Update(ctx context.Context, m *material.Material) error {
	sql, args, err := r.builder.Update(materialsTable).
		Set("name", m.Name).
		Set("quantity", m.Quantity).
		Set("measurement", m.Measurement).
		Set("date_added", m.DateAdded).
		Set("status", m.Status).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("material", m.ID)
	}
	return nil
}

// Delete removes a material row.
func (r *MaterialRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.builder.Delete(materialsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("material", id)
	}
	return nil
}

// Count returns the total number of material rows.
func (r *MaterialRepo) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.builder.Select("COUNT(*)").From(materialsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int64
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count materials: %w", err)
	}
	return n, nil
}

// CountBatches returns the number of batch rows referencing a material.
func (r *MaterialRepo) CountBatches(ctx context.Context, id int64) (int64, error) {
	sql, args, err := r.builder.Select("COUNT(*)").
		From(batchesTable).
		Where(squirrel.Eq{"material_id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int64
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count batches: %w", err)
	}
	return n, nil
}

// StatusCounts returns per-status counts, zero-filled via COALESCE.
func (r *MaterialRepo) StatusCounts(ctx context.Context) (material.StatusCounts, error) {
	sql := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN status = '%s' THEN 1 ELSE 0 END), 0) AS available,
			COALESCE(SUM(CASE WHEN status = '%s' THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(CASE WHEN status = '%s' THEN 1 ELSE 0 END), 0) AS not_available
		FROM %s
	`, material.StatusAvailable, material.StatusLowStock, material.StatusNotAvailable, materialsTable)

	var counts material.StatusCounts
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &counts, sql); err != nil {
		return counts, fmt.Errorf("count statuses: %w", err)
	}
	return counts, nil
}

// ListByStatus returns materials whose persisted status matches.
func (r *MaterialRepo) ListByStatus(ctx context.Context, status material.Status) ([]material.Material, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"status": status}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var materials []material.Material
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &materials, sql, args...); err != nil {
		return nil, fmt.Errorf("select materials by status: %w", err)
	}
	return materials, nil
}

// AdjustQuantity changes the aggregate quantity by delta (signed).
func (r *MaterialRepo) AdjustQuantity(ctx context.Context, id int64, delta decimal.Decimal) error {
	sql, args, err := r.builder.Update(materialsTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("adjust quantity: %w", err)
	}
	return nil
}

// UpdateStatus persists a recomputed status.
func (r *MaterialRepo) UpdateStatus(ctx context.Context, id int64, status material.Status) error {
	sql, args, err := r.builder.Update(materialsTable).
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// RecomputeAllStatuses rewrites every material's status in one set-based
// update. The CASE expression is rendered from the same threshold table the
// resolver uses, so the two can't drift apart.
func (r *MaterialRepo) RecomputeAllStatuses(ctx context.Context) error {
	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, recomputeStatusSQL()); err != nil {
		return fmt.Errorf("recompute statuses: %w", err)
	}
	return nil
}

// recomputeStatusSQL renders the bulk status update from the resolver's
// threshold table.
func recomputeStatusSQL() string {
	thresholds := material.UnitThresholds()

	units := make([]string, 0, len(thresholds))
	for unit := range thresholds {
		units = append(units, unit)
	}
	sort.Strings(units)

	var lowStock []string
	var quoted []string
	for _, unit := range units {
		lowStock = append(lowStock,
			fmt.Sprintf("(LOWER(measurement) = '%s' AND quantity <= %d)", unit, thresholds[unit]))
		quoted = append(quoted, "'"+unit+"'")
	}
	lowStock = append(lowStock,
		fmt.Sprintf("(LOWER(measurement) NOT IN (%s) AND quantity <= %d)",
			strings.Join(quoted, ", "), material.DefaultLowStockThreshold))

	return fmt.Sprintf(`
		UPDATE %s
		SET status = CASE
			WHEN quantity <= 0 THEN '%s'
			WHEN %s THEN '%s'
			ELSE '%s'
		END
	`, materialsTable,
		material.StatusNotAvailable,
		strings.Join(lowStock, " OR\n\t\t\t     "),
		material.StatusLowStock,
		material.StatusAvailable)
}

// Ensure interface compliance.
var _ material.Repository = (*MaterialRepo)(nil)

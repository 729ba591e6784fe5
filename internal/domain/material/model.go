// Package material provides the Material ledger: tracked raw-stock items
// with an aggregate quantity and a derived availability status.
package material

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the derived availability status of a material.
// It is never set independently of quantity and measurement: after every
// successful write that touches either, status must equal
// ResolveStatus(quantity, measurement).
type Status string

const (
	StatusAvailable    Status = "Available"
	StatusLowStock     Status = "Low Stock"
	StatusNotAvailable Status = "Not Available"
)

// Low-stock thresholds per unit of measurement. Any unit not listed here
// falls back to DefaultLowStockThreshold.
var unitThresholds = map[string]int64{
	"pcs":  10,
	"box":  5,
	"pack": 5,
}

// DefaultLowStockThreshold applies to units without a specific threshold.
const DefaultLowStockThreshold int64 = 1

// LowStockThreshold returns the low-stock threshold for a unit of
// measurement. The lookup is case-insensitive.
func LowStockThreshold(measurement string) decimal.Decimal {
	if t, ok := unitThresholds[strings.ToLower(measurement)]; ok {
		return decimal.NewFromInt(t)
	}
	return decimal.NewFromInt(DefaultLowStockThreshold)
}

// UnitThresholds returns a copy of the per-unit threshold table.
// Infrastructure code uses it to render the same rules as a set-based
// SQL expression for bulk recomputation.
func UnitThresholds() map[string]int64 {
	out := make(map[string]int64, len(unitThresholds))
	for k, v := range unitThresholds {
		out[k] = v
	}
	return out
}

// ResolveStatus maps (quantity, measurement) to an availability status.
// Pure function, no I/O:
//
//	quantity <= 0               -> Not Available
//	quantity <= threshold(unit) -> Low Stock
//	otherwise                   -> Available
func ResolveStatus(quantity decimal.Decimal, measurement string) Status {
	if quantity.Sign() <= 0 {
		return StatusNotAvailable
	}
	if quantity.LessThanOrEqual(LowStockThreshold(measurement)) {
		return StatusLowStock
	}
	return StatusAvailable
}

// Material is a tracked raw-stock item.
type Material struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	Measurement string          `db:"measurement" json:"measurement"`
	DateAdded   time.Time       `db:"date_added" json:"dateAdded"`
	Status      Status          `db:"status" json:"status"`
}

// StatusCounts is the per-status material count, zero-filled for statuses
// with no rows.
type StatusCounts struct {
	Available    int64 `db:"available" json:"available"`
	LowStock     int64 `db:"low_stock" json:"low_stock"`
	NotAvailable int64 `db:"not_available" json:"not_available"`
}

// LowStockReorderLevel is the fixed reorder level shown on the dashboard.
const LowStockReorderLevel = 5

// LowStockAlert is the dashboard projection of a low-stock material.
type LowStockAlert struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	InStock       decimal.Decimal `json:"inStock"`
	ReorderLevel  int             `json:"reorderLevel"`
	LastRestocked *time.Time      `json:"lastRestocked"`
	Status        Status          `json:"status"`
}

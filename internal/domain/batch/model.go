// Package batch provides the Batch recorder: discrete restock events logged
// against a material, each mutating the parent material's aggregate quantity.
package batch

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle status of a single batch, derived solely from the
// batch's own quantity. It is independent of the threshold formula used for
// the parent material.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusUsed      Status = "Used"
)

// ResolveStatus derives a batch's status from its quantity:
// zero means the delivery is fully consumed.
func ResolveStatus(quantity decimal.Decimal) Status {
	if quantity.IsZero() {
		return StatusUsed
	}
	return StatusAvailable
}

// Batch is one recorded restock event.
type Batch struct {
	ID           int64           `db:"id" json:"id"`
	MaterialID   int64           `db:"material_id" json:"materialId"`
	MaterialName string          `db:"material_name" json:"materialName"`
	Quantity     decimal.Decimal `db:"quantity" json:"quantity"`
	Unit         string          `db:"unit" json:"unit"`
	BatchDate    time.Time       `db:"batch_date" json:"batchDate"`
	RestockedAt  time.Time       `db:"restocked_at" json:"restockedAt"`
	LoggedBy     string          `db:"logged_by" json:"loggedBy"`
	Notes        *string         `db:"notes" json:"notes,omitempty"`
	Status       Status          `db:"status" json:"status"`
}

// Update is a partial update of a batch. Only non-nil fields change; the
// updatable columns are fixed here rather than assembled from a mapping
// table at runtime.
type Update struct {
	Quantity  *decimal.Decimal
	Unit      *string
	BatchDate *time.Time
	LoggedBy  *string
	Notes     *string
}

// IsEmpty reports whether the update carries no fields.
func (u Update) IsEmpty() bool {
	return u.Quantity == nil && u.Unit == nil && u.BatchDate == nil &&
		u.LoggedBy == nil && u.Notes == nil
}

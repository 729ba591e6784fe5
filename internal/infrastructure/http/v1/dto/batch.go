package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"bleuims/internal/core/apperror"
	"bleuims/internal/domain/batch"
)

// --- Request DTOs ---

// CreateBatchRequest records a restock event against a material.
type CreateBatchRequest struct {
	MaterialID int64           `json:"materialId" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit" binding:"required"`
	BatchDate  string          `json:"batchDate" binding:"required"`
	LoggedBy   string          `json:"loggedBy" binding:"required"`
	Notes      *string         `json:"notes,omitempty"`
}

// ToModel converts to a domain batch. Quantity must not be negative.
func (r *CreateBatchRequest) ToModel() (*batch.Batch, error) {
	if r.Quantity.IsNegative() {
		return nil, apperror.NewValidation("quantity must not be negative").
			WithDetail("quantity", r.Quantity.String())
	}

	batchDate, err := time.Parse(time.DateOnly, r.BatchDate)
	if err != nil {
		return nil, apperror.NewValidation("batchDate must be in YYYY-MM-DD format").
			WithDetail("batchDate", r.BatchDate)
	}

	return &batch.Batch{
		MaterialID: r.MaterialID,
		Quantity:   r.Quantity,
		Unit:       r.Unit,
		BatchDate:  batchDate,
		LoggedBy:   r.LoggedBy,
		Notes:      r.Notes,
	}, nil
}

// UpdateBatchRequest is a partial batch update; absent fields keep their
// stored value.
type UpdateBatchRequest struct {
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	Unit      *string          `json:"unit,omitempty"`
	BatchDate *string          `json:"batchDate,omitempty"`
	LoggedBy  *string          `json:"loggedBy,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

// ToUpdate converts to a domain update.
func (r *UpdateBatchRequest) ToUpdate() (batch.Update, error) {
	u := batch.Update{
		Quantity: r.Quantity,
		Unit:     r.Unit,
		LoggedBy: r.LoggedBy,
		Notes:    r.Notes,
	}

	if r.Quantity != nil && r.Quantity.IsNegative() {
		return batch.Update{}, apperror.NewValidation("quantity must not be negative").
			WithDetail("quantity", r.Quantity.String())
	}

	if r.BatchDate != nil {
		parsed, err := time.Parse(time.DateOnly, *r.BatchDate)
		if err != nil {
			return batch.Update{}, apperror.NewValidation("batchDate must be in YYYY-MM-DD format").
				WithDetail("batchDate", *r.BatchDate)
		}
		u.BatchDate = &parsed
	}

	return u, nil
}

// --- Response DTOs ---

// BatchResponse represents a batch in API responses.
type BatchResponse struct {
	ID           int64           `json:"id"`
	MaterialID   int64           `json:"materialId"`
	MaterialName string          `json:"materialName"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	BatchDate    string          `json:"batchDate"`
	RestockedAt  time.Time       `json:"restockedAt"`
	LoggedBy     string          `json:"loggedBy"`
	Notes        *string         `json:"notes"`
	Status       string          `json:"status"`
}

// FromBatch creates a response from a domain batch.
func FromBatch(b *batch.Batch) *BatchResponse {
	return &BatchResponse{
		ID:           b.ID,
		MaterialID:   b.MaterialID,
		MaterialName: b.MaterialName,
		Quantity:     b.Quantity,
		Unit:         b.Unit,
		BatchDate:    b.BatchDate.Format(time.DateOnly),
		RestockedAt:  b.RestockedAt,
		LoggedBy:     b.LoggedBy,
		Notes:        b.Notes,
		Status:       string(b.Status),
	}
}

// FromBatches creates a response list, never nil.
func FromBatches(batches []batch.Batch) []*BatchResponse {
	out := make([]*BatchResponse, len(batches))
	for i := range batches {
		out[i] = FromBatch(&batches[i])
	}
	return out
}

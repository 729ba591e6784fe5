// Package dto provides data transfer objects for the HTTP API.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"bleuims/internal/core/apperror"
	"bleuims/internal/domain/material"
)

// --- Request DTOs ---

// MaterialRequest creates or overwrites a material. Status is never accepted
// from the client; it is always derived server-side.
type MaterialRequest struct {
	Name        string          `json:"name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Measurement string          `json:"measurement" binding:"required"`
	DateAdded   string          `json:"dateAdded,omitempty"`
}

// ToModel converts to a domain material. A missing dateAdded defaults to
// today; quantity must not be negative.
func (r *MaterialRequest) ToModel() (*material.Material, error) {
	if r.Quantity.IsNegative() {
		return nil, apperror.NewValidation("quantity must not be negative").
			WithDetail("quantity", r.Quantity.String())
	}

	dateAdded := time.Now().UTC().Truncate(24 * time.Hour)
	if r.DateAdded != "" {
		parsed, err := time.Parse(time.DateOnly, r.DateAdded)
		if err != nil {
			return nil, apperror.NewValidation("dateAdded must be in YYYY-MM-DD format").
				WithDetail("dateAdded", r.DateAdded)
		}
		dateAdded = parsed
	}

	return &material.Material{
		Name:        r.Name,
		Quantity:    r.Quantity,
		Measurement: r.Measurement,
		DateAdded:   dateAdded,
	}, nil
}

// --- Response DTOs ---

// MaterialResponse represents a material in API responses.
type MaterialResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Measurement string          `json:"measurement"`
	DateAdded   string          `json:"dateAdded"`
	Status      string          `json:"status"`
}

// FromMaterial creates a response from a domain material.
func FromMaterial(m *material.Material) *MaterialResponse {
	return &MaterialResponse{
		ID:          m.ID,
		Name:        m.Name,
		Quantity:    m.Quantity,
		Measurement: m.Measurement,
		DateAdded:   m.DateAdded.Format(time.DateOnly),
		Status:      string(m.Status),
	}
}

// FromMaterials creates a response list, never nil.
func FromMaterials(materials []material.Material) []*MaterialResponse {
	out := make([]*MaterialResponse, len(materials))
	for i := range materials {
		out[i] = FromMaterial(&materials[i])
	}
	return out
}

// CountResponse carries a single total.
type CountResponse struct {
	Count int64 `json:"count"`
}

// StatusCountsResponse is the per-status material tally.
type StatusCountsResponse struct {
	Available    int64 `json:"available"`
	LowStock     int64 `json:"low_stock"`
	NotAvailable int64 `json:"not_available"`
}

// FromStatusCounts creates a response from domain counts.
func FromStatusCounts(c material.StatusCounts) *StatusCountsResponse {
	return &StatusCountsResponse{
		Available:    c.Available,
		LowStock:     c.LowStock,
		NotAvailable: c.NotAvailable,
	}
}

// LowStockAlertResponse is one row of the low-stock dashboard.
type LowStockAlertResponse struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	InStock       decimal.Decimal `json:"inStock"`
	ReorderLevel  int             `json:"reorderLevel"`
	LastRestocked *string         `json:"lastRestocked"`
	Status        string          `json:"status"`
}

// FromLowStockAlerts creates the dashboard response list, never nil.
func FromLowStockAlerts(alerts []material.LowStockAlert) []*LowStockAlertResponse {
	out := make([]*LowStockAlertResponse, len(alerts))
	for i, a := range alerts {
		var restocked *string
		if a.LastRestocked != nil {
			s := a.LastRestocked.Format(time.DateOnly)
			restocked = &s
		}
		out[i] = &LowStockAlertResponse{
			Name:          a.Name,
			Category:      a.Category,
			InStock:       a.InStock,
			ReorderLevel:  a.ReorderLevel,
			LastRestocked: restocked,
			Status:        string(a.Status),
		}
	}
	return out
}

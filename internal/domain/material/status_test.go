package material

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name        string
		quantity    string
		measurement string
		want        Status
	}{
		{"zero is not available", "0", "pcs", StatusNotAvailable},
		{"negative is not available", "-3", "kg", StatusNotAvailable},
		{"pcs at threshold", "10", "pcs", StatusLowStock},
		{"pcs just above threshold", "10.5", "pcs", StatusAvailable},
		{"pcs well stocked", "25", "pcs", StatusAvailable},
		{"box at threshold", "5", "box", StatusLowStock},
		{"box above threshold", "6", "box", StatusAvailable},
		{"pack at threshold", "5", "pack", StatusLowStock},
		{"unknown unit default threshold", "1", "kg", StatusLowStock},
		{"unknown unit above default", "1.01", "kg", StatusAvailable},
		{"fractional below zero boundary", "0.5", "liters", StatusLowStock},
		{"measurement case is ignored", "10", "PCS", StatusLowStock},
		{"measurement mixed case", "7", "Box", StatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, err := decimal.NewFromString(tt.quantity)
			if err != nil {
				t.Fatalf("bad quantity %q: %v", tt.quantity, err)
			}
			if got := ResolveStatus(qty, tt.measurement); got != tt.want {
				t.Errorf("ResolveStatus(%s, %q) = %q, want %q",
					tt.quantity, tt.measurement, got, tt.want)
			}
		})
	}
}

func TestLowStockThreshold(t *testing.T) {
	if got := LowStockThreshold("pcs"); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("pcs threshold = %s, want 10", got)
	}
	if got := LowStockThreshold("PACK"); !got.Equal(decimal.NewFromInt(5)) {
		t.Errorf("PACK threshold = %s, want 5", got)
	}
	if got := LowStockThreshold("liters"); !got.Equal(decimal.NewFromInt(DefaultLowStockThreshold)) {
		t.Errorf("liters threshold = %s, want default %d", got, DefaultLowStockThreshold)
	}
}

func TestUnitThresholdsReturnsCopy(t *testing.T) {
	m := UnitThresholds()
	m["pcs"] = 999

	if got := LowStockThreshold("pcs"); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("mutating the returned map changed the threshold table")
	}
}

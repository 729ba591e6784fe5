package postgres

import (
	"strings"
	"testing"
)

func TestRecomputeStatusSQL(t *testing.T) {
	sql := recomputeStatusSQL()

	// Zero and negative quantities win over every unit threshold.
	if !strings.Contains(sql, "WHEN quantity <= 0 THEN 'Not Available'") {
		t.Errorf("missing not-available clause:\n%s", sql)
	}

	// Per-unit thresholds must match the resolver's table.
	for _, clause := range []string{
		"(LOWER(measurement) = 'pcs' AND quantity <= 10)",
		"(LOWER(measurement) = 'box' AND quantity <= 5)",
		"(LOWER(measurement) = 'pack' AND quantity <= 5)",
	} {
		if !strings.Contains(sql, clause) {
			t.Errorf("missing clause %q:\n%s", clause, sql)
		}
	}

	// Unknown units fall back to the default threshold.
	if !strings.Contains(sql, "NOT IN ('box', 'pack', 'pcs') AND quantity <= 1)") {
		t.Errorf("missing default-threshold fallback:\n%s", sql)
	}

	if !strings.Contains(sql, "ELSE 'Available'") {
		t.Errorf("missing available fallback:\n%s", sql)
	}
}

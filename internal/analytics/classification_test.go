package analytics

import (
	"testing"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

func TestClassify_ABC(t *testing.T) {
	set := setOf(
		rec(day1, "A", "W1", 1, 70),
		rec(day1, "B", "W1", 1, 15),
		rec(day1, "C", "W1", 1, 10),
		rec(day1, "D", "W1", 1, 5),
	)

	result := Classify(set, domain.Filter{})

	want := map[string]string{"A": "A", "B": "A", "C": "B", "D": "C"}
	if len(result.Items) != 4 {
		t.Fatalf("Expected 4 items, got %d", len(result.Items))
	}
	for _, c := range result.Items {
		if c.ABC != want[c.Item] {
			t.Errorf("Expected %s to be class %s, got %s (cumulative %v)", c.Item, want[c.Item], c.ABC, c.CumulativePct)
		}
	}
	if result.Items[0].Item != "A" || !near(result.Items[3].CumulativePct, 100) {
		t.Errorf("Unexpected ordering: %+v", result.Items)
	}
}

func TestClassify_XYZ(t *testing.T) {
	set := setOf(
		rec(day1, "STEADY", "W1", 1, 10),
		rec(day2, "STEADY", "W1", 1, 11),
		rec(day3, "STEADY", "W1", 1, 9),
		rec(day1, "SWING", "W1", 1, 1),
		rec(day2, "SWING", "W1", 1, 30),
		rec(day3, "SWING", "W1", 1, 1),
		rec(day3, "ONCE", "W1", 1, 4),
		rec(day3, "EMPTY", "W1", 1, 0),
	)

	result := Classify(set, domain.Filter{})

	want := map[string]string{"STEADY": "X", "SWING": "Z", "ONCE": "X", "EMPTY": "Z"}
	total := 0
	for _, c := range result.Items {
		if c.XYZ != want[c.Item] {
			t.Errorf("Expected %s to be class %s, got %s (cv %v)", c.Item, want[c.Item], c.XYZ, c.CoefficientOfVariation)
		}
	}
	for _, n := range result.Matrix {
		total += n
	}
	if total != len(result.Items) || len(result.Matrix) != 9 {
		t.Errorf("Expected a 3x3 matrix counting every item, got %+v", result.Matrix)
	}
}

func TestClassify_ZeroValueAndEmpty(t *testing.T) {
	result := Classify(setOf(rec(day1, "A", "W1", 0, 5)), domain.Filter{})
	if len(result.Items) != 1 || result.Items[0].ABC != "C" {
		t.Errorf("Expected zero-value item to be class C, got %+v", result.Items)
	}

	empty := Classify(nil, domain.Filter{})
	if len(empty.Items) != 0 || empty.Matrix["AX"] != 0 {
		t.Errorf("Expected empty classification, got %+v", empty)
	}
}

func TestVariation(t *testing.T) {
	mean, cv := variation([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !near(mean, 5) || !near(cv, 0.4) {
		t.Errorf("Expected mean 5 and cv 0.4, got %v and %v", mean, cv)
	}
}

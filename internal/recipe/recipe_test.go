package recipe

import (
	"encoding/json"
	"testing"
)

func TestAmountUnmarshal(t *testing.T) {
	var ing Ingredient

	if err := json.Unmarshal([]byte(`{"name": "flour", "amount": "2", "unit": "cup"}`), &ing); err != nil {
		t.Fatalf("Unmarshal string amount failed: %v", err)
	}
	if ing.Amount != "2" {
		t.Errorf("Expected amount \"2\", got %q", ing.Amount)
	}

	// Models frequently emit amounts as bare numbers.
	if err := json.Unmarshal([]byte(`{"name": "flour", "amount": 2.5, "unit": "cup"}`), &ing); err != nil {
		t.Fatalf("Unmarshal numeric amount failed: %v", err)
	}
	if ing.Amount != "2.5" {
		t.Errorf("Expected amount \"2.5\", got %q", ing.Amount)
	}

	if err := json.Unmarshal([]byte(`{"name": "salt", "amount": null}`), &ing); err != nil {
		t.Fatalf("Unmarshal null amount failed: %v", err)
	}
	if ing.Amount != "" {
		t.Errorf("Expected empty amount for null, got %q", ing.Amount)
	}
}

func TestAmountFloat(t *testing.T) {
	if v, ok := Amount("2.5").Float(); !ok || v != 2.5 {
		t.Errorf("Expected 2.5, got %v (ok=%v)", v, ok)
	}
	if _, ok := Amount("to taste").Float(); ok {
		t.Error("Expected textual amount to not parse as a number")
	}
}

func TestTotalTimeMinutes(t *testing.T) {
	rec := Recipe{PrepTimeMinutes: 15, CookTimeMinutes: 30}
	if got := rec.TotalTimeMinutes(); got != 45 {
		t.Errorf("Expected 45 minutes total, got %d", got)
	}
}

func TestFitsMealType(t *testing.T) {
	rec := Recipe{MealTypes: []string{"dinner", "lunch"}}
	if !rec.FitsMealType("dinner") {
		t.Error("Expected recipe tagged dinner to fit the dinner slot")
	}
	if rec.FitsMealType("breakfast") {
		t.Error("Expected recipe not tagged breakfast to be rejected")
	}

	untagged := Recipe{}
	if !untagged.FitsMealType("breakfast") {
		t.Error("Expected untagged recipe to fit any slot")
	}
}

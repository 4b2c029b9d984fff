package shopping

import (
	"reflect"
	"testing"

	"mealmind/internal/recipe"
)

func ing(name, amount, unit string) SourcedIngredient {
	return SourcedIngredient{Ingredient: recipe.Ingredient{Name: name, Amount: recipe.Amount(amount), Unit: unit}}
}

func TestConsolidateSumsNumericAmounts(t *testing.T) {
	items := Consolidate([]SourcedIngredient{
		ing("rice", "200", "g"),
		ing("rice", "200", "g"),
	})
	if len(items) != 1 {
		t.Fatalf("Expected 1 consolidated item, got %d", len(items))
	}
	if items[0].Amount != "400" {
		t.Errorf("Expected amount 400, got %q", items[0].Amount)
	}
}

func TestConsolidateMergesModifiersAndPlurals(t *testing.T) {
	items := Consolidate([]SourcedIngredient{
		ing("whole eggs", "2", ""),
		ing("whole eggs", "3", ""),
	})
	if len(items) != 1 {
		t.Fatalf("Expected whole eggs to merge into one item, got %d", len(items))
	}
	if items[0].Name != "egg" {
		t.Errorf("Expected normalized name egg, got %q", items[0].Name)
	}
	if items[0].Amount != "5" {
		t.Errorf("Expected amount 5, got %q", items[0].Amount)
	}
}

func TestConsolidateUnitAliases(t *testing.T) {
	items := Consolidate([]SourcedIngredient{
		ing("flour", "1", "cup"),
		ing("flour", "2", "cups"),
	})
	if len(items) != 1 {
		t.Fatalf("Expected cup and cups to merge, got %d items", len(items))
	}
	if items[0].Amount != "3" || items[0].Unit != "cup" {
		t.Errorf("Expected 3 cup, got %s %s", items[0].Amount, items[0].Unit)
	}
}

func TestConsolidateKeepsDifferentUnitsApart(t *testing.T) {
	items := Consolidate([]SourcedIngredient{
		ing("olive oil", "2", "tbsp"),
		ing("olive oil", "100", "ml"),
	})
	if len(items) != 2 {
		t.Fatalf("Expected different units to stay separate, got %d items", len(items))
	}
}

func TestConsolidateTextualAmounts(t *testing.T) {
	items := Consolidate([]SourcedIngredient{
		ing("salt", "a pinch", ""),
		ing("salt", "to taste", ""),
	})
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Amount != "a pinch + to taste" {
		t.Errorf("Expected textual amounts joined, got %q", items[0].Amount)
	}
}

func TestConsolidateRecordsProvenance(t *testing.T) {
	items := Consolidate([]SourcedIngredient{
		{Ingredient: recipe.Ingredient{Name: "onion", Amount: "1"}, RecipeName: "Beef Stew"},
		{Ingredient: recipe.Ingredient{Name: "onions", Amount: "2"}, RecipeName: "Chicken Curry"},
		{Ingredient: recipe.Ingredient{Name: "onion", Amount: "1"}, RecipeName: "Beef Stew"},
	})
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	want := []string{"Beef Stew", "Chicken Curry"}
	if !reflect.DeepEqual(items[0].RecipeNames, want) {
		t.Errorf("Expected recipe names %v, got %v", want, items[0].RecipeNames)
	}
	if items[0].Amount != "4" {
		t.Errorf("Expected amount 4, got %q", items[0].Amount)
	}
}

func TestConsolidateSortsByCategoryThenName(t *testing.T) {
	items := Consolidate([]SourcedIngredient{
		ing("spaghetti", "500", "g"),
		ing("chicken breast", "1", "kg"),
		ing("basil", "1", "bunch"),
		ing("carrot", "3", ""),
	})

	var order []string
	for _, item := range items {
		order = append(order, item.Category+"/"+item.Name)
	}
	want := []string{
		"grains & pasta/spaghetti",
		"meat & seafood/chicken breast",
		"produce/carrot",
		"spices/basil",
	}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected order %v, got %v", want, order)
	}
}

func TestConsolidateIsIdempotent(t *testing.T) {
	input := []SourcedIngredient{
		ing("rice", "200", "g"),
		ing("rice", "200", "g"),
		ing("whole eggs", "2", ""),
		ing("salt", "to taste", ""),
	}
	once := Consolidate(input)

	var again []SourcedIngredient
	for _, item := range once {
		again = append(again, SourcedIngredient{
			Ingredient: recipe.Ingredient{Name: item.Name, Amount: recipe.Amount(item.Amount), Unit: item.Unit, Category: item.Category},
		})
	}
	twice := Consolidate(again)

	if len(once) != len(twice) {
		t.Fatalf("Expected idempotent consolidation, got %d then %d items", len(once), len(twice))
	}
	for i := range once {
		if once[i].Name != twice[i].Name || once[i].Amount != twice[i].Amount || once[i].Unit != twice[i].Unit || once[i].Category != twice[i].Category {
			t.Errorf("Item %d changed on re-consolidation: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestConsolidateAssignsItemIDs(t *testing.T) {
	items := Consolidate([]SourcedIngredient{
		ing("rice", "200", "g"),
		ing("carrot", "2", ""),
	})

	seen := make(map[string]bool)
	for _, item := range items {
		if item.ID == "" {
			t.Errorf("Expected item %q to carry an id", item.Name)
		}
		if seen[item.ID] {
			t.Errorf("Expected unique item ids, %q repeated", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestCategorizePrefersProvidedCategory(t *testing.T) {
	items := Consolidate([]SourcedIngredient{
		{Ingredient: recipe.Ingredient{Name: "mystery spice blend", Amount: "1", Unit: "tsp", Category: "spices"}},
	})
	if items[0].Category != CategorySpices {
		t.Errorf("Expected provided category to win, got %q", items[0].Category)
	}
}

func TestCategorizeFallsBackToOther(t *testing.T) {
	items := Consolidate([]SourcedIngredient{ing("xanthan gum", "1", "tsp")})
	if items[0].Category != CategoryOther {
		t.Errorf("Expected unknown ingredient in Other, got %q", items[0].Category)
	}
}

package recipe

import (
	"testing"

	"mealmind/internal/household"
)

func testRecipes() []Recipe {
	return []Recipe{
		{
			Name:        "Grilled Chicken Salad",
			Description: "Light salad with grilled chicken",
			Ingredients: []Ingredient{{Name: "chicken breast"}, {Name: "lettuce"}, {Name: "olive oil"}},
			Cuisine:     "Mediterranean",
			PrepTimeMinutes: 10, CookTimeMinutes: 15,
		},
		{
			Name:        "Creamy Pasta Carbonara",
			Description: "Classic Roman pasta",
			Ingredients: []Ingredient{{Name: "spaghetti"}, {Name: "egg"}, {Name: "parmesan"}, {Name: "bacon"}},
			Cuisine:     "Italian",
			PrepTimeMinutes: 10, CookTimeMinutes: 20,
		},
		{
			Name:        "Slow Beef Stew",
			Description: "Hearty stew for cold days",
			Ingredients: []Ingredient{{Name: "beef chuck"}, {Name: "carrot"}, {Name: "potato"}},
			Cuisine:     "French",
			PrepTimeMinutes: 20, CookTimeMinutes: 120,
		},
		{
			Name:        "Chicken Stir Fry",
			Description: "Fast weeknight stir fry",
			Ingredients: []Ingredient{{Name: "chicken thigh"}, {Name: "broccoli"}, {Name: "tamari"}},
			Cuisine:     "Chinese",
			PrepTimeMinutes: 10, CookTimeMinutes: 10,
		},
	}
}

func TestExtractIngredientKeywords(t *testing.T) {
	keywords := ExtractIngredientKeywords("can you make something with chicken and broccoli")
	if len(keywords) != 2 {
		t.Fatalf("Expected 2 keywords, got %v", keywords)
	}
	if keywords[0] != "chicken" || keywords[1] != "broccoli" {
		t.Errorf("Expected [chicken broccoli], got %v", keywords)
	}

	if kws := ExtractIngredientKeywords("what should we eat tonight"); len(kws) != 0 {
		t.Errorf("Expected no keywords for a vague query, got %v", kws)
	}
}

func TestMatchQueryExplicitIngredient(t *testing.T) {
	candidates := MatchQuery("something with chicken", testRecipes(), nil, household.UserPreferences{})
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 chicken candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		found := false
		for _, ing := range c.Recipe.Ingredients {
			if ing.Name == "chicken breast" || ing.Name == "chicken thigh" {
				found = true
			}
		}
		if !found {
			t.Errorf("Candidate %q does not contain chicken", c.Recipe.Name)
		}
	}
}

func TestMatchQueryExplicitIngredientNoMatchIsFinal(t *testing.T) {
	// The household asked for a specific ingredient nothing contains. The
	// pipeline must return empty rather than substitute something else.
	candidates := MatchQuery("something with salmon", testRecipes(), nil, household.UserPreferences{})
	if candidates != nil {
		t.Fatalf("Expected no candidates for an unmatched explicit ingredient, got %d", len(candidates))
	}
}

func TestMatchQueryAppliesSafetyFirst(t *testing.T) {
	restrictions := []household.DietaryRestriction{{Name: "Vegetarian"}}
	candidates := MatchQuery("something with chicken", testRecipes(), restrictions, household.UserPreferences{})
	if len(candidates) != 0 {
		t.Fatalf("Expected no candidates: every chicken recipe violates vegetarian, got %d", len(candidates))
	}
}

func TestMatchQuerySoftTimeFilter(t *testing.T) {
	prefs := household.UserPreferences{CookingTime: household.CookingTimeQuick}
	candidates := MatchQuery("quick dinner ideas", testRecipes(), nil, prefs)
	if len(candidates) == 0 {
		t.Fatal("Expected candidates for a meal-related query")
	}
	for _, c := range candidates {
		if c.Recipe.TotalTimeMinutes() > 30 {
			t.Errorf("Expected only quick recipes, got %q at %d min", c.Recipe.Name, c.Recipe.TotalTimeMinutes())
		}
	}
}

func TestMatchQuerySoftFilterNeverEmpties(t *testing.T) {
	// Every recipe contains a disliked ingredient, so the disliked filter
	// would empty the set; it must be skipped instead.
	prefs := household.UserPreferences{
		DislikedIngredients: []string{"chicken", "spaghetti", "beef"},
	}
	candidates := MatchQuery("dinner tonight", testRecipes(), nil, prefs)
	if len(candidates) == 0 {
		t.Fatal("Expected soft filters to be skipped rather than empty the result")
	}
}

func TestMatchQueryMealRelatedFallback(t *testing.T) {
	candidates := MatchQuery("i am hungry", testRecipes(), nil, household.UserPreferences{})
	if len(candidates) == 0 {
		t.Fatal("Expected a meal-related query to fall back to generic suggestions")
	}
	if len(candidates) > 3 {
		t.Errorf("Expected at most 3 candidates, got %d", len(candidates))
	}
}

func TestMatchQueryCapsAtThree(t *testing.T) {
	recipes := testRecipes()
	prefs := household.UserPreferences{FavoriteIngredients: []string{"chicken", "beef", "spaghetti"}}
	candidates := MatchQuery("what can i cook for dinner", recipes, nil, prefs)
	if len(candidates) > 3 {
		t.Errorf("Expected at most 3 candidates, got %d", len(candidates))
	}
}

func TestFillSlotExcludesUsedNames(t *testing.T) {
	recipes := testRecipes()
	used := map[string]bool{"grilled chicken salad": true, "chicken stir fry": true}
	prefs := household.UserPreferences{FavoriteIngredients: []string{"chicken"}}

	rec := FillSlot(recipes, nil, prefs, "dinner", used)
	if rec == nil {
		t.Fatal("Expected a slot fill from the remaining recipes")
	}
	if used[rec.Name] {
		t.Errorf("FillSlot returned an excluded recipe: %q", rec.Name)
	}
}

func TestFillSlotReturnsNilWhenNothingSafe(t *testing.T) {
	restrictions := []household.DietaryRestriction{{Name: "Vegan"}}
	if rec := FillSlot(testRecipes(), restrictions, household.UserPreferences{}, "dinner", nil); rec != nil {
		t.Errorf("Expected nil when no saved recipe is safe, got %q", rec.Name)
	}
}

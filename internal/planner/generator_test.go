package planner

import (
	"context"
	"errors"
	"testing"

	"mealmind/internal/apperr"
	"mealmind/internal/household"
)

// scriptedTextGen returns its responses in order, one per call.
type scriptedTextGen struct {
	responses []string
	err       error
	calls     int
}

func (s *scriptedTextGen) GenerateContent(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

const safeMealJSON = `{
  "recipeName": "Veggie Stir Fry",
  "recipeDescription": "Quick weeknight stir fry",
  "ingredients": [{"name": "broccoli", "amount": "200", "unit": "g"}],
  "instructions": ["Chop the broccoli.", "Stir fry over high heat.", "Serve hot."],
  "prepTimeMinutes": 10,
  "cookTimeMinutes": 10,
  "servings": 2,
  "cuisine": "Chinese"
}`

const nuttyMealJSON = `{
  "recipeName": "Peanut Noodles",
  "ingredients": [{"name": "peanut butter", "amount": "3", "unit": "tbsp"}],
  "instructions": ["Mix everything."]
}`

func TestGenerateMealParsesDraft(t *testing.T) {
	gen := NewGenerator(&scriptedTextGen{responses: []string{safeMealJSON}}, &scriptedTextGen{})

	meal, err := gen.GenerateMeal(context.Background(), GenRequest{MealType: "dinner"})
	if err != nil {
		t.Fatalf("GenerateMeal failed: %v", err)
	}
	if meal.RecipeName != "Veggie Stir Fry" {
		t.Errorf("Expected Veggie Stir Fry, got %q", meal.RecipeName)
	}
	if meal.MealType != "dinner" {
		t.Errorf("Expected the requested meal type, got %q", meal.MealType)
	}
	if meal.RecipeID != "" {
		t.Error("Expected a generated meal to carry no recipe ID")
	}
}

func TestGenerateMealStripsMarkdownFences(t *testing.T) {
	wrapped := "Here is your recipe:\n```json\n" + safeMealJSON + "\n```"
	gen := NewGenerator(&scriptedTextGen{responses: []string{wrapped}}, &scriptedTextGen{})

	meal, err := gen.GenerateMeal(context.Background(), GenRequest{MealType: "lunch"})
	if err != nil {
		t.Fatalf("GenerateMeal failed on fenced response: %v", err)
	}
	if meal.RecipeName != "Veggie Stir Fry" {
		t.Errorf("Expected the fenced JSON parsed, got %q", meal.RecipeName)
	}
}

func TestGenerateMealRetriesUnsafeDraft(t *testing.T) {
	fresh := &scriptedTextGen{responses: []string{nuttyMealJSON, safeMealJSON}}
	gen := NewGenerator(fresh, &scriptedTextGen{})
	restrictions := []household.DietaryRestriction{{Name: "Nut-Free", Type: "allergy"}}

	meal, err := gen.GenerateMeal(context.Background(), GenRequest{MealType: "dinner", Restrictions: restrictions})
	if err != nil {
		t.Fatalf("Expected the retry to recover, got %v", err)
	}
	if fresh.calls != 2 {
		t.Errorf("Expected exactly 2 attempts, got %d", fresh.calls)
	}
	if meal.RecipeName != "Veggie Stir Fry" {
		t.Errorf("Expected the safe second draft, got %q", meal.RecipeName)
	}
}

func TestGenerateMealFailsAfterSingleRetry(t *testing.T) {
	fresh := &scriptedTextGen{err: errors.New("model unavailable")}
	gen := NewGenerator(fresh, &scriptedTextGen{})

	_, err := gen.GenerateMeal(context.Background(), GenRequest{MealType: "dinner"})
	if err == nil {
		t.Fatal("Expected failure when every attempt errors")
	}
	if apperr.KindOf(err) != apperr.KindExternalService {
		t.Errorf("Expected an external-service error, got %v", err)
	}
	if fresh.calls != 2 {
		t.Errorf("Expected exactly 2 attempts (one retry), got %d", fresh.calls)
	}
}

func TestGenerateMealUsesRegenClient(t *testing.T) {
	fresh := &scriptedTextGen{responses: []string{safeMealJSON}}
	regen := &scriptedTextGen{responses: []string{safeMealJSON}}
	gen := NewGenerator(fresh, regen)

	if _, err := gen.GenerateMeal(context.Background(), GenRequest{MealType: "dinner", Regenerate: true}); err != nil {
		t.Fatalf("GenerateMeal failed: %v", err)
	}
	if regen.calls != 1 || fresh.calls != 0 {
		t.Errorf("Expected the regeneration client to be used, got fresh=%d regen=%d", fresh.calls, regen.calls)
	}
}

func TestGenerateMealRepairsSloppyJSON(t *testing.T) {
	sloppy := `{
  "recipeName": "Lentil Soup",
  "ingredients": [{"name": "lentils", "amount": "300", "unit": "g"},],
  "instructions": ["Simmer the lentils."],
}`
	gen := NewGenerator(&scriptedTextGen{responses: []string{sloppy}}, &scriptedTextGen{})

	meal, err := gen.GenerateMeal(context.Background(), GenRequest{MealType: "dinner"})
	if err != nil {
		t.Fatalf("Expected trailing commas to be repaired, got %v", err)
	}
	if meal.RecipeName != "Lentil Soup" {
		t.Errorf("Expected Lentil Soup, got %q", meal.RecipeName)
	}
}

package planner

import (
	"testing"
	"time"

	"mealmind/internal/recipe"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want PlanStatus
	}{
		{"draft", StatusDraft},
		{"APPROVED", StatusApproved},
		{"completed", StatusCompleted},
		{"finalized", StatusCompleted}, // legacy alias
		{" Finalized ", StatusCompleted},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if err != nil {
			t.Errorf("ParseStatus(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseStatus("archived"); err == nil {
		t.Error("Expected an error for an unknown status")
	}
}

func TestStatusTransitions(t *testing.T) {
	if !StatusDraft.CanTransitionTo(StatusApproved) {
		t.Error("Expected draft -> approved to be allowed")
	}
	if !StatusApproved.CanTransitionTo(StatusCompleted) {
		t.Error("Expected approved -> completed to be allowed")
	}
	if !StatusApproved.CanTransitionTo(StatusApproved) {
		t.Error("Expected re-approving an approved plan to be allowed")
	}
	if StatusDraft.CanTransitionTo(StatusDraft) {
		t.Error("Expected draft -> draft to be rejected")
	}
	if StatusDraft.CanTransitionTo(StatusCompleted) {
		t.Error("Expected draft -> completed to be rejected")
	}
	if StatusCompleted.CanTransitionTo(StatusDraft) {
		t.Error("Expected completed to be terminal")
	}
	if StatusApproved.CanTransitionTo(StatusDraft) {
		t.Error("Expected approved -> draft to be rejected")
	}
}

func TestDayPlanSetMealReplacesSameType(t *testing.T) {
	day := DayPlan{DayName: "Monday"}
	day.SetMeal(PlannedMeal{MealType: "dinner", RecipeName: "Stew"})
	day.SetMeal(PlannedMeal{MealType: "breakfast", RecipeName: "Oats"})
	day.SetMeal(PlannedMeal{MealType: "dinner", RecipeName: "Curry"})

	if len(day.Meals) != 2 {
		t.Fatalf("Expected 2 meals (one per type), got %d", len(day.Meals))
	}
	meal, _ := day.Meal("dinner")
	if meal.RecipeName != "Curry" {
		t.Errorf("Expected dinner to be replaced by Curry, got %q", meal.RecipeName)
	}
}

func TestDayPlanRemoveMeal(t *testing.T) {
	day := DayPlan{Meals: []PlannedMeal{{MealType: "lunch", RecipeName: "Salad"}}}

	meal, ok := day.RemoveMeal("lunch")
	if !ok || meal.RecipeName != "Salad" {
		t.Fatalf("Expected to remove Salad, got %+v (ok=%v)", meal, ok)
	}
	if _, ok := day.RemoveMeal("lunch"); ok {
		t.Error("Expected removing an empty slot to report false")
	}
}

func TestWeekStartOf(t *testing.T) {
	// Thursday 2026-09-03 -> Monday 2026-08-31.
	thursday := time.Date(2026, 9, 3, 15, 30, 0, 0, time.UTC)
	monday := WeekStartOf(thursday)
	if monday.Weekday() != time.Monday {
		t.Errorf("Expected a Monday, got %s", monday.Weekday())
	}
	if monday.Format("2006-01-02") != "2026-08-31" {
		t.Errorf("Expected 2026-08-31, got %s", monday.Format("2006-01-02"))
	}
	if monday.Hour() != 0 || monday.Minute() != 0 {
		t.Error("Expected week start truncated to midnight")
	}

	// A Monday maps to itself.
	if got := WeekStartOf(monday); !got.Equal(monday) {
		t.Errorf("Expected Monday to map to itself, got %s", got)
	}

	// Sunday belongs to the week that started six days earlier.
	sunday := time.Date(2026, 9, 6, 8, 0, 0, 0, time.UTC)
	if got := WeekStartOf(sunday); got.Format("2006-01-02") != "2026-08-31" {
		t.Errorf("Expected Sunday to map to 2026-08-31, got %s", got.Format("2006-01-02"))
	}
}

func TestWeekElapsed(t *testing.T) {
	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if WeekElapsed(weekStart, weekStart.AddDate(0, 0, 6)) {
		t.Error("Expected the week to still be running on its Sunday")
	}
	if !WeekElapsed(weekStart, weekStart.AddDate(0, 0, 7)) {
		t.Error("Expected the week to be over the following Monday")
	}
}

func TestRecipeNames(t *testing.T) {
	plan := MealPlan{Days: []DayPlan{
		{Meals: []PlannedMeal{{MealType: "dinner", RecipeName: "Stew"}}},
		{Meals: []PlannedMeal{{MealType: "dinner", RecipeName: "Curry"}, {MealType: "lunch", RecipeName: "stew"}}},
	}}
	names := plan.RecipeNames()
	if len(names) != 2 {
		t.Fatalf("Expected 2 distinct names (case-insensitive), got %d", len(names))
	}
	if !names["stew"] || !names["curry"] {
		t.Errorf("Expected stew and curry in %v", names)
	}
}

func TestMealFromRecipeDenormalizes(t *testing.T) {
	rec := recipe.Recipe{
		ID:   "rec-1",
		Name: "Fried Rice",
		Ingredients: []recipe.Ingredient{
			{Name: "rice", Amount: "200", Unit: "g"},
		},
		Instructions:    []string{"Cook the rice.", "Fry it."},
		PrepTimeMinutes: 10,
		CookTimeMinutes: 15,
		Cuisine:         "Chinese",
	}
	meal := MealFromRecipe(&rec, "dinner")
	if meal.RecipeID != "rec-1" || meal.RecipeName != "Fried Rice" {
		t.Errorf("Expected recipe identity carried over, got %+v", meal)
	}
	if meal.MealType != "dinner" {
		t.Errorf("Expected meal type dinner, got %q", meal.MealType)
	}
	if len(meal.Ingredients) != 1 || len(meal.Instructions) != 2 {
		t.Error("Expected ingredients and instructions snapshotted onto the meal")
	}
}

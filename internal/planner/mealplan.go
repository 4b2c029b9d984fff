// Package planner owns the weekly meal-plan aggregate: its state machine,
// slot mutations, and the generation orchestration that fills slots from
// saved recipes before falling back to the LLM.
package planner

import (
	"fmt"
	"strings"
	"time"

	"mealmind/internal/recipe"
)

// PlanStatus represents the lifecycle state of a meal plan.
// The only legal transitions are draft → approved → completed.
type PlanStatus string

const (
	StatusDraft     PlanStatus = "draft"
	StatusApproved  PlanStatus = "approved"
	StatusCompleted PlanStatus = "completed"
)

// ParseStatus normalizes a status string. "finalized" survives in older
// clients as a name for the terminal state and is treated as a compat alias
// for completed, not a fourth state.
func ParseStatus(s string) (PlanStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return StatusDraft, nil
	case "approved":
		return StatusApproved, nil
	case "completed", "finalized":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown plan status %q", s)
}

// CanTransitionTo reports whether the ordered lifecycle allows moving from s
// to next. No arbitrary jumps: completed is terminal. Re-approving an approved
// plan is legal so a plan edited after approval can rebuild its shopping list.
func (s PlanStatus) CanTransitionTo(next PlanStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusApproved
	case StatusApproved:
		return next == StatusApproved || next == StatusCompleted
	}
	return false
}

// PlannedMeal is a recipe instance placed into one plan slot. It carries a
// denormalized snapshot of the recipe so the plan renders even if the saved
// recipe changes or disappears; readers that need authoritative ingredients
// resolve RecipeID first and fall back to the snapshot.
type PlannedMeal struct {
	MealType          string              `json:"mealType"`
	RecipeID          string              `json:"recipeId,omitempty"`
	RecipeName        string              `json:"recipeName"`
	RecipeDescription string              `json:"recipeDescription,omitempty"`
	Ingredients       []recipe.Ingredient `json:"ingredients,omitempty"`
	Instructions      []string            `json:"instructions,omitempty"`
	PrepTimeMinutes   int                 `json:"prepTimeMinutes,omitempty"`
	CookTimeMinutes   int                 `json:"cookTimeMinutes,omitempty"`
	Servings          int                 `json:"servings,omitempty"`
	Cuisine           string              `json:"cuisine,omitempty"`
}

// MealFromRecipe converts a saved recipe into the denormalized slot shape.
func MealFromRecipe(rec *recipe.Recipe, mealType string) PlannedMeal {
	return PlannedMeal{
		MealType:          mealType,
		RecipeID:          rec.ID,
		RecipeName:        rec.Name,
		RecipeDescription: rec.Description,
		Ingredients:       rec.Ingredients,
		Instructions:      rec.Instructions,
		PrepTimeMinutes:   rec.PrepTimeMinutes,
		CookTimeMinutes:   rec.CookTimeMinutes,
		Servings:          rec.Servings,
		Cuisine:           rec.Cuisine,
	}
}

// DayPlan is one calendar day of a plan. The meals slice holds at most one
// entry per meal type; use SetMeal/RemoveMeal to keep that invariant.
type DayPlan struct {
	Date    string        `json:"date"` // YYYY-MM-DD
	DayName string        `json:"dayName"`
	Meals   []PlannedMeal `json:"meals"`
}

// Meal returns the meal of the given type and its index, or nil and -1.
func (d *DayPlan) Meal(mealType string) (*PlannedMeal, int) {
	for i := range d.Meals {
		if strings.EqualFold(d.Meals[i].MealType, mealType) {
			return &d.Meals[i], i
		}
	}
	return nil, -1
}

// SetMeal places a meal into the day, replacing an existing meal of the same
// type or appending when the slot is empty.
func (d *DayPlan) SetMeal(meal PlannedMeal) {
	if _, i := d.Meal(meal.MealType); i >= 0 {
		d.Meals[i] = meal
		return
	}
	d.Meals = append(d.Meals, meal)
}

// RemoveMeal removes the meal of the given type, reporting whether one existed.
func (d *DayPlan) RemoveMeal(mealType string) (PlannedMeal, bool) {
	_, i := d.Meal(mealType)
	if i < 0 {
		return PlannedMeal{}, false
	}
	meal := d.Meals[i]
	d.Meals = append(d.Meals[:i], d.Meals[i+1:]...)
	return meal, true
}

// MealPlan is the weekly planning aggregate. Mutations read the whole
// document, compute the new value, and write the whole document back;
// concurrent writers race and the later write wins.
type MealPlan struct {
	ID            string     `json:"id"`
	HouseholdID   string     `json:"householdId"`
	WeekStartDate time.Time  `json:"weekStartDate"`
	Days          []DayPlan  `json:"days"`
	Status        PlanStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// RecipeNames returns the lower-cased set of recipe names already placed in
// the plan, used to keep generation from duplicating meals across the week.
func (p *MealPlan) RecipeNames() map[string]bool {
	names := make(map[string]bool)
	for _, day := range p.Days {
		for _, meal := range day.Meals {
			if meal.RecipeName != "" {
				names[strings.ToLower(meal.RecipeName)] = true
			}
		}
	}
	return names
}

// WeekStartOf returns the Monday of t's week, truncated to midnight.
func WeekStartOf(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// WeekElapsed reports whether the plan's week has fully passed (its Sunday
// 23:59:59 is behind now).
func WeekElapsed(weekStart, now time.Time) bool {
	return !now.Before(weekStart.AddDate(0, 0, 7))
}

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayNameFor returns the weekday name for a zero-based day index into the week.
func DayNameFor(dayIndex int) string {
	return dayNames[dayIndex%7]
}

// Package shopping builds and serves consolidated shopping lists derived
// from approved meal plans.
package shopping

import "time"

// ListStatus is the shopping list lifecycle state. Lists start active and
// become completed either explicitly or lazily once their week has passed.
type ListStatus string

const (
	ListActive    ListStatus = "active"
	ListCompleted ListStatus = "completed"
)

// ShoppingItem is one consolidated line on the list. RecipeNames records
// which meals contributed the ingredient so the shopper knows what breaks if
// they skip it. Items are addressed by ID so a check can't land on the wrong
// line after a rebuild reorders the list.
type ShoppingItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Amount      string   `json:"amount,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Category    string   `json:"category"`
	RecipeNames []string `json:"recipeNames,omitempty"`
	Checked     bool     `json:"checked"`
}

// ShoppingList is the per-plan shopping aggregate. Rebuilding a plan's list
// replaces the previous one wholesale; there is at most one list per plan.
type ShoppingList struct {
	ID            string         `json:"id"`
	MealPlanID    string         `json:"mealPlanId"`
	HouseholdID   string         `json:"householdId"`
	WeekStartDate time.Time      `json:"weekStartDate"`
	Items         []ShoppingItem `json:"items"`
	Status        ListStatus     `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

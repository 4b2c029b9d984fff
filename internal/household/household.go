// Package household holds the tenant-level data consumed read-only by the
// matching pipeline: who is in the household, what they must not eat, and
// what they prefer to eat.
package household

import "strings"

// DietaryRestriction is one household-level constraint. The name is free text
// entered by the household ("Nut-Free", "my daughter has celiac", ...).
type DietaryRestriction struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`     // allergy, intolerance, preference, medical
	Severity string `json:"severity,omitempty"` // mild, moderate, severe
}

// RestrictionCategory is the enforceable category a free-text restriction
// resolves to. CategoryCustom means no trigger phrase matched: the restriction
// cannot be enforced automatically and is advisory-only.
type RestrictionCategory string

const (
	CategoryGluten     RestrictionCategory = "gluten"
	CategoryDairy      RestrictionCategory = "dairy"
	CategoryVegetarian RestrictionCategory = "vegetarian"
	CategoryVegan      RestrictionCategory = "vegan"
	CategoryNut        RestrictionCategory = "nut"
	CategoryShellfish  RestrictionCategory = "shellfish"
	CategoryRedMeat    RestrictionCategory = "red-meat"
	CategoryEgg        RestrictionCategory = "egg"
	CategorySoy        RestrictionCategory = "soy"
	CategoryDiabetic   RestrictionCategory = "diabetic-friendly"
	CategoryLowSodium  RestrictionCategory = "low-sodium"
	CategoryPCOS       RestrictionCategory = "pcos-friendly"
	CategoryCustom     RestrictionCategory = "custom"
)

// categoryTriggers maps each enforceable category to the phrases that
// activate it. Matching is substring containment on the lower-cased
// restriction name, not an enumerated type: "my son has celiac disease"
// activates the gluten category.
var categoryTriggers = []struct {
	category RestrictionCategory
	phrases  []string
}{
	{CategoryGluten, []string{"gluten", "celiac", "coeliac", "wheat"}},
	{CategoryDairy, []string{"dairy", "lactose", "milk"}},
	{CategoryVegetarian, []string{"vegetarian"}},
	{CategoryVegan, []string{"vegan"}},
	{CategoryShellfish, []string{"shellfish", "crustacean"}},
	{CategoryRedMeat, []string{"red meat", "red-meat"}},
	{CategoryEgg, []string{"egg"}},
	{CategorySoy, []string{"soy"}},
	// "nut" last among allergens so "coconut"-style names don't shadow
	// more specific triggers above.
	{CategoryNut, []string{"nut", "peanut"}},
	{CategoryDiabetic, []string{"diabet", "blood sugar", "glycemic"}},
	{CategoryLowSodium, []string{"sodium", "salt", "blood pressure", "hypertension"}},
	{CategoryPCOS, []string{"pcos"}},
}

// Category resolves the restriction's free-text name to an enforceable
// category, or CategoryCustom when no trigger phrase matches.
func (r DietaryRestriction) Category() RestrictionCategory {
	name := strings.ToLower(r.Name)
	for _, t := range categoryTriggers {
		for _, phrase := range t.phrases {
			if strings.Contains(name, phrase) {
				return t.category
			}
		}
	}
	return CategoryCustom
}

// Enforceable reports whether the restriction resolved to a known category.
// Custom restrictions are surfaced to the user but never enforced.
func (r DietaryRestriction) Enforceable() bool {
	return r.Category() != CategoryCustom
}

// CookingTime is the household's cooking-time bucket.
type CookingTime string

const (
	CookingTimeQuick    CookingTime = "quick"    // total time <= 30 min
	CookingTimeModerate CookingTime = "moderate" // total time <= 60 min
	CookingTimeExtended CookingTime = "extended" // unrestricted
	CookingTimeAny      CookingTime = "any"
)

// BudgetMinutes returns the total-time budget for the bucket. limited is
// false for the unrestricted buckets.
func (c CookingTime) BudgetMinutes() (minutes int, limited bool) {
	switch c {
	case CookingTimeQuick:
		return 30, true
	case CookingTimeModerate:
		return 60, true
	default:
		return 0, false
	}
}

// UserPreferences are the household's soft preferences, consumed read-only by
// the preference scorer.
type UserPreferences struct {
	FavoriteIngredients []string    `json:"favoriteIngredients,omitempty"`
	DislikedIngredients []string    `json:"dislikedIngredients,omitempty"`
	CuisinePreferences  []string    `json:"cuisinePreferences,omitempty"`
	CookingTime         CookingTime `json:"cookingTime,omitempty"`
}

// Member is one person in the household.
type Member struct {
	Name                string               `json:"name"`
	DietaryRestrictions []DietaryRestriction `json:"dietaryRestrictions,omitempty"`
}

// Household is the tenant aggregate.
type Household struct {
	ID          string          `json:"id"`
	Members     []Member        `json:"members,omitempty"`
	Preferences UserPreferences `json:"preferences"`
}

// Restrictions returns the union of all members' restrictions, deduplicated
// by lower-cased name.
func (h *Household) Restrictions() []DietaryRestriction {
	seen := make(map[string]struct{})
	var out []DietaryRestriction
	for _, m := range h.Members {
		for _, r := range m.DietaryRestrictions {
			key := strings.ToLower(strings.TrimSpace(r.Name))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

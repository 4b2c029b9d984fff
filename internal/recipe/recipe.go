// Package recipe defines the recipe model, its persistence, and the pure
// matching components that decide what a household can cook: the dietary
// safety filter and the preference-scoring pipeline.
package recipe

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is an ingredient quantity. Recipes written by people and LLMs mix
// numbers ("2", 1.5) and free text ("a pinch"), so the type accepts both and
// exposes the numeric value when one can be parsed.
type Amount string

// UnmarshalJSON accepts a JSON number or string.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// Float returns the parsed numeric value, if the amount is numeric.
func (a Amount) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(a)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (a Amount) String() string { return string(a) }

// Ingredient is a named quantity embedded in a recipe.
type Ingredient struct {
	Name     string `json:"name"`
	Amount   Amount `json:"amount,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Category string `json:"category,omitempty"`
}

// Recipe is a reusable dish definition owned by a household.
type Recipe struct {
	ID              string       `json:"id,omitempty"`
	HouseholdID     string       `json:"householdId,omitempty"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
	PrepTimeMinutes int          `json:"prepTimeMinutes,omitempty"`
	CookTimeMinutes int          `json:"cookTimeMinutes,omitempty"`
	Servings        int          `json:"servings,omitempty"`
	Cuisine         string       `json:"cuisine,omitempty"`
	Difficulty      string       `json:"difficulty,omitempty"`
	Tags            []string     `json:"tags,omitempty"`
	MealTypes       []string     `json:"mealTypes,omitempty"`
	SourceURL       string       `json:"sourceUrl,omitempty"`
}

// TotalTimeMinutes is prep plus cook time.
func (r *Recipe) TotalTimeMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

// SearchableText is the lower-cased concatenation of the recipe name,
// ingredient names, and tags. This is the text the safety filter and the
// matcher scan for keywords.
func (r *Recipe) SearchableText() string {
	parts := make([]string, 0, len(r.Ingredients)+len(r.Tags)+1)
	parts = append(parts, r.Name)
	for _, ing := range r.Ingredients {
		parts = append(parts, ing.Name)
	}
	parts = append(parts, r.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// FitsMealType reports whether the recipe is suitable for the given meal
// type. Recipes without declared meal types fit any slot.
func (r *Recipe) FitsMealType(mealType string) bool {
	if len(r.MealTypes) == 0 {
		return true
	}
	for _, mt := range r.MealTypes {
		if strings.EqualFold(mt, mealType) {
			return true
		}
	}
	return false
}

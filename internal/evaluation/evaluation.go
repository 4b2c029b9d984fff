// Package evaluation scores recipes and meal plans on deterministic quality
// heuristics and gates them against fixed thresholds. No model calls: the
// same input always produces the same scores.
package evaluation

import (
	"fmt"
	"strings"

	"mealmind/internal/household"
	"mealmind/internal/planner"
	"mealmind/internal/recipe"
)

// Metric weights. Compliance dominates: a plan that feeds someone their
// allergen is worthless no matter how varied it is.
var (
	recipeWeights = map[string]float64{
		"compliance": 0.35, "preferenceAlignment": 0.25, "clarity": 0.20, "accuracy": 0.20,
	}
	planWeights = map[string]float64{
		"compliance": 0.30, "preferenceAlignment": 0.20, "variety": 0.20, "clarity": 0.15, "accuracy": 0.15,
	}
)

// Gate thresholds. Compliance admits no partial credit.
const (
	thresholdCompliance = 1.0
	thresholdPreference = 0.7
	thresholdVariety    = 0.6
	thresholdOverall    = 0.7
)

// Scores holds the per-metric results, each in [0, 1]. Variety looks across a
// plan's week; a single recipe reports 1.0 and the metric carries no weight
// in its overall.
type Scores struct {
	Compliance          float64 `json:"compliance"`
	PreferenceAlignment float64 `json:"preferenceAlignment"`
	Variety             float64 `json:"variety,omitempty"`
	Clarity             float64 `json:"clarity"`
	Accuracy            float64 `json:"accuracy"`
	Overall             float64 `json:"overall"`
}

// ThresholdViolation names a metric that fell below its gate threshold.
type ThresholdViolation struct {
	Metric   string  `json:"metric"`
	Actual   float64 `json:"actual"`
	Required float64 `json:"required"`
}

// Result is one evaluation outcome: scores, the pass/fail verdict, the
// threshold misses behind a fail, and any dietary violations found.
type Result struct {
	Scores           Scores               `json:"scores"`
	Passed           bool                 `json:"passed"`
	Violations       []ThresholdViolation `json:"violations,omitempty"`
	SafetyViolations []recipe.Violation   `json:"safetyViolations,omitempty"`
}

// Feedback converts the failing metrics into the shape the generator feeds
// back into its next attempt.
func (r *Result) Feedback() planner.Feedback {
	if r.Passed {
		return nil
	}
	fb := make(planner.Feedback, len(r.Violations))
	for _, v := range r.Violations {
		reason := fmt.Sprintf("scored %.2f, needs %.2f", v.Actual, v.Required)
		if v.Metric == "compliance" && len(r.SafetyViolations) > 0 {
			sv := r.SafetyViolations[0]
			reason = fmt.Sprintf("violates %q via %q", sv.Restriction, sv.MatchedKeyword)
		}
		fb[v.Metric] = planner.MetricFeedback{Score: v.Actual, Reason: reason}
	}
	return fb
}

// EvaluateRecipe scores a single recipe and gates it on compliance,
// preference alignment, and the weighted overall.
func EvaluateRecipe(rec *recipe.Recipe, restrictions []household.DietaryRestriction, prefs household.UserPreferences) *Result {
	safety := recipe.CheckRestrictions(rec, restrictions)

	s := Scores{
		PreferenceAlignment: preferenceScore(rec.Ingredients, rec.Cuisine, rec.TotalTimeMinutes(), prefs),
		Variety:             1.0, // a single recipe is trivially varied; not gated or weighted
		Clarity:             clarityScore(rec.Instructions),
		Accuracy:            accuracyScore(rec.Ingredients),
	}
	if len(safety) == 0 {
		s.Compliance = 1.0
	}
	s.Overall = weightedOverall(s, recipeWeights)

	violations := gate(s, false)
	return &Result{
		Scores:           s,
		Passed:           len(violations) == 0,
		Violations:       violations,
		SafetyViolations: safety,
	}
}

// EvaluatePlan scores a whole plan. Compliance, preference, clarity, and
// accuracy average over the plan's meals; variety looks across the week.
func EvaluatePlan(plan *planner.MealPlan, restrictions []household.DietaryRestriction, prefs household.UserPreferences) *Result {
	var meals []*planner.PlannedMeal
	for i := range plan.Days {
		for j := range plan.Days[i].Meals {
			meals = append(meals, &plan.Days[i].Meals[j])
		}
	}
	if len(meals) == 0 {
		s := Scores{}
		violations := gate(s, true)
		return &Result{Scores: s, Passed: false, Violations: violations}
	}

	var safety []recipe.Violation
	compliant := 0
	var prefSum, claritySum, accuracySum float64
	for _, meal := range meals {
		probe := recipe.Recipe{Name: meal.RecipeName, Ingredients: meal.Ingredients, Instructions: meal.Instructions}
		mealViolations := recipe.CheckRestrictions(&probe, restrictions)
		if len(mealViolations) == 0 {
			compliant++
		}
		safety = append(safety, mealViolations...)

		prefSum += preferenceScore(meal.Ingredients, meal.Cuisine, meal.PrepTimeMinutes+meal.CookTimeMinutes, prefs)
		claritySum += clarityScore(meal.Instructions)
		accuracySum += accuracyScore(meal.Ingredients)
	}

	n := float64(len(meals))
	s := Scores{
		Compliance:          float64(compliant) / n,
		PreferenceAlignment: prefSum / n,
		Variety:             varietyScore(meals),
		Clarity:             claritySum / n,
		Accuracy:            accuracySum / n,
	}
	s.Overall = weightedOverall(s, planWeights)

	violations := gate(s, true)
	return &Result{
		Scores:           s,
		Passed:           len(violations) == 0,
		Violations:       violations,
		SafetyViolations: safety,
	}
}

func weightedOverall(s Scores, weights map[string]float64) float64 {
	byName := map[string]float64{
		"compliance":          s.Compliance,
		"preferenceAlignment": s.PreferenceAlignment,
		"variety":             s.Variety,
		"clarity":             s.Clarity,
		"accuracy":            s.Accuracy,
	}
	total := 0.0
	for metric, w := range weights {
		total += byName[metric] * w
	}
	return total
}

func gate(s Scores, isPlan bool) []ThresholdViolation {
	var violations []ThresholdViolation
	check := func(metric string, actual, required float64) {
		if actual < required {
			violations = append(violations, ThresholdViolation{Metric: metric, Actual: actual, Required: required})
		}
	}
	check("compliance", s.Compliance, thresholdCompliance)
	check("preferenceAlignment", s.PreferenceAlignment, thresholdPreference)
	if isPlan {
		check("variety", s.Variety, thresholdVariety)
	}
	check("overall", s.Overall, thresholdOverall)
	return violations
}

// preferenceScore starts neutral at 0.5 and nudges up or down: favorites add
// 0.1 each (capped at +0.3), each disliked ingredient costs 0.2, a preferred
// cuisine adds 0.1, and the cooking-time budget adds or removes 0.1.
func preferenceScore(ingredients []recipe.Ingredient, cuisine string, totalMinutes int, prefs household.UserPreferences) float64 {
	score := 0.5

	favoriteBonus := 0.0
	for _, fav := range prefs.FavoriteIngredients {
		if ingredientsContain(ingredients, fav) {
			favoriteBonus += 0.1
		}
	}
	if favoriteBonus > 0.3 {
		favoriteBonus = 0.3
	}
	score += favoriteBonus

	for _, dis := range prefs.DislikedIngredients {
		if ingredientsContain(ingredients, dis) {
			score -= 0.2
		}
	}

	for _, pref := range prefs.CuisinePreferences {
		if cuisine != "" && strings.EqualFold(cuisine, pref) {
			score += 0.1
			break
		}
	}

	if budget, limited := prefs.CookingTime.BudgetMinutes(); limited {
		if totalMinutes > 0 && totalMinutes <= budget {
			score += 0.1
		} else if totalMinutes > budget {
			score -= 0.1
		}
	}

	return clamp01(score)
}

// varietyScore rewards a week that doesn't repeat itself: cuisine spread
// (four distinct cuisines saturate), distinct meal names, and ingredient
// breadth (twenty distinct ingredients saturate).
func varietyScore(meals []*planner.PlannedMeal) float64 {
	cuisines := make(map[string]struct{})
	names := make(map[string]struct{})
	ingredients := make(map[string]struct{})
	for _, meal := range meals {
		if c := strings.ToLower(strings.TrimSpace(meal.Cuisine)); c != "" {
			cuisines[c] = struct{}{}
		}
		names[strings.ToLower(meal.RecipeName)] = struct{}{}
		for _, ing := range meal.Ingredients {
			ingredients[strings.ToLower(strings.TrimSpace(ing.Name))] = struct{}{}
		}
	}

	cuisineSpread := capRatio(float64(len(cuisines)) / 4)
	nameSpread := float64(len(names)) / float64(len(meals))
	ingredientSpread := capRatio(float64(len(ingredients)) / 20)

	return 0.3*cuisineSpread + 0.4*nameSpread + 0.3*ingredientSpread
}

var actionVerbs = []string{
	"preheat", "heat", "add", "mix", "stir", "combine", "cook", "bake",
	"boil", "chop", "slice", "dice", "season", "place", "pour", "whisk",
	"saute", "sauté", "grill", "simmer", "serve", "remove", "drain", "toss",
	"spread", "melt", "fry", "roast", "marinate", "cut", "wash", "peel",
	"bring", "set", "cover", "reduce", "blend", "mash", "garnish",
	"sprinkle", "transfer", "prepare", "rinse", "fold", "knead", "rest",
}

// clarityScore checks that instructions exist, are numerous enough to
// follow, sit in a readable length band, and read like directions.
func clarityScore(instructions []string) float64 {
	if len(instructions) == 0 {
		return 0
	}
	if len(instructions) < 3 {
		return 0.5
	}

	totalLen := 0
	anyActionStart := false
	for _, step := range instructions {
		totalLen += len(step)
		first := strings.ToLower(strings.TrimSpace(step))
		for _, verb := range actionVerbs {
			if strings.HasPrefix(first, verb) {
				anyActionStart = true
				break
			}
		}
	}

	avg := float64(totalLen) / float64(len(instructions))
	score := 0.7
	if avg >= 20 && avg <= 200 {
		score = 1.0
	}
	if !anyActionStart {
		score *= 0.8
	}
	return score
}

// accuracyScore checks each ingredient on two counts: a parseable positive
// numeric amount ("to taste" fails) and a plausible name. The score is the
// fraction of checks passed.
func accuracyScore(ingredients []recipe.Ingredient) float64 {
	if len(ingredients) == 0 {
		return 0
	}

	passed := 0
	total := len(ingredients) * 2
	for _, ing := range ingredients {
		if v, ok := ing.Amount.Float(); ok && v > 0 {
			passed++
		}
		name := strings.TrimSpace(ing.Name)
		if len(name) >= 2 && len(name) <= 60 {
			passed++
		}
	}
	return float64(passed) / float64(total)
}

func ingredientsContain(ingredients []recipe.Ingredient, term string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return false
	}
	for _, ing := range ingredients {
		if strings.Contains(strings.ToLower(ing.Name), t) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func capRatio(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

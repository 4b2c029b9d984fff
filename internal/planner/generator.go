package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mealmind/internal/apperr"
	"mealmind/internal/household"
	"mealmind/internal/llm"
	"mealmind/internal/recipe"
)

// restrictionGuidance spells out what each enforceable category means so the
// model doesn't have to guess what "no gluten" implies about soy sauce.
var restrictionGuidance = map[household.RestrictionCategory]string{
	household.CategoryGluten:     "ABSOLUTELY NO gluten: no wheat, flour, bread, pasta, barley, rye, soy sauce (use tamari), beer, or malt",
	household.CategoryDairy:      "ABSOLUTELY NO dairy: no milk, cheese, butter, cream, yogurt, whey, or ghee",
	household.CategoryNut:        "ABSOLUTELY NO nuts: no almonds, walnuts, cashews, peanuts, nut butters, or nut oils",
	household.CategoryEgg:        "ABSOLUTELY NO eggs: no eggs, mayonnaise, aioli, meringue, or custard",
	household.CategoryShellfish:  "ABSOLUTELY NO shellfish: no shrimp, crab, lobster, clams, mussels, oysters, or scallops",
	household.CategorySoy:        "ABSOLUTELY NO soy: no tofu, tempeh, edamame, miso, soy sauce, or tamari",
	household.CategoryVegetarian: "STRICTLY VEGETARIAN: no meat, poultry, fish, or gelatin",
	household.CategoryVegan:      "STRICTLY VEGAN: no meat, poultry, fish, dairy, eggs, honey, or gelatin",
	household.CategoryRedMeat:    "NO red meat: no beef, pork, lamb, or veal; poultry and fish are fine",
	household.CategoryDiabetic:   "Diabetic-friendly: low glycemic load, no added sugar, favor whole grains and vegetables",
	household.CategoryLowSodium:  "Low sodium: no cured, pickled, or heavily processed ingredients; season with herbs instead of salt",
	household.CategoryPCOS:       "PCOS-friendly: low glycemic load, anti-inflammatory, favor lean protein and vegetables",
}

// Feedback carries per-metric scores from a previous quality evaluation back
// into the next generation attempt, so the model knows what to improve.
type Feedback map[string]MetricFeedback

// MetricFeedback is one metric's score and the reason it fell short.
type MetricFeedback struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// GenRequest describes one meal slot to generate.
type GenRequest struct {
	MealType     string
	DayName      string
	AvoidNames   []string
	Restrictions []household.DietaryRestriction
	Prefs        household.UserPreferences
	Feedback     Feedback
	Regenerate   bool // regeneration uses the higher-temperature client for variety
}

// Generator produces single meals via the LLM. It holds two text generators:
// a conservative one for first-time generation and a higher-temperature one
// for regeneration, where the user has already rejected the obvious answer.
type Generator struct {
	fresh   llm.TextGenerator
	regen   llm.TextGenerator
	timeout time.Duration
}

// NewGenerator creates a Generator. Pass the same client twice if the
// provider doesn't support per-call temperatures.
func NewGenerator(fresh, regen llm.TextGenerator) *Generator {
	return &Generator{fresh: fresh, regen: regen, timeout: 45 * time.Second}
}

// mealDraft is the JSON shape the prompt asks for.
type mealDraft struct {
	RecipeName        string              `json:"recipeName"`
	RecipeDescription string              `json:"recipeDescription"`
	Ingredients       []recipe.Ingredient `json:"ingredients"`
	Instructions      []string            `json:"instructions"`
	PrepTimeMinutes   int                 `json:"prepTimeMinutes"`
	CookTimeMinutes   int                 `json:"cookTimeMinutes"`
	Servings          int                 `json:"servings"`
	Cuisine           string              `json:"cuisine"`
}

// GenerateMeal asks the LLM for one meal and validates the draft before
// returning it. The call is bounded by the generator's timeout and retried at
// most once; a draft that violates the household's restrictions counts as a
// failed attempt. Generated meals carry no RecipeID.
func (g *Generator) GenerateMeal(ctx context.Context, req GenRequest) (*PlannedMeal, error) {
	textGen := g.fresh
	if req.Regenerate {
		textGen = g.regen
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := g.buildPrompt(req, false)
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt == 1 {
			prompt = g.buildPrompt(req, true)
		}

		meal, err := g.generateOnce(ctx, textGen, prompt, req.MealType)
		if err != nil {
			lastErr = err
			continue
		}

		if violations := draftViolations(meal, req.Restrictions); len(violations) > 0 {
			lastErr = fmt.Errorf("generated meal %q violates restriction %q (%s)",
				meal.RecipeName, violations[0].Restriction, violations[0].MatchedKeyword)
			continue
		}
		return meal, nil
	}
	return nil, apperr.External(lastErr, "meal generation failed")
}

func (g *Generator) generateOnce(ctx context.Context, textGen llm.TextGenerator, prompt, mealType string) (*PlannedMeal, error) {
	resp, err := textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai generation failed: %w", err)
	}

	raw, err := llm.ExtractJSON(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to locate JSON in AI response: %w", err)
	}

	var draft mealDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	if draft.RecipeName == "" || len(draft.Ingredients) == 0 {
		return nil, fmt.Errorf("generated meal is incomplete (name or ingredients missing)")
	}

	return &PlannedMeal{
		MealType:          mealType,
		RecipeName:        draft.RecipeName,
		RecipeDescription: draft.RecipeDescription,
		Ingredients:       draft.Ingredients,
		Instructions:      draft.Instructions,
		PrepTimeMinutes:   draft.PrepTimeMinutes,
		CookTimeMinutes:   draft.CookTimeMinutes,
		Servings:          draft.Servings,
		Cuisine:           draft.Cuisine,
	}, nil
}

// draftViolations runs the same safety filter over a draft that applies to
// saved recipes. Model output is untrusted.
func draftViolations(meal *PlannedMeal, restrictions []household.DietaryRestriction) []recipe.Violation {
	probe := recipe.Recipe{
		Name:         meal.RecipeName,
		Ingredients:  meal.Ingredients,
		Instructions: meal.Instructions,
	}
	return recipe.CheckRestrictions(&probe, restrictions)
}

func (g *Generator) buildPrompt(req GenRequest, strict bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a meal planning expert. Create ONE %s recipe", req.MealType)
	if req.DayName != "" {
		fmt.Fprintf(&b, " for %s", req.DayName)
	}
	b.WriteString(".\n\n")

	if len(req.Restrictions) > 0 {
		b.WriteString("DIETARY RESTRICTIONS (non-negotiable, every ingredient must comply):\n")
		for _, r := range req.Restrictions {
			guidance, ok := restrictionGuidance[r.Category()]
			if !ok {
				guidance = "Respect this restriction: " + r.Name
			}
			fmt.Fprintf(&b, "- %s: %s\n", r.Name, guidance)
		}
		b.WriteString("\n")
	}
	if strict {
		b.WriteString("Your previous suggestion violated a dietary restriction. Double-check EVERY ingredient, including sauces, condiments, and garnishes.\n\n")
	}

	if len(req.Prefs.FavoriteIngredients) > 0 {
		fmt.Fprintf(&b, "Favorite ingredients (use where sensible): %s\n", strings.Join(req.Prefs.FavoriteIngredients, ", "))
	}
	if len(req.Prefs.DislikedIngredients) > 0 {
		fmt.Fprintf(&b, "Disliked ingredients (avoid): %s\n", strings.Join(req.Prefs.DislikedIngredients, ", "))
	}
	if len(req.Prefs.CuisinePreferences) > 0 {
		fmt.Fprintf(&b, "Preferred cuisines: %s\n", strings.Join(req.Prefs.CuisinePreferences, ", "))
	}
	if budget, limited := req.Prefs.CookingTime.BudgetMinutes(); limited {
		fmt.Fprintf(&b, "Total prep + cook time must stay under %d minutes.\n", budget)
	}
	if len(req.AvoidNames) > 0 {
		fmt.Fprintf(&b, "Do NOT suggest any of these (already planned this week): %s\n", strings.Join(req.AvoidNames, ", "))
	}

	if len(req.Feedback) > 0 {
		b.WriteString("\nA previous plan scored poorly on quality evaluation. Improve on:\n")
		for metric, fb := range req.Feedback {
			fmt.Fprintf(&b, "- %s scored %.2f: %s\n", metric, fb.Score, fb.Reason)
		}
	}

	b.WriteString(`
Return ONLY valid JSON (no markdown, no explanation) with this structure:
{
  "recipeName": "Recipe Name",
  "recipeDescription": "Brief 1-2 sentence description",
  "ingredients": [
    {"name": "chicken breast", "amount": "500", "unit": "g", "category": "meat & seafood"}
  ],
  "instructions": ["Step 1", "Step 2"],
  "prepTimeMinutes": 15,
  "cookTimeMinutes": 30,
  "servings": 4,
  "cuisine": "Italian"
}
Every instruction step should start with an action verb and be specific enough to follow.
`)
	return b.String()
}

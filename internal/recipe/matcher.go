package recipe

import (
	"regexp"
	"sort"
	"strings"

	"mealmind/internal/household"
)

// Candidate is a ranked pipeline result.
type Candidate struct {
	Recipe Recipe  `json:"recipe"`
	Score  float64 `json:"score"`
}

// Scoring weights. Explicit query-ingredient hits dominate generic keyword
// overlap so "something with chicken" ranks chicken dishes above dishes that
// merely mention the rest of the query.
const (
	scoreIngredientHit = 10 // explicit keyword found in the ingredient list
	scoreTextHit       = 5  // explicit keyword found in name/description/tags
	scoreQueryOverlap  = 2  // generic query token found in recipe text
	scoreFavoriteHit   = 3  // favorite ingredient match (non-explicit queries)
	scoreCuisineHit    = 1  // cuisine preference match
)

var ingredientMentionRe = regexp.MustCompile(`(?:with|using|containing|made (?:from|with|of))\s+([a-z][a-z ,\-]*)`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "some": {}, "something": {}, "please": {},
	"can": {}, "could": {}, "want": {}, "like": {}, "make": {}, "have": {},
	"what": {}, "tonight": {}, "today": {}, "this": {}, "that": {}, "you": {},
	"recipe": {}, "recipes": {}, "ideas": {}, "idea": {}, "quick": {},
	"easy": {}, "good": {}, "nice": {},
}

var mealWords = []string{
	"dinner", "lunch", "breakfast", "meal", "hungry", "eat", "food",
	"cook", "snack", "supper", "dish",
}

// ExtractIngredientKeywords pulls explicit ingredient mentions from phrases
// like "with X", "using X", "containing X", "made from X". Finding any makes
// the request ingredient-specific. This is light pattern matching, not NLU.
func ExtractIngredientKeywords(query string) []string {
	q := strings.ToLower(query)
	var keywords []string
	seen := make(map[string]struct{})

	for _, m := range ingredientMentionRe.FindAllStringSubmatch(q, -1) {
		for _, word := range strings.FieldsFunc(m[1], func(r rune) bool {
			return r == ' ' || r == ','
		}) {
			word = strings.Trim(word, "-")
			if len(word) < 3 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// queryTokens splits the query into generic scoring tokens.
func queryTokens(query string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?\"'")
		if len(word) < 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func isMealRelated(query string) bool {
	q := strings.ToLower(query)
	for _, w := range mealWords {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

// ingredientListContains reports whether any ingredient name contains the term.
func ingredientListContains(r *Recipe, term string) bool {
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), term) {
			return true
		}
	}
	return false
}

// matchesFavorite matches both ways: the favorite as a substring of the
// ingredient name, or the ingredient name as a substring of the favorite.
func matchesFavorite(r *Recipe, favorite string) bool {
	fav := strings.ToLower(strings.TrimSpace(favorite))
	if fav == "" {
		return false
	}
	for _, ing := range r.Ingredients {
		name := strings.ToLower(ing.Name)
		if strings.Contains(name, fav) || strings.Contains(fav, name) {
			return true
		}
	}
	return false
}

func containsDisliked(r *Recipe, disliked []string) bool {
	for _, d := range disliked {
		term := strings.ToLower(strings.TrimSpace(d))
		if term == "" {
			continue
		}
		if ingredientListContains(r, term) {
			return true
		}
	}
	return false
}

// matchText is the text block explicit keywords and generic tokens are
// scored against outside the ingredient list.
func matchText(r *Recipe) string {
	return strings.ToLower(r.Name + " " + r.Description + " " + strings.Join(r.Tags, " "))
}

// MatchQuery answers "what can I make": it runs the full matching pipeline
// over a household's saved recipes and returns up to 3 ranked candidates. An
// empty result signals the caller to fall back to generation.
//
// Hard stages (safety, explicit-ingredient) always apply, even if they empty
// the candidate set. Soft stages (time budget, dislikes, favorites) are
// skipped entirely when applying them would leave nothing.
func MatchQuery(query string, recipes []Recipe, restrictions []household.DietaryRestriction, prefs household.UserPreferences) []Candidate {
	keywords := ExtractIngredientKeywords(query)

	// Safety filter: hard, unconditional, before any ranking.
	var candidates []Recipe
	for _, r := range recipes {
		if IsSafe(&r, restrictions) {
			candidates = append(candidates, r)
		}
	}

	// Explicit-ingredient filter: hard when the query named ingredients. A
	// specific request must not be silently substituted, so an empty result
	// here is final.
	if len(keywords) > 0 {
		var kept []Recipe
		for _, r := range candidates {
			for _, kw := range keywords {
				if ingredientListContains(&r, kw) || strings.Contains(matchText(&r), kw) {
					kept = append(kept, r)
					break
				}
			}
		}
		if len(kept) == 0 {
			return nil
		}
		candidates = kept
	}

	// Time-budget filter: soft.
	if budget, limited := prefs.CookingTime.BudgetMinutes(); limited {
		var kept []Recipe
		for _, r := range candidates {
			if r.TotalTimeMinutes() <= budget {
				kept = append(kept, r)
			}
		}
		if len(kept) > 0 {
			candidates = kept
		}
	}

	// Disliked-ingredient filter: soft.
	if len(prefs.DislikedIngredients) > 0 {
		var kept []Recipe
		for _, r := range candidates {
			if !containsDisliked(&r, prefs.DislikedIngredients) {
				kept = append(kept, r)
			}
		}
		if len(kept) > 0 {
			candidates = kept
		}
	}

	// Favorite-ingredient filter: soft narrowing. If any candidate contains
	// a favorite, keep only those; otherwise keep the full set.
	if len(prefs.FavoriteIngredients) > 0 {
		var kept []Recipe
		for _, r := range candidates {
			for _, fav := range prefs.FavoriteIngredients {
				if matchesFavorite(&r, fav) {
					kept = append(kept, r)
					break
				}
			}
		}
		if len(kept) > 0 {
			candidates = kept
		}
	}

	scored := scoreCandidates(query, keywords, candidates, prefs)

	var top []Candidate
	for _, c := range scored {
		if c.Score > 0 {
			top = append(top, c)
		}
		if len(top) == 3 {
			break
		}
	}
	if len(top) > 0 {
		return top
	}

	// Generic fallback: a vague but meal-related request still yields
	// something rather than an empty result.
	if isMealRelated(query) && len(scored) > 0 {
		if len(scored) > 3 {
			scored = scored[:3]
		}
		return scored
	}
	return nil
}

// scoreCandidates computes the weighted score per recipe and sorts
// descending. The sort is stable: ties keep original collection order so
// results stay reproducible for a fixed input.
func scoreCandidates(query string, keywords []string, candidates []Recipe, prefs household.UserPreferences) []Candidate {
	tokens := queryTokens(query)
	explicit := len(keywords) > 0

	scored := make([]Candidate, 0, len(candidates))
	for _, r := range candidates {
		score := 0.0
		text := matchText(&r)

		for _, kw := range keywords {
			if ingredientListContains(&r, kw) {
				score += scoreIngredientHit
			} else if strings.Contains(text, kw) {
				score += scoreTextHit
			}
		}

		searchable := r.SearchableText() + " " + text
		for _, tok := range tokens {
			if strings.Contains(searchable, tok) {
				score += scoreQueryOverlap
			}
		}

		// Favorite bonus is skipped for explicit-ingredient requests: the
		// user asked for something specific, not their usual favorites.
		if !explicit {
			for _, fav := range prefs.FavoriteIngredients {
				if matchesFavorite(&r, fav) {
					score += scoreFavoriteHit
					break
				}
			}
		}

		for _, cuisine := range prefs.CuisinePreferences {
			if r.Cuisine != "" && strings.EqualFold(r.Cuisine, cuisine) {
				score += scoreCuisineHit
				break
			}
		}

		scored = append(scored, Candidate{Recipe: r, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// FillSlot picks the best saved recipe for a plan slot, or nil to signal
// fallback to generation. Unlike MatchQuery there is no query to score
// against: safety, meal-type fit, time budget, and dislikes filter the set,
// preferences order it, and names already used in the plan are excluded so a
// week doesn't repeat itself.
func FillSlot(recipes []Recipe, restrictions []household.DietaryRestriction, prefs household.UserPreferences, mealType string, excludeNames map[string]bool) *Recipe {
	var candidates []Recipe
	for _, r := range recipes {
		if excludeNames[strings.ToLower(r.Name)] {
			continue
		}
		if !r.FitsMealType(mealType) {
			continue
		}
		if !IsSafe(&r, restrictions) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil
	}

	if budget, limited := prefs.CookingTime.BudgetMinutes(); limited {
		var kept []Recipe
		for _, r := range candidates {
			if r.TotalTimeMinutes() <= budget {
				kept = append(kept, r)
			}
		}
		if len(kept) > 0 {
			candidates = kept
		}
	}

	if len(prefs.DislikedIngredients) > 0 {
		var kept []Recipe
		for _, r := range candidates {
			if !containsDisliked(&r, prefs.DislikedIngredients) {
				kept = append(kept, r)
			}
		}
		if len(kept) > 0 {
			candidates = kept
		}
	}

	scored := scoreCandidates("", nil, candidates, prefs)
	best := scored[0].Recipe
	return &best
}

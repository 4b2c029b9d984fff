package recipe

import (
	"strings"

	"mealmind/internal/household"
)

// categoryKeywords maps each enforceable restriction category to the
// ingredient keywords that violate it, including hidden sources ("whey" for
// dairy, "seitan" for gluten). A single keyword hit anywhere in a recipe's
// searchable text makes the recipe inadmissible: the filter is zero-tolerance
// and runs before any ranking.
var categoryKeywords = map[household.RestrictionCategory][]string{
	household.CategoryGluten: {
		"wheat", "flour", "bread", "pasta", "barley", "rye", "couscous",
		"soy sauce", "beer", "malt", "seitan", "bulgur", "semolina", "orzo",
		"breadcrumbs", "croutons", "tortilla", "noodles", "cake", "cookie",
		"pastry", "pie crust", "batter", "breading",
	},
	household.CategoryDairy: {
		"milk", "cheese", "butter", "cream", "yogurt", "whey", "casein",
		"ghee", "lactose", "curd", "paneer", "ricotta", "mozzarella",
		"parmesan", "cheddar", "feta", "brie", "cottage cheese", "sour cream",
		"ice cream", "custard", "buttermilk",
	},
	household.CategoryNut: {
		"almond", "walnut", "cashew", "pistachio", "pecan", "hazelnut",
		"macadamia", "peanut", "nut butter", "marzipan", "praline", "nutella",
		"pine nut", "brazil nut", "chestnut", "nut oil", "nut flour",
	},
	household.CategoryEgg: {
		"egg", "mayonnaise", "aioli", "meringue", "custard",
		"hollandaise", "quiche", "frittata", "omelette",
	},
	household.CategoryShellfish: {
		"shrimp", "crab", "lobster", "prawn", "crawfish", "clam",
		"mussel", "oyster", "scallop", "crayfish", "langoustine",
	},
	household.CategorySoy: {
		"soy", "tofu", "tempeh", "edamame", "miso", "soya",
		"soybean", "soy lecithin", "tamari", "teriyaki",
	},
	household.CategoryVegetarian: {
		"chicken", "beef", "pork", "lamb", "fish", "bacon", "ham",
		"turkey", "duck", "veal", "meat", "anchovy", "gelatin", "lard",
		"sausage", "pepperoni", "salami", "prosciutto", "steak", "ribs",
		"salmon", "tuna", "shrimp", "cod",
	},
	household.CategoryVegan: {
		"chicken", "beef", "pork", "lamb", "fish", "bacon", "ham",
		"turkey", "duck", "veal", "meat", "anchovy", "milk", "cheese",
		"butter", "cream", "yogurt", "egg", "honey", "gelatin", "whey",
		"casein", "ghee", "lard", "sausage", "steak", "salmon", "shrimp",
	},
	household.CategoryRedMeat: {
		"beef", "pork", "lamb", "veal", "venison", "steak", "bacon",
		"ham", "sausage", "pepperoni", "salami", "prosciutto", "ribs",
	},
}

// softMedicalKeywords is the coarser high-glycemic / processed-food heuristic
// shared by the soft medical categories (diabetic-friendly, low-sodium,
// PCOS-friendly). It flags the obvious offenders rather than attempting real
// nutrition analysis.
var softMedicalKeywords = []string{
	"sugar", "syrup", "candy", "soda", "white bread", "pastry", "cake",
	"cookie", "donut", "sweetened", "frosting", "caramel",
	"cured", "pickled", "smoked", "bouillon", "instant noodles",
	"processed", "soy sauce", "fish sauce",
}

func keywordsFor(category household.RestrictionCategory) []string {
	switch category {
	case household.CategoryDiabetic, household.CategoryLowSodium, household.CategoryPCOS:
		return softMedicalKeywords
	default:
		return categoryKeywords[category]
	}
}

// Violation is one keyword hit against one restriction. Violations are
// expected business outcomes, not errors.
type Violation struct {
	Restriction    string                        `json:"restriction"`
	Category       household.RestrictionCategory `json:"category"`
	Ingredient     string                        `json:"ingredient,omitempty"`
	MatchedKeyword string                        `json:"matchedKeyword"`
}

// CheckRestrictions scans the recipe against every enforceable restriction
// and returns all keyword violations, one per (restriction, ingredient) at
// most. Ingredient names are checked individually so violations can name the
// offending ingredient; the recipe name and tags are checked as a block.
func CheckRestrictions(r *Recipe, restrictions []household.DietaryRestriction) []Violation {
	var violations []Violation
	for _, restriction := range restrictions {
		category := restriction.Category()
		if category == household.CategoryCustom {
			continue // advisory-only, cannot be enforced
		}
		keywords := keywordsFor(category)

		for _, ing := range r.Ingredients {
			name := strings.ToLower(ing.Name)
			for _, kw := range keywords {
				if strings.Contains(name, kw) {
					violations = append(violations, Violation{
						Restriction:    restriction.Name,
						Category:       category,
						Ingredient:     ing.Name,
						MatchedKeyword: kw,
					})
					break // one violation per ingredient per restriction
				}
			}
		}

		rest := strings.ToLower(r.Name + " " + strings.Join(r.Tags, " "))
		for _, kw := range keywords {
			if strings.Contains(rest, kw) {
				violations = append(violations, Violation{
					Restriction:    restriction.Name,
					Category:       category,
					MatchedKeyword: kw,
				})
				break
			}
		}
	}
	return violations
}

// IsSafe reports whether the recipe is admissible under the given dietary
// restrictions. With zero restrictions every recipe is safe. Restrictions
// that resolve to no known category are not enforced here.
func IsSafe(r *Recipe, restrictions []household.DietaryRestriction) bool {
	if len(restrictions) == 0 {
		return true
	}
	return len(CheckRestrictions(r, restrictions)) == 0
}

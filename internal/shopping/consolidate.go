package shopping

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"mealmind/internal/recipe"
)

// SourcedIngredient is one ingredient occurrence with the meal it came from.
type SourcedIngredient struct {
	Ingredient recipe.Ingredient
	RecipeName string
}

// unitAliases collapses the common spellings of a unit onto one canonical
// form so "cups" and "cup" merge.
var unitAliases = map[string]string{
	"cups": "cup", "c": "cup",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsps": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp", "tsps": "tsp",
	"pound": "lb", "pounds": "lb", "lbs": "lb",
	"ounce": "oz", "ounces": "oz",
	"gram": "g", "grams": "g", "gr": "g",
	"kilogram": "kg", "kilograms": "kg", "kgs": "kg",
	"milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"piece": "", "pieces": "", "pcs": "", "pc": "", "whole": "", "unit": "", "units": "",
	"clove": "clove", "cloves": "clove",
	"slice": "slice", "slices": "slice",
	"can": "can", "cans": "can",
	"bunch": "bunch", "bunches": "bunch",
	"pinch": "pinch", "pinches": "pinch",
}

// normalizeUnit lower-cases, resolves aliases, and falls back to trimming a
// plural "s". Count-style units ("pieces", "whole") normalize to the empty
// unit so "2 whole eggs" and "3 eggs" land in the same bucket.
func normalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitAliases[u]; ok {
		return canonical
	}
	if len(u) > 2 && strings.HasSuffix(u, "s") && !strings.HasSuffix(u, "ss") {
		return strings.TrimSuffix(u, "s")
	}
	return u
}

// preparation modifiers stripped from the front of ingredient names. "fresh
// basil" and "basil" are the same purchase.
var nameModifiers = []string{
	"fresh", "dried", "frozen", "chopped", "minced", "diced", "sliced",
	"grated", "shredded", "ground", "whole", "large", "medium", "small",
	"organic", "raw", "cooked", "boneless", "skinless",
}

// normalizeIngredientName lower-cases, strips leading preparation modifiers,
// and singularizes so "whole eggs" and "egg" merge.
func normalizeIngredientName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))

	for changed := true; changed; {
		changed = false
		for _, mod := range nameModifiers {
			if strings.HasPrefix(n, mod+" ") {
				n = strings.TrimSpace(strings.TrimPrefix(n, mod+" "))
				changed = true
			}
		}
	}

	switch {
	case strings.HasSuffix(n, "oes"): // tomatoes, potatoes
		n = strings.TrimSuffix(n, "es")
	case strings.HasSuffix(n, "ies"): // berries
		n = strings.TrimSuffix(n, "ies") + "y"
	case len(n) > 3 && strings.HasSuffix(n, "s") && !strings.HasSuffix(n, "ss"):
		n = strings.TrimSuffix(n, "s")
	}
	return n
}

// aisle categories in their display set. Anything unrecognized lands in Other.
const (
	CategoryProduce   = "produce"
	CategoryMeat      = "meat & seafood"
	CategoryDairy     = "dairy"
	CategoryGrains    = "grains & pasta"
	CategoryPantry    = "pantry"
	CategorySpices    = "spices"
	CategoryCanned    = "canned & jarred"
	CategoryFrozen    = "frozen"
	CategoryBeverages = "beverages"
	CategoryOther     = "Other"
)

var categoryHints = []struct {
	category string
	keywords []string
}{
	{CategoryFrozen, []string{"frozen"}},
	{CategoryCanned, []string{"canned", "jarred", "can of", "jar of", "tinned"}},
	{CategoryMeat, []string{
		"chicken", "beef", "pork", "lamb", "turkey", "duck", "bacon", "ham",
		"sausage", "fish", "salmon", "tuna", "cod", "shrimp", "prawn", "crab",
		"steak", "mince", "veal",
	}},
	{CategoryDairy, []string{
		"milk", "cheese", "butter", "cream", "yogurt", "yoghurt", "egg",
		"mozzarella", "parmesan", "cheddar", "feta", "ricotta",
	}},
	{CategoryGrains, []string{
		"rice", "pasta", "spaghetti", "noodle", "bread", "flour", "oat",
		"quinoa", "couscous", "tortilla", "barley", "cereal",
	}},
	{CategorySpices, []string{
		"salt", "pepper", "cumin", "paprika", "oregano", "basil", "thyme",
		"rosemary", "cinnamon", "turmeric", "chili powder", "curry powder",
		"coriander", "spice", "seasoning", "cayenne", "nutmeg",
	}},
	{CategoryBeverages, []string{"juice", "wine", "beer", "soda", "coffee", "tea", "water"}},
	{CategoryProduce, []string{
		"tomato", "onion", "garlic", "potato", "carrot", "celery", "lettuce",
		"spinach", "kale", "broccoli", "cucumber", "zucchini", "pepper",
		"mushroom", "apple", "banana", "lemon", "lime", "orange", "avocado",
		"cilantro", "parsley", "ginger", "cabbage", "bean sprout", "berry",
		"mango", "pea", "corn", "eggplant", "cauliflower",
	}},
	{CategoryPantry, []string{
		"oil", "vinegar", "sugar", "honey", "sauce", "stock", "broth",
		"mustard", "mayonnaise", "ketchup", "bean", "lentil", "chickpea",
		"nut", "almond", "peanut", "sesame", "coconut", "chocolate", "vanilla",
		"baking", "yeast", "cornstarch", "syrup",
	}},
}

// knownCategories lets ingredient-provided categories pass through when they
// already use the display vocabulary.
var knownCategories = map[string]string{
	"produce": CategoryProduce, "vegetables": CategoryProduce, "fruits": CategoryProduce, "fruit": CategoryProduce,
	"meat": CategoryMeat, "meat & seafood": CategoryMeat, "seafood": CategoryMeat, "protein": CategoryMeat,
	"dairy": CategoryDairy,
	"grains": CategoryGrains, "grains & pasta": CategoryGrains, "bakery": CategoryGrains,
	"pantry": CategoryPantry, "condiments": CategoryPantry, "baking": CategoryPantry,
	"spices": CategorySpices, "herbs": CategorySpices, "seasonings": CategorySpices,
	"canned": CategoryCanned, "canned & jarred": CategoryCanned,
	"frozen": CategoryFrozen,
	"beverages": CategoryBeverages, "drinks": CategoryBeverages,
	"other": CategoryOther,
}

// categorize resolves an item's aisle. A category already on the ingredient
// wins if recognized; otherwise the name is matched against aisle keywords,
// spices and proteins before produce so "chili powder" doesn't shelve with
// the peppers.
func categorize(name, provided string) string {
	if c, ok := knownCategories[strings.ToLower(strings.TrimSpace(provided))]; ok {
		return c
	}
	n := strings.ToLower(name)
	for _, hint := range categoryHints {
		for _, kw := range hint.keywords {
			if strings.Contains(n, kw) {
				return hint.category
			}
		}
	}
	return CategoryOther
}

// addAmounts merges two textual amounts. When both parse as numbers they are
// summed; otherwise the texts are joined with " + " rather than guessed at.
func addAmounts(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return strconv.FormatFloat(fa+fb, 'f', -1, 64)
	}
	return a + " + " + b
}

// Consolidate merges ingredient occurrences into one line per normalized
// (name, unit) pair and sorts the result by category then name, both
// case-insensitive. Each item gets a fresh id; everything else is
// deterministic, so consolidating its own output again yields the same lines.
func Consolidate(ingredients []SourcedIngredient) []ShoppingItem {
	type bucket struct {
		item  ShoppingItem
		order int
	}
	buckets := make(map[string]*bucket)
	order := 0

	for _, src := range ingredients {
		name := normalizeIngredientName(src.Ingredient.Name)
		if name == "" {
			continue
		}
		unit := normalizeUnit(src.Ingredient.Unit)
		key := name + "|" + unit

		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				item: ShoppingItem{
					ID:       uuid.NewString(),
					Name:     name,
					Unit:     unit,
					Category: categorize(name, src.Ingredient.Category),
				},
				order: order,
			}
			buckets[key] = b
			order++
		}
		b.item.Amount = addAmounts(b.item.Amount, string(src.Ingredient.Amount))
		if src.RecipeName != "" && !containsFold(b.item.RecipeNames, src.RecipeName) {
			b.item.RecipeNames = append(b.item.RecipeNames, src.RecipeName)
		}
	}

	items := make([]ShoppingItem, 0, len(buckets))
	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })
	for _, b := range ordered {
		items = append(items, b.item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := strings.ToLower(items[i].Category), strings.ToLower(items[j].Category)
		if ci != cj {
			return ci < cj
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

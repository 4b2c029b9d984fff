package telegram

import (
	"fmt"
	"strings"

	"mealmind/internal/planner"
	"mealmind/internal/recipe"
	"mealmind/internal/shopping"
)

var categoryEmoji = map[string]string{
	shopping.CategoryProduce:   "🥬",
	shopping.CategoryMeat:      "🥩",
	shopping.CategoryDairy:     "🥛",
	shopping.CategoryGrains:    "🍞",
	shopping.CategoryPantry:    "🫙",
	shopping.CategorySpices:    "🧂",
	shopping.CategoryCanned:    "🥫",
	shopping.CategoryFrozen:    "🧊",
	shopping.CategoryBeverages: "🧃",
	shopping.CategoryOther:     "🛒",
}

var mealTypeEmoji = map[string]string{
	"breakfast": "🍳",
	"lunch":     "🥗",
	"dinner":    "🍽",
	"snack":     "🍎",
}

// formatShoppingList renders the list grouped by category. Items arrive
// already sorted by category then name, so one pass with a header on each
// category change is enough.
func formatShoppingList(list *shopping.ShoppingList) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *Shopping List* (week of %s)\n", list.WeekStartDate.Format("Jan 2")))

	lastCategory := ""
	for _, item := range list.Items {
		if item.Category != lastCategory {
			emoji := categoryEmoji[item.Category]
			if emoji == "" {
				emoji = "🛒"
			}
			sb.WriteString(fmt.Sprintf("\n%s *%s*\n", emoji, titleCase(item.Category)))
			lastCategory = item.Category
		}

		check := "◻️"
		if item.Checked {
			check = "✅"
		}
		line := item.Name
		if item.Amount != "" {
			line = strings.TrimSpace(item.Amount + " " + item.Unit + " " + item.Name)
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", check, line))
	}

	if len(list.Items) == 0 {
		sb.WriteString("\n_Nothing to buy. Lucky you._\n")
	}
	return sb.String()
}

// formatPlan renders the week's plan, one day per block.
func formatPlan(plan *planner.MealPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Meal Plan* (week of %s, %s)\n\n", plan.WeekStartDate.Format("Jan 2"), plan.Status))

	for _, day := range plan.Days {
		sb.WriteString(fmt.Sprintf("*%s*\n", day.DayName))
		if len(day.Meals) == 0 {
			sb.WriteString("_no meals planned_\n")
		}
		for _, meal := range day.Meals {
			emoji := mealTypeEmoji[strings.ToLower(meal.MealType)]
			if emoji == "" {
				emoji = "🍽"
			}
			sb.WriteString(fmt.Sprintf("%s %s", emoji, meal.RecipeName))
			if total := meal.PrepTimeMinutes + meal.CookTimeMinutes; total > 0 {
				sb.WriteString(fmt.Sprintf(" (%d min)", total))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatCandidates renders matcher results for a "what can I make" question.
func formatCandidates(candidates []recipe.Candidate) string {
	var sb strings.Builder
	sb.WriteString("🧑‍🍳 *Here's what you could make:*\n\n")
	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("%d. *%s*", i+1, c.Recipe.Name))
		if total := c.Recipe.TotalTimeMinutes(); total > 0 {
			sb.WriteString(fmt.Sprintf(" (%d min)", total))
		}
		sb.WriteString("\n")
		if c.Recipe.Description != "" {
			sb.WriteString(fmt.Sprintf("_%s_\n", c.Recipe.Description))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

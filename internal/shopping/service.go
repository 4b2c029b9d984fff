package shopping

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"mealmind/internal/apperr"
	"mealmind/internal/planner"
	"mealmind/internal/recipe"
)

// ListStore is the persistence surface the service needs.
type ListStore interface {
	Replace(ctx context.Context, list *ShoppingList) error
	Save(ctx context.Context, list *ShoppingList) error
	Get(ctx context.Context, id string) (*ShoppingList, error)
	ListActive(ctx context.Context, householdID string) ([]ShoppingList, error)
}

// RecipeResolver looks up saved recipes so consolidation can prefer the
// canonical ingredient list over the plan's denormalized snapshot.
type RecipeResolver interface {
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
}

// Service derives shopping lists from meal plans and serves reads. It
// implements planner.ListRebuilder.
type Service struct {
	lists   ListStore
	recipes RecipeResolver
	now     func() time.Time
}

// NewService creates a shopping service.
func NewService(lists ListStore, recipes RecipeResolver) *Service {
	return &Service{lists: lists, recipes: recipes, now: time.Now}
}

// GenerateForPlan builds the plan's shopping list from scratch and replaces
// any previous list for the plan, returning the new list.
func (s *Service) GenerateForPlan(ctx context.Context, plan *planner.MealPlan) (*ShoppingList, error) {
	var sourced []SourcedIngredient
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			for _, ing := range s.mealIngredients(ctx, &meal) {
				sourced = append(sourced, SourcedIngredient{Ingredient: ing, RecipeName: meal.RecipeName})
			}
		}
	}

	list := &ShoppingList{
		ID:            uuid.NewString(),
		MealPlanID:    plan.ID,
		HouseholdID:   plan.HouseholdID,
		WeekStartDate: plan.WeekStartDate,
		Items:         Consolidate(sourced),
		Status:        ListActive,
		CreatedAt:     s.now().UTC(),
		UpdatedAt:     s.now().UTC(),
	}
	if err := s.lists.Replace(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// RebuildForPlan regenerates the plan's shopping list. Called on every
// approval.
func (s *Service) RebuildForPlan(ctx context.Context, plan *planner.MealPlan) error {
	_, err := s.GenerateForPlan(ctx, plan)
	return err
}

// mealIngredients prefers the saved recipe's current ingredients when the
// slot references one that still exists; otherwise the plan's snapshot is
// used so generated and orphaned meals still shop correctly.
func (s *Service) mealIngredients(ctx context.Context, meal *planner.PlannedMeal) []recipe.Ingredient {
	if meal.RecipeID != "" {
		rec, err := s.recipes.Get(ctx, meal.RecipeID)
		if err != nil {
			log.Printf("Warning: failed to resolve recipe %s for shopping list: %v", meal.RecipeID, err)
		} else if rec != nil {
			return rec.Ingredients
		}
	}
	return meal.Ingredients
}

// GetActiveList returns the household's active list for the current week, or
// nil when there is none. Lists whose week has fully passed are completed
// lazily here rather than by a background job.
func (s *Service) GetActiveList(ctx context.Context, householdID string) (*ShoppingList, error) {
	active, err := s.lists.ListActive(ctx, householdID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var current *ShoppingList
	for i := range active {
		list := &active[i]
		if planner.WeekElapsed(list.WeekStartDate, now) {
			list.Status = ListCompleted
			if err := s.lists.Save(ctx, list); err != nil {
				return nil, err
			}
			continue
		}
		if current == nil && planner.WeekStartOf(now).Equal(planner.WeekStartOf(list.WeekStartDate)) {
			current = list
		}
	}
	return current, nil
}

// GetList retrieves a list by ID.
func (s *Service) GetList(ctx context.Context, listID string) (*ShoppingList, error) {
	list, err := s.lists.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperr.NotFound("shopping list %s not found", listID)
	}
	return list, nil
}

// SetItemChecked toggles one item's checked state by its id.
func (s *Service) SetItemChecked(ctx context.Context, listID, itemID string, checked bool) (*ShoppingList, error) {
	list, err := s.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			list.Items[i].Checked = checked
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.NotFound("shopping list %s has no item %s", listID, itemID)
	}

	list.UpdatedAt = s.now().UTC()
	if err := s.lists.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// CompleteList marks a list completed explicitly.
func (s *Service) CompleteList(ctx context.Context, listID string) (*ShoppingList, error) {
	list, err := s.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	list.Status = ListCompleted
	list.UpdatedAt = s.now().UTC()
	if err := s.lists.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

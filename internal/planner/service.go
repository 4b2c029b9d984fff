package planner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"mealmind/internal/apperr"
	"mealmind/internal/household"
	"mealmind/internal/recipe"
)

// PlanStore is the persistence surface the service needs.
type PlanStore interface {
	Save(ctx context.Context, plan *MealPlan) error
	Get(ctx context.Context, id string) (*MealPlan, error)
	GetByWeek(ctx context.Context, householdID string, weekStart time.Time) (*MealPlan, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

// RecipeStore reads saved recipes for slot filling and manual replacement.
type RecipeStore interface {
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
	ListByHousehold(ctx context.Context, householdID string) ([]recipe.Recipe, error)
}

// HouseholdStore reads the household's restrictions and preferences.
type HouseholdStore interface {
	Get(ctx context.Context, id string) (*household.Household, error)
}

// MealGenerator fills slots no saved recipe can cover.
type MealGenerator interface {
	GenerateMeal(ctx context.Context, req GenRequest) (*PlannedMeal, error)
}

// ListRebuilder rebuilds the shopping list when a plan is approved. Kept as
// an interface here so the plan lifecycle doesn't depend on the shopping
// package directly.
type ListRebuilder interface {
	RebuildForPlan(ctx context.Context, plan *MealPlan) error
}

// SlotRef addresses one meal slot: a zero-based day index into the plan's
// week plus a meal type.
type SlotRef struct {
	DayIndex int    `json:"dayIndex"`
	MealType string `json:"mealType"`
}

// GenerateRequest describes a plan generation or full regeneration.
type GenerateRequest struct {
	HouseholdID string
	WeekStart   time.Time // normalized to the week's Monday
	Days        int       // 1..7
	MealTypes   []string  // e.g. ["breakfast", "dinner"]
	Feedback    Feedback  // optional scores from a failed quality gate
}

// Service owns the meal plan lifecycle: generation, slot edits, the status
// state machine, and deletion.
type Service struct {
	plans      PlanStore
	recipes    RecipeStore
	households HouseholdStore
	generator  MealGenerator
	rebuilder  ListRebuilder
}

// NewService creates a plan lifecycle service. rebuilder may be nil in tests
// that don't exercise approval.
func NewService(plans PlanStore, recipes RecipeStore, households HouseholdStore, generator MealGenerator, rebuilder ListRebuilder) *Service {
	return &Service{plans: plans, recipes: recipes, households: households, generator: generator, rebuilder: rebuilder}
}

var validMealTypes = map[string]bool{"breakfast": true, "lunch": true, "dinner": true, "snack": true}

func validateGenerateRequest(req *GenerateRequest) error {
	if req.HouseholdID == "" {
		return apperr.Validation("householdId is required")
	}
	if req.Days < 1 || req.Days > 7 {
		return apperr.Validation("days must be between 1 and 7, got %d", req.Days)
	}
	if len(req.MealTypes) == 0 {
		return apperr.Validation("at least one meal type is required")
	}
	for _, mt := range req.MealTypes {
		if !validMealTypes[strings.ToLower(mt)] {
			return apperr.Validation("unknown meal type %q", mt)
		}
	}
	return nil
}

// GeneratePlan creates a draft plan for a week, or regenerates the requested
// slots of the week's existing plan. Saved recipes fill slots first; the LLM
// covers the rest. Nothing is persisted unless every slot succeeds, so a
// failed first-time generation leaves no plan and a failed regeneration
// leaves the existing plan untouched.
func (s *Service) GeneratePlan(ctx context.Context, req GenerateRequest) (*MealPlan, error) {
	if err := validateGenerateRequest(&req); err != nil {
		return nil, err
	}
	weekStart := WeekStartOf(req.WeekStart)

	restrictions, prefs, err := s.householdContext(ctx, req.HouseholdID)
	if err != nil {
		return nil, err
	}

	existing, err := s.plans.GetByWeek(ctx, req.HouseholdID, weekStart)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	plan := existing
	regenerating := existing != nil
	if plan == nil {
		plan = &MealPlan{
			ID:            uuid.NewString(),
			HouseholdID:   req.HouseholdID,
			WeekStartDate: weekStart,
			Status:        StatusDraft,
			CreatedAt:     now,
		}
	}
	for len(plan.Days) < req.Days {
		i := len(plan.Days)
		plan.Days = append(plan.Days, DayPlan{
			Date:    weekStart.AddDate(0, 0, i).Format("2006-01-02"),
			DayName: DayNameFor(i),
		})
	}

	saved, err := s.recipes.ListByHousehold(ctx, req.HouseholdID)
	if err != nil {
		return nil, err
	}

	used := plan.RecipeNames()
	for day := 0; day < req.Days; day++ {
		for _, mealType := range req.MealTypes {
			mealType = strings.ToLower(mealType)
			if cur, _ := plan.Days[day].Meal(mealType); cur != nil && !regenerating {
				continue
			}

			var meal PlannedMeal
			if rec := recipe.FillSlot(saved, restrictions, prefs, mealType, used); rec != nil {
				meal = MealFromRecipe(rec, mealType)
			} else {
				generated, err := s.generator.GenerateMeal(ctx, GenRequest{
					MealType:     mealType,
					DayName:      plan.Days[day].DayName,
					AvoidNames:   setToSlice(used),
					Restrictions: restrictions,
					Prefs:        prefs,
					Feedback:     req.Feedback,
					Regenerate:   regenerating,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to fill %s slot on %s: %w", mealType, plan.Days[day].DayName, err)
				}
				meal = *generated
			}

			plan.Days[day].SetMeal(meal)
			used[strings.ToLower(meal.RecipeName)] = true
		}
	}

	plan.UpdatedAt = now
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// RegenerateSlot replaces one slot's meal with a freshly generated one. The
// rest of the plan is untouched, and a generation failure leaves the current
// meal in place.
func (s *Service) RegenerateSlot(ctx context.Context, planID string, slot SlotRef, feedback Feedback) (*MealPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	day, current, err := resolveSlot(plan, slot)
	if err != nil {
		return nil, err
	}

	restrictions, prefs, err := s.householdContext(ctx, plan.HouseholdID)
	if err != nil {
		return nil, err
	}

	avoid := plan.RecipeNames()
	avoid[strings.ToLower(current.RecipeName)] = true

	meal, err := s.generator.GenerateMeal(ctx, GenRequest{
		MealType:     slot.MealType,
		DayName:      day.DayName,
		AvoidNames:   setToSlice(avoid),
		Restrictions: restrictions,
		Prefs:        prefs,
		Feedback:     feedback,
		Regenerate:   true,
	})
	if err != nil {
		return nil, err
	}

	day.SetMeal(*meal)
	plan.UpdatedAt = time.Now().UTC()
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ReplaceSlot swaps one slot's meal for a saved recipe chosen by the user.
// This is the manual path: the user picked the recipe deliberately, so no
// safety or preference re-check runs here.
func (s *Service) ReplaceSlot(ctx context.Context, planID string, slot SlotRef, recipeID string) (*MealPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if slot.DayIndex < 0 || slot.DayIndex >= len(plan.Days) {
		return nil, apperr.Constraint("plan has no day at index %d", slot.DayIndex)
	}

	rec, err := s.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound("recipe %s not found", recipeID)
	}

	plan.Days[slot.DayIndex].SetMeal(MealFromRecipe(rec, strings.ToLower(slot.MealType)))
	plan.UpdatedAt = time.Now().UTC()
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// MoveSlot moves a meal from one slot to another, replacing whatever the
// destination held. The source slot is left empty.
func (s *Service) MoveSlot(ctx context.Context, planID string, from, to SlotRef) (*MealPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if _, _, err := resolveSlot(plan, from); err != nil {
		return nil, err
	}
	if to.DayIndex < 0 || to.DayIndex >= len(plan.Days) {
		return nil, apperr.Constraint("plan has no day at index %d", to.DayIndex)
	}

	meal, _ := plan.Days[from.DayIndex].RemoveMeal(from.MealType)
	meal.MealType = strings.ToLower(to.MealType)
	plan.Days[to.DayIndex].SetMeal(meal)

	plan.UpdatedAt = time.Now().UTC()
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// SetStatus advances the plan along draft → approved → completed. The legacy
// "finalized" spelling is accepted for completed. Approving a plan rebuilds
// its shopping list unconditionally, replacing any existing list for the plan;
// approving an already-approved plan is an idempotent way to trigger that
// rebuild after slot edits.
func (s *Service) SetStatus(ctx context.Context, planID, status string) (*MealPlan, error) {
	next, err := ParseStatus(status)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}

	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.Status.CanTransitionTo(next) {
		return nil, apperr.Constraint("cannot transition plan from %s to %s", plan.Status, next)
	}

	plan.Status = next
	plan.UpdatedAt = time.Now().UTC()
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}

	if next == StatusApproved && s.rebuilder != nil {
		if err := s.rebuilder.RebuildForPlan(ctx, plan); err != nil {
			// The status change already stuck; surface the consolidation
			// failure without rolling the plan back.
			log.Printf("Warning: shopping list rebuild failed for plan %s: %v", plan.ID, err)
			return plan, err
		}
	}
	return plan, nil
}

// DeletePlan soft-deletes a plan. Deleted plans never resurface through any
// read path.
func (s *Service) DeletePlan(ctx context.Context, planID string) error {
	ok, err := s.plans.SoftDelete(ctx, planID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("meal plan %s not found", planID)
	}
	return nil
}

// GetPlan retrieves a plan by ID.
func (s *Service) GetPlan(ctx context.Context, planID string) (*MealPlan, error) {
	return s.loadPlan(ctx, planID)
}

// GetPlanForWeek retrieves a household's plan for the week containing t, or
// nil when none exists.
func (s *Service) GetPlanForWeek(ctx context.Context, householdID string, t time.Time) (*MealPlan, error) {
	return s.plans.GetByWeek(ctx, householdID, WeekStartOf(t))
}

func (s *Service) loadPlan(ctx context.Context, planID string) (*MealPlan, error) {
	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperr.NotFound("meal plan %s not found", planID)
	}
	return plan, nil
}

// householdContext loads restrictions and preferences, tolerating a missing
// household (new users plan before filling in their profile).
func (s *Service) householdContext(ctx context.Context, householdID string) ([]household.DietaryRestriction, household.UserPreferences, error) {
	hh, err := s.households.Get(ctx, householdID)
	if err != nil {
		return nil, household.UserPreferences{}, err
	}
	if hh == nil {
		return nil, household.UserPreferences{}, nil
	}
	return hh.Restrictions(), hh.Preferences, nil
}

// resolveSlot validates a slot reference against the plan and returns the day
// and the meal currently in the slot.
func resolveSlot(plan *MealPlan, slot SlotRef) (*DayPlan, *PlannedMeal, error) {
	if slot.DayIndex < 0 || slot.DayIndex >= len(plan.Days) {
		return nil, nil, apperr.Constraint("plan has no day at index %d", slot.DayIndex)
	}
	day := &plan.Days[slot.DayIndex]
	meal, _ := day.Meal(slot.MealType)
	if meal == nil {
		return nil, nil, apperr.Constraint("plan has no %s slot on %s", slot.MealType, day.DayName)
	}
	return day, meal, nil
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}

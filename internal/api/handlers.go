package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"mealmind/internal/apperr"
	"mealmind/internal/evaluation"
	"mealmind/internal/household"
	"mealmind/internal/planner"
	"mealmind/internal/recipe"
)

func (s *Server) handleSaveHousehold(w http.ResponseWriter, r *http.Request) {
	var hh household.Household
	if err := decodeBody(r, &hh); err != nil {
		writeError(w, err)
		return
	}
	hh.ID = r.PathValue("id")
	if hh.ID == "" {
		writeError(w, apperr.Validation("household id is required"))
		return
	}
	if err := s.households.Save(r.Context(), &hh); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, hh)
}

func (s *Server) handleGetHousehold(w http.ResponseWriter, r *http.Request) {
	hh, err := s.households.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if hh == nil {
		writeError(w, apperr.NotFound("household %s not found", r.PathValue("id")))
		return
	}
	writeData(w, http.StatusOK, hh)
}

func (s *Server) handleSaveRecipe(w http.ResponseWriter, r *http.Request) {
	var rec recipe.Recipe
	if err := decodeBody(r, &rec); err != nil {
		writeError(w, err)
		return
	}
	if rec.HouseholdID == "" {
		writeError(w, apperr.Validation("householdId is required"))
		return
	}
	if rec.Name == "" || len(rec.Ingredients) == 0 {
		writeError(w, apperr.Validation("recipe needs a name and at least one ingredient"))
		return
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := s.recipes.Save(r.Context(), &rec); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, rec)
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	householdID := r.URL.Query().Get("householdId")
	if householdID == "" {
		writeError(w, apperr.Validation("householdId query parameter is required"))
		return
	}
	recipes, err := s.recipes.ListByHousehold(r.Context(), householdID)
	if err != nil {
		writeError(w, err)
		return
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	writeData(w, http.StatusOK, recipes)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recipes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if rec == nil {
		writeError(w, apperr.NotFound("recipe %s not found", r.PathValue("id")))
		return
	}
	writeData(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ok, err := s.recipes.SoftDelete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, apperr.NotFound("recipe %s not found", r.PathValue("id")))
		return
	}
	writeData(w, http.StatusOK, map[string]string{"id": r.PathValue("id")})
}

func (s *Server) handleImportRecipe(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		writeError(w, apperr.Validation("recipe import is not configured"))
		return
	}
	var req struct {
		HouseholdID string `json:"householdId"`
		URL         string `json:"url"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.HouseholdID == "" || req.URL == "" {
		writeError(w, apperr.Validation("householdId and url are required"))
		return
	}

	rec, err := s.importer.ImportFromURL(r.Context(), req.HouseholdID, req.URL)
	if err != nil {
		writeError(w, apperr.External(err, "recipe import failed"))
		return
	}
	if err := s.recipes.Save(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}

	// Violations are reported, not blocking: it's the household's own
	// recipe, it just won't be suggested for their plans.
	var violations []recipe.Violation
	if hh, err := s.households.Get(r.Context(), req.HouseholdID); err == nil && hh != nil {
		violations = recipe.CheckRestrictions(rec, hh.Restrictions())
	}
	writeData(w, http.StatusCreated, map[string]any{
		"recipe":     rec,
		"violations": violations,
	})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HouseholdID string `json:"householdId"`
		Query       string `json:"query"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.HouseholdID == "" || req.Query == "" {
		writeError(w, apperr.Validation("householdId and query are required"))
		return
	}

	recipes, err := s.recipes.ListByHousehold(r.Context(), req.HouseholdID)
	if err != nil {
		writeError(w, err)
		return
	}

	var restrictions []household.DietaryRestriction
	var prefs household.UserPreferences
	if hh, err := s.households.Get(r.Context(), req.HouseholdID); err == nil && hh != nil {
		restrictions = hh.Restrictions()
		prefs = hh.Preferences
	}

	candidates := recipe.MatchQuery(req.Query, recipes, restrictions, prefs)
	if candidates == nil {
		candidates = []recipe.Candidate{}
	}
	writeData(w, http.StatusOK, map[string]any{
		"candidates":         candidates,
		"fallbackToGenerate": len(candidates) == 0,
	})
}

// handleGeneratePlan generates (or regenerates) a week's plan and runs it
// through the quality gate. A failed gate triggers one feedback-driven
// regeneration before the result is returned either way, with the evaluation
// attached so the client can show what's weak.
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HouseholdID string           `json:"householdId"`
		WeekStart   string           `json:"weekStart"` // YYYY-MM-DD, defaults to this week
		Days        int              `json:"days"`
		MealTypes   []string         `json:"mealTypes"`
		Feedback    planner.Feedback `json:"previousFeedback,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	weekStart := time.Now()
	if req.WeekStart != "" {
		parsed, err := time.Parse("2006-01-02", req.WeekStart)
		if err != nil {
			writeError(w, apperr.Validation("weekStart must be YYYY-MM-DD"))
			return
		}
		weekStart = parsed
	}
	if req.Days == 0 {
		req.Days = 7
	}
	if len(req.MealTypes) == 0 {
		req.MealTypes = []string{"dinner"}
	}

	genReq := planner.GenerateRequest{
		HouseholdID: req.HouseholdID,
		WeekStart:   weekStart,
		Days:        req.Days,
		MealTypes:   req.MealTypes,
		Feedback:    req.Feedback,
	}

	plan, err := s.plans.GeneratePlan(r.Context(), genReq)
	if err != nil {
		writeError(w, err)
		return
	}

	result := s.evaluatePlan(r.Context(), plan)
	if result != nil && !result.Passed {
		genReq.Feedback = result.Feedback()
		if retried, err := s.plans.GeneratePlan(r.Context(), genReq); err == nil {
			plan = retried
			result = s.evaluatePlan(r.Context(), plan)
		} else {
			log.Printf("Warning: feedback regeneration failed for plan %s: %v", plan.ID, err)
		}
	}

	writeData(w, http.StatusCreated, map[string]any{
		"plan":       plan,
		"evaluation": result,
	})
}

// evaluatePlan scores a plan against its household and records the outcome.
// Evaluation history is best-effort and never fails the request.
func (s *Server) evaluatePlan(ctx context.Context, plan *planner.MealPlan) *evaluation.Result {
	var restrictions []household.DietaryRestriction
	var prefs household.UserPreferences
	if hh, err := s.households.Get(ctx, plan.HouseholdID); err == nil && hh != nil {
		restrictions = hh.Restrictions()
		prefs = hh.Preferences
	}

	result := evaluation.EvaluatePlan(plan, restrictions, prefs)
	if s.evals != nil {
		if err := s.evals.Save(ctx, "generate_plan", plan.HouseholdID, result, map[string]any{"planId": plan.ID}); err != nil {
			log.Printf("Warning: failed to record evaluation for plan %s: %v", plan.ID, err)
		}
	}
	return result
}

func (s *Server) handleGetPlanForWeek(w http.ResponseWriter, r *http.Request) {
	householdID := r.URL.Query().Get("householdId")
	if householdID == "" {
		writeError(w, apperr.Validation("householdId query parameter is required"))
		return
	}
	at := time.Now()
	if week := r.URL.Query().Get("week"); week != "" {
		parsed, err := time.Parse("2006-01-02", week)
		if err != nil {
			writeError(w, apperr.Validation("week must be YYYY-MM-DD"))
			return
		}
		at = parsed
	}

	plan, err := s.plans.GetPlanForWeek(r.Context(), householdID, at)
	if err != nil {
		writeError(w, err)
		return
	}
	if plan == nil {
		writeError(w, apperr.NotFound("no meal plan for that week"))
		return
	}
	writeData(w, http.StatusOK, plan)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.GetPlan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.DeletePlan(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"id": r.PathValue("id")})
}

func (s *Server) handleSetPlanStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	plan, err := s.plans.SetStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, plan)
}

func (s *Server) handleRegenerateSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayIndex int              `json:"dayIndex"`
		MealType string           `json:"mealType"`
		Feedback planner.Feedback `json:"previousFeedback,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	plan, err := s.plans.RegenerateSlot(r.Context(), r.PathValue("id"),
		planner.SlotRef{DayIndex: req.DayIndex, MealType: req.MealType}, req.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.evals != nil {
		if hh, hhErr := s.households.Get(r.Context(), plan.HouseholdID); hhErr == nil && hh != nil {
			result := evaluation.EvaluatePlan(plan, hh.Restrictions(), hh.Preferences)
			if err := s.evals.Save(r.Context(), "regenerate_slot", plan.HouseholdID, result, map[string]any{"planId": plan.ID}); err != nil {
				log.Printf("Warning: failed to record evaluation for plan %s: %v", plan.ID, err)
			}
		}
	}
	writeData(w, http.StatusOK, plan)
}

func (s *Server) handleReplaceSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayIndex int    `json:"dayIndex"`
		MealType string `json:"mealType"`
		RecipeID string `json:"recipeId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.RecipeID == "" {
		writeError(w, apperr.Validation("recipeId is required"))
		return
	}
	plan, err := s.plans.ReplaceSlot(r.Context(), r.PathValue("id"),
		planner.SlotRef{DayIndex: req.DayIndex, MealType: req.MealType}, req.RecipeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, plan)
}

func (s *Server) handleMoveSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From planner.SlotRef `json:"from"`
		To   planner.SlotRef `json:"to"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	plan, err := s.plans.MoveSlot(r.Context(), r.PathValue("id"), req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, plan)
}

func (s *Server) handleGetActiveList(w http.ResponseWriter, r *http.Request) {
	householdID := r.URL.Query().Get("householdId")
	if householdID == "" {
		writeError(w, apperr.Validation("householdId query parameter is required"))
		return
	}
	list, err := s.shopping.GetActiveList(r.Context(), householdID)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		writeError(w, apperr.NotFound("no active shopping list for this week"))
		return
	}
	writeData(w, http.StatusOK, list)
}

// handleGenerateList (re)builds a plan's shopping list on demand, covering
// plans edited after approval.
func (s *Server) handleGenerateList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MealPlanID string `json:"mealPlanId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MealPlanID == "" {
		writeError(w, apperr.Validation("mealPlanId is required"))
		return
	}

	plan, err := s.plans.GetPlan(r.Context(), req.MealPlanID)
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := s.shopping.GenerateForPlan(r.Context(), plan)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, list)
}

func (s *Server) handleCheckItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Checked bool `json:"checked"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	list, err := s.shopping.SetItemChecked(r.Context(), r.PathValue("id"), r.PathValue("itemId"), req.Checked)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	householdID := r.URL.Query().Get("householdId")
	if householdID == "" {
		writeError(w, apperr.Validation("householdId query parameter is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.evals.ListRecent(r.Context(), householdID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []evaluation.Record{}
	}
	writeData(w, http.StatusOK, records)
}

func (s *Server) handleLinkToken(w http.ResponseWriter, r *http.Request) {
	if s.signer == nil {
		writeError(w, apperr.Validation("telegram linking is not configured"))
		return
	}
	var req struct {
		HouseholdID string `json:"householdId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.HouseholdID == "" {
		writeError(w, apperr.Validation("householdId is required"))
		return
	}
	token, err := s.signer.Sign(req.HouseholdID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"token": token})
}

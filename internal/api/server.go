// Package api exposes the HTTP surface. Responses use a uniform envelope:
// {"success": true, "data": ...} or {"success": false, "error": {...}}.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mealmind/internal/apperr"
	"mealmind/internal/evaluation"
	"mealmind/internal/household"
	"mealmind/internal/planner"
	"mealmind/internal/recipe"
	"mealmind/internal/shopping"
	"mealmind/internal/telegram"
)

// Server holds the handlers' dependencies.
type Server struct {
	households *household.Repository
	recipes    *recipe.Repository
	importer   *recipe.Importer
	plans      *planner.Service
	shopping   *shopping.Service
	evals      *evaluation.Store
	signer     *telegram.LinkSigner // nil when the bot is disabled
}

// NewServer creates the API server. importer and signer may be nil when the
// corresponding features are not configured.
func NewServer(
	households *household.Repository,
	recipes *recipe.Repository,
	importer *recipe.Importer,
	plans *planner.Service,
	shoppingSvc *shopping.Service,
	evals *evaluation.Store,
	signer *telegram.LinkSigner,
) *Server {
	return &Server{
		households: households,
		recipes:    recipes,
		importer:   importer,
		plans:      plans,
		shopping:   shoppingSvc,
		evals:      evals,
		signer:     signer,
	}
}

// RegisterHandlers registers all API routes on the given mux.
func (s *Server) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("PUT /api/households/{id}", s.handleSaveHousehold)
	mux.HandleFunc("GET /api/households/{id}", s.handleGetHousehold)

	mux.HandleFunc("POST /api/recipes", s.handleSaveRecipe)
	mux.HandleFunc("GET /api/recipes", s.handleListRecipes)
	mux.HandleFunc("GET /api/recipes/{id}", s.handleGetRecipe)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.handleDeleteRecipe)
	mux.HandleFunc("POST /api/recipes/import", s.handleImportRecipe)
	mux.HandleFunc("POST /api/recipes/match", s.handleMatch)

	mux.HandleFunc("POST /api/meal-plans", s.handleGeneratePlan)
	mux.HandleFunc("GET /api/meal-plans", s.handleGetPlanForWeek)
	mux.HandleFunc("GET /api/meal-plans/{id}", s.handleGetPlan)
	mux.HandleFunc("DELETE /api/meal-plans/{id}", s.handleDeletePlan)
	mux.HandleFunc("POST /api/meal-plans/{id}/status", s.handleSetPlanStatus)
	mux.HandleFunc("POST /api/meal-plans/{id}/regenerate", s.handleRegenerateSlot)
	mux.HandleFunc("POST /api/meal-plans/{id}/replace", s.handleReplaceSlot)
	mux.HandleFunc("POST /api/meal-plans/{id}/move", s.handleMoveSlot)

	mux.HandleFunc("GET /api/shopping-list", s.handleGetActiveList)
	mux.HandleFunc("POST /api/shopping-list", s.handleGenerateList)
	mux.HandleFunc("POST /api/shopping-lists/{id}/items/{itemId}", s.handleCheckItem)

	mux.HandleFunc("GET /api/evaluations", s.handleListEvaluations)
	mux.HandleFunc("POST /api/telegram/link-token", s.handleLinkToken)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError maps the error taxonomy onto HTTP statuses. Unknown errors are
// logged and surfaced as opaque 500s.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Error: &errorBody{Code: "INTERNAL", Message: "internal server error"},
		})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConstraint:
		status = http.StatusConflict
	case apperr.KindExternalService:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, envelope{
		Error: &errorBody{Code: string(appErr.Kind), Message: appErr.Message},
	})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

// Package service exposes the application over HTTP JSON endpoints. This is
// the host-application glue: list operations, the monthly report, and the
// sync-link exchange all live here, on top of the state controller.
package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nivke/cartmate/internal/inference"
	"github.com/nivke/cartmate/internal/models"
	"github.com/nivke/cartmate/internal/report"
	"github.com/nivke/cartmate/internal/state"
)

// Service wires the state controller, the classifier, and the sync codec to
// HTTP routes.
type Service struct {
	state        *state.Controller
	classifier   inference.Classifier
	shareBaseURL string
}

// New creates a Service. classifier may be inference.Disabled{} when no API
// key is configured.
func New(st *state.Controller, classifier inference.Classifier, shareBaseURL string) *Service {
	return &Service{state: st, classifier: classifier, shareBaseURL: shareBaseURL}
}

// Register attaches all API routes to the mux.
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/onboarding", s.handleOnboarding)
	mux.HandleFunc("POST /api/items", s.handleAddItem)
	mux.HandleFunc("POST /api/items/barcode", s.handleAddByBarcode)
	mux.HandleFunc("POST /api/items/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("DELETE /api/items/{id}", s.handleRemoveItem)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/sync/link", s.handleSyncLink)
	mux.HandleFunc("POST /api/sync/offer", s.handleSyncOffer)
	mux.HandleFunc("POST /api/sync/confirm", s.handleSyncConfirm)
}

// stateResponse is the full client-visible state.
type stateResponse struct {
	Items     []models.Item       `json:"items"`
	Prefs     *models.Preferences `json:"prefs"`
	Onboarded bool                `json:"onboarded"`
}

func (s *Service) handleState(w http.ResponseWriter, r *http.Request) {
	items, prefs, onboarded := s.state.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{Items: items, Prefs: prefs, Onboarded: onboarded})
}

func (s *Service) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string    `json:"name"`
		PartnerName string    `json:"partnerName"`
		BudgetGoal  flexPrice `json:"budgetGoal"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.PartnerName == "" {
		writeError(w, http.StatusBadRequest, "both member names are required")
		return
	}

	prefs := models.Preferences{
		Name:        req.Name,
		PartnerName: req.PartnerName,
		BudgetGoal:  float64(req.BudgetGoal),
	}
	s.state.SetPreferences(r.Context(), prefs)
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Service) handleReport(w http.ResponseWriter, r *http.Request) {
	month := report.CurrentMonth(time.Now())
	if raw := r.URL.Query().Get("month"); raw != "" {
		if _, err := time.Parse("2006-01", raw); err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		month = report.Month(raw)
	}

	items, prefs, _ := s.state.Snapshot()
	monthly := report.BuildMonthly(items, month)

	var goal float64
	if prefs != nil {
		goal = prefs.BudgetGoal
	}
	raw, clamped := report.BudgetProgress(monthly.TotalSpent, goal)

	writeJSON(w, http.StatusOK, struct {
		report.Monthly
		BudgetGoal       float64 `json:"budgetGoal"`
		BudgetProgress   float64 `json:"budgetProgress"`
		BudgetBarWidth   float64 `json:"budgetBarWidth"`
		BudgetConfigured bool    `json:"budgetConfigured"`
	}{
		Monthly:          monthly,
		BudgetGoal:       goal,
		BudgetProgress:   raw,
		BudgetBarWidth:   clamped,
		BudgetConfigured: goal > 0,
	})
}

// flexPrice decodes a JSON number, a numeric string, or anything else as a
// price. Non-numeric input coerces to 0 instead of failing the submission.
type flexPrice float64

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*p = flexPrice(number)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			*p = flexPrice(parsed)
			return nil
		}
	}
	*p = 0
	return nil
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps state.ErrNotFound to 404 and everything else to 400.
func errorStatus(err error) int {
	if errors.Is(err, state.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

package service

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/nivke/cartmate/internal/models"
	syncpkg "github.com/nivke/cartmate/internal/sync"
)

// handleSyncLink encodes the current snapshot into a token and the share
// URL the partner opens.
func (s *Service) handleSyncLink(w http.ResponseWriter, r *http.Request) {
	items, prefs, _ := s.state.Snapshot()
	if prefs == nil {
		writeError(w, http.StatusConflict, "complete onboarding before sharing")
		return
	}

	token, err := syncpkg.Encode(&models.SyncPayload{Items: items, Prefs: prefs})
	if err != nil {
		slog.Error("Failed to build sync link", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build sync link")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"url":   s.shareURL(token),
	})
}

func (s *Service) shareURL(token string) string {
	base := strings.TrimRight(s.shareBaseURL, "?&")
	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	return base + separator + "sync=" + url.QueryEscape(token)
}

// offerResponse is the preview the confirmation dialog renders before the
// user accepts or discards an incoming payload.
type offerResponse struct {
	From      string              `json:"from"`
	ItemCount int                 `json:"itemCount"`
	NewItems  int                 `json:"newItems"`
	Items     []models.Item       `json:"items"`
	Prefs     *models.Preferences `json:"prefs"`
}

// handleSyncOffer decodes an incoming token into a preview without touching
// state. A broken token answers 422 so the client clears the sync parameter
// and never retries it; it is not a server fault.
func (s *Service) handleSyncOffer(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.decodeTokenRequest(w, r)
	if !ok {
		return
	}

	localItems, _, _ := s.state.Snapshot()
	known := make(map[string]struct{}, len(localItems))
	for _, item := range localItems {
		known[item.ID] = struct{}{}
	}
	fresh := 0
	for _, item := range payload.Items {
		if _, exists := known[item.ID]; !exists {
			fresh++
		}
	}

	writeJSON(w, http.StatusOK, offerResponse{
		From:      payload.Prefs.Name,
		ItemCount: len(payload.Items),
		NewItems:  fresh,
		Items:     payload.Items,
		Prefs:     payload.Prefs,
	})
}

// handleSyncConfirm applies a decoded payload to local state. This is the
// explicit user confirmation gate: nothing merges until this endpoint is
// called, and calling it again with the same token changes nothing further.
func (s *Service) handleSyncConfirm(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.decodeTokenRequest(w, r)
	if !ok {
		return
	}

	s.state.ApplySync(r.Context(), payload)
	slog.Info("Merged incoming sync payload",
		"from", payload.Prefs.Name,
		"incoming_items", len(payload.Items),
	)

	items, prefs, onboarded := s.state.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{Items: items, Prefs: prefs, Onboarded: onboarded})
}

// decodeTokenRequest reads {"token": ...} from the body and decodes it.
// On failure it writes the error response and returns ok=false.
func (s *Service) decodeTokenRequest(w http.ResponseWriter, r *http.Request) (*models.SyncPayload, bool) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	payload, err := syncpkg.Decode(req.Token)
	if err != nil {
		slog.Warn("Dropping undecodable sync token", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "invalid sync token")
		return nil, false
	}
	return payload, true
}

package service

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/nivke/cartmate/internal/inference"
	"github.com/nivke/cartmate/internal/models"
)

// handleAddItem creates an item from a name and optional price. The
// category comes from the classifier; any inference failure substitutes the
// default category and the add still completes.
func (s *Service) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string    `json:"name"`
		Price flexPrice `json:"price"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "item name must not be empty")
		return
	}

	category := s.classify(r, req.Name)
	item := models.NewItem(req.Name, category, float64(req.Price))
	if err := s.state.AddItem(r.Context(), item); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleAddByBarcode identifies a scanned barcode and adds the resulting
// product. Identification failures fall back to a generic product naming
// the raw barcode.
func (s *Service) handleAddByBarcode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Barcode string    `json:"barcode"`
		Price   flexPrice `json:"price"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Barcode = strings.TrimSpace(req.Barcode)
	if req.Barcode == "" {
		writeError(w, http.StatusBadRequest, "barcode must not be empty")
		return
	}

	product, err := s.classifier.IdentifyByBarcode(r.Context(), req.Barcode)
	if err != nil {
		slog.Warn("Barcode identification failed, using fallback", "barcode", req.Barcode, "error", err)
		product = inference.FallbackProduct(req.Barcode)
	}

	item := models.NewItem(product.Name, product.Category, float64(req.Price))
	if err := s.state.AddItem(r.Context(), item); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Service) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.state.UpdateStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Service) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := s.state.RemoveItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// classify wraps the classifier call with the default-category fallback.
func (s *Service) classify(r *http.Request, name string) string {
	category, err := s.classifier.Classify(r.Context(), name)
	if err != nil {
		slog.Warn("Classification failed, using default category", "item", name, "error", err)
		return models.DefaultCategory
	}
	return category
}

// Package external exposes the hook other writers of the shared store call
// after changing it behind the ledger's back.
package external

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

type Handler struct {
	ledger *ledger.Service
}

func NewHandler(ledger *ledger.Service) *Handler {
	return &Handler{ledger: ledger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/external", h.external)
}

type externalRequest struct {
	Key string `json:"key"`
}

// external reloads the ledger when key names it. An empty body or key means
// the ledger's own key.
func (h *Handler) external(w http.ResponseWriter, r *http.Request) {
	var req externalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Key == "" {
		req.Key = h.ledger.Key()
	}

	if err := h.ledger.HandleExternalChange(r.Context(), req.Key); err != nil {
		http.Error(w, "failed to reload ledger", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package entry

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

type Handler struct {
	ledger  *ledger.Service
	factory *entry.Factory
}

func NewHandler(ledger *ledger.Service, factory *entry.Factory) *Handler {
	return &Handler{ledger: ledger, factory: factory}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/validate", h.validate)
	r.Get("/", h.list)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var d entry.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.factory.Create(d.Filtered())
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Valid: false})
		return
	}

	if err := h.ledger.Append(r.Context(), e); err != nil {
		if errors.Is(err, ledger.ErrDuplicateID) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var d entry.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d = d.Filtered()

	writeJSON(w, http.StatusOK, validationResponse{
		Valid:         entry.IsValidDraft(d),
		Draft:         &d,
		AmountDisplay: entry.FormatDigits(d.Amount),
	})
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	entries := h.ledger.Entries()
	if entries == nil {
		entries = []entry.Entry{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Loaded:  h.ledger.Loaded(),
		Dirty:   h.ledger.Dirty(),
		Entries: entries,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	// Deleting an unknown id is not an error.
	h.ledger.Delete(r.Context(), id)

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

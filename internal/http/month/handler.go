package month

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/bye2money/internal/aggregate"
	"github.com/MrJamesThe3rd/bye2money/internal/export"
	"github.com/MrJamesThe3rd/bye2money/internal/format"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

type Handler struct {
	ledger    *ledger.Service
	export    *export.Service
	formatter *format.Formatter
}

// NewHandler serves month views. formatter is the configured locale, used
// unless the request's Accept-Language matches a supported one.
func NewHandler(ledger *ledger.Service, export *export.Service, formatter *format.Formatter) *Handler {
	return &Handler{ledger: ledger, export: export, formatter: formatter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{month}", h.get)
	r.Get("/{month}/export", h.download)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	m, err := aggregate.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return
	}

	view := aggregate.NotLoaded(m)
	if h.ledger.Loaded() {
		view = aggregate.Aggregate(h.ledger.Entries(), m)
	}

	f := format.FromAcceptLanguage(r.Header.Get("Accept-Language"), h.formatter)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Language", f.Tag().String())

	if err := json.NewEncoder(w).Encode(toResponse(view, f)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// download writes the month as CSV, or as a plain-text summary with
// ?format=text.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	m, err := aggregate.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		f := format.FromAcceptLanguage(r.Header.Get("Accept-Language"), h.formatter)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if _, err := w.Write([]byte(export.Summary(h.export.Month(m), f))); err != nil {
			slog.Error("failed to write summary", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(m)+`"`)

	if err := h.export.WriteCSV(r.Context(), m, w); err != nil {
		slog.Error("failed to write export", "month", m.String(), "error", err)
	}
}

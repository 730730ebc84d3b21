package invoices

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/biztime/biztime/internal/platform/httpx"
)

const msgNotFound = "Invoice not found"

// Handler manages invoice endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, "list invoices", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoices": items})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rows, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get invoice", err)
		return
	}
	if len(rows) == 0 {
		httpx.RespondError(w, httpx.NotFound(msgNotFound))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice": rows})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompCode *string  `json:"comp_code"`
		Amt      *float64 `json:"amt"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	// Absent fields pass through as NULL; the store's not-null and FK
	// constraints are the only input checks.
	inv, err := h.repo.Create(r.Context(), body.CompCode, body.Amt)
	if err != nil {
		h.fail(w, "create invoice", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice": inv})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Amt  *float64 `json:"amt"`
		Paid *bool    `json:"paid"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	var rows []Invoice
	var err error
	if body.Paid == nil {
		rows, err = h.repo.UpdateAmount(r.Context(), id, body.Amt)
	} else {
		rows, err = h.repo.SetPaid(r.Context(), id, body.Amt, *body.Paid)
	}
	if err != nil {
		h.fail(w, "update invoice", err)
		return
	}
	if len(rows) == 0 {
		httpx.RespondError(w, httpx.NotFound(msgNotFound))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice": rows[0]})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	affected, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, "delete invoice", err)
		return
	}
	if affected == 0 {
		httpx.RespondError(w, httpx.NotFound(msgNotFound))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		h.logger.Error(op, slog.Any("error", err), slog.String("sqlstate", pgErr.Code))
	} else {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

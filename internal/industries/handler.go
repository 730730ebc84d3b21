package industries

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/biztime/biztime/internal/platform/httpx"
)

// Handler manages industry endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers industry routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/comp_industries", h.createAssociation)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, "list industries", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"industries": items})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code     *string `json:"code"`
		Industry *string `json:"industry"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	// Missing fields reach the insert as NULL and fail on the not-null
	// constraint; duplicates fail on the primary key.
	ind, err := h.repo.Create(r.Context(), body.Code, body.Industry)
	if err != nil {
		h.fail(w, "create industry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"industry": ind})
}

func (h *Handler) createAssociation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompCode *string `json:"comp_code"`
		IndCode  *string `json:"ind_code"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	assoc, err := h.repo.CreateAssociation(r.Context(), body.CompCode, body.IndCode)
	if err != nil {
		h.fail(w, "create company industry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"comp_industry": assoc})
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

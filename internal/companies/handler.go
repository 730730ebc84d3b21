package companies

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/biztime/biztime/internal/platform/httpx"
)

const msgNotFound = "Company not found"

// Handler manages company endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers company routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{code}", h.get)
	r.Put("/{code}", h.update)
	r.Delete("/{code}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companies, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, "list companies", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"companies": companies})
}

// get assembles the detail view from three sequential reads. The reads are
// not wrapped in a transaction; a concurrent delete between them is an
// accepted race.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	company, err := h.repo.Get(r.Context(), code)
	if errors.Is(err, ErrNotFound) {
		httpx.RespondError(w, httpx.NotFound(msgNotFound))
		return
	}
	if err != nil {
		h.fail(w, "get company", err)
		return
	}

	invs, err := h.repo.ListInvoices(r.Context(), code)
	if err != nil {
		h.fail(w, "list company invoices", err)
		return
	}

	industries, err := h.repo.ListIndustries(r.Context(), code)
	if err != nil {
		h.fail(w, "list company industries", err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"company": Detail{
		Code:        company.Code,
		Name:        company.Name,
		Description: company.Description,
		Invoices:    invs,
		Industries:  industries,
	}})
}

// create does not validate the body; absent fields flow to the store as NULL
// and fail on its constraints. The code is derived from the name, so an absent
// name yields an absent code as well.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	var code *string
	if body.Name != nil {
		slug := Slugify(*body.Name)
		code = &slug
	}

	created, err := h.repo.Create(r.Context(), code, body.Name, body.Description)
	if err != nil {
		h.fail(w, "create company", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"company": created})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	updated, err := h.repo.Update(r.Context(), code, body.Name, body.Description)
	if err != nil {
		h.fail(w, "update company", err)
		return
	}
	if len(updated) == 0 {
		httpx.RespondError(w, httpx.NotFound(msgNotFound))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"company": updated})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	affected, err := h.repo.Delete(r.Context(), code)
	if err != nil {
		h.fail(w, "delete company", err)
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

package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/biztime/biztime/internal/companies"
	"github.com/biztime/biztime/internal/industries"
	"github.com/biztime/biztime/internal/invoices"
)

func newRouterForTest() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{AppRequestTimeout: 5 * time.Second, RateLimit: 1000}
	return NewRouter(RouterParams{
		Logger:            logger,
		Config:            cfg,
		CompaniesHandler:  companies.NewHandler(logger, nil),
		InvoicesHandler:   invoices.NewHandler(logger, nil),
		IndustriesHandler: industries.NewHandler(logger, nil),
	})
}

func TestUnmatchedRouteIsJSON404(t *testing.T) {
	router := newRouterForTest()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t,
		`{"error":{"message":"Not Found","status":404},"message":"Not Found"}`,
		rr.Body.String())
}

func TestWrongMethodIsJSON404(t *testing.T) {
	router := newRouterForTest()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/companies", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t,
		`{"error":{"message":"Not Found","status":404},"message":"Not Found"}`,
		rr.Body.String())
}

func TestHealthz(t *testing.T) {
	router := newRouterForTest()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

package companies

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/biztime/biztime/internal/invoices"
)

type memoryRepo struct {
	companies     []Company
	invoicesByCo  map[string][]invoices.Invoice
	industryNames map[string][]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		invoicesByCo:  map[string][]invoices.Invoice{},
		industryNames: map[string][]string{},
	}
}

func (r *memoryRepo) List(ctx context.Context) ([]Company, error) {
	return append([]Company{}, r.companies...), nil
}

func (r *memoryRepo) Get(ctx context.Context, code string) (Company, error) {
	for _, c := range r.companies {
		if c.Code == code {
			return c, nil
		}
	}
	return Company{}, ErrNotFound
}

func (r *memoryRepo) ListInvoices(ctx context.Context, code string) ([]invoices.Invoice, error) {
	result := []invoices.Invoice{}
	return append(result, r.invoicesByCo[code]...), nil
}

func (r *memoryRepo) ListIndustries(ctx context.Context, code string) ([]string, error) {
	result := []string{}
	return append(result, r.industryNames[code]...), nil
}

// Create mimics the store's constraints: nil code or name fails not-null,
// a reused code fails the primary key.
func (r *memoryRepo) Create(ctx context.Context, code, name, description *string) (Company, error) {
	if code == nil || name == nil {
		return Company{}, &pgconn.PgError{Code: "23502", Message: "null value violates not-null constraint"}
	}
	for _, c := range r.companies {
		if c.Code == *code {
			return Company{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	c := Company{Code: *code, Name: *name}
	if description != nil {
		c.Description = *description
	}
	r.companies = append(r.companies, c)
	return c, nil
}

func (r *memoryRepo) Update(ctx context.Context, code string, name, description *string) ([]Company, error) {
	for i, c := range r.companies {
		if c.Code == code {
			if name == nil {
				return nil, &pgconn.PgError{Code: "23502", Message: "null value violates not-null constraint"}
			}
			r.companies[i].Name = *name
			r.companies[i].Description = ""
			if description != nil {
				r.companies[i].Description = *description
			}
			return []Company{r.companies[i]}, nil
		}
	}
	return []Company{}, nil
}

func (r *memoryRepo) Delete(ctx context.Context, code string) (int64, error) {
	for i, c := range r.companies {
		if c.Code == code {
			r.companies = append(r.companies[:i], r.companies[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func newTestRouter(repo Repository) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Route("/companies", NewHandler(logger, repo).MountRoutes)
	return r
}

func seedRepo(t *testing.T, repo *memoryRepo) {
	t.Helper()
	for _, row := range [][3]string{
		{"apple", "Apple Computer", "Maker of OSX."},
		{"ibm", "IBM", "Big blue."},
	} {
		code, name, description := row[0], row[1], row[2]
		_, err := repo.Create(context.Background(), &code, &name, &description)
		require.NoError(t, err)
	}
}

func TestListCompanies(t *testing.T) {
	repo := newMemoryRepo()
	seedRepo(t, repo)
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/companies", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Companies []Company `json:"companies"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Companies, 2)
	require.Equal(t, "apple", body.Companies[0].Code)
	require.Equal(t, "ibm", body.Companies[1].Code)
}

func TestGetCompanyNotFound(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/companies/nope", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t,
		`{"error":{"message":"Company not found","status":404},"message":"Company not found"}`,
		rr.Body.String())
}

func TestGetCompanyDetailHasEmptyArrays(t *testing.T) {
	repo := newMemoryRepo()
	seedRepo(t, repo)
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/companies/ibm", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t,
		`{"company":{"code":"ibm","name":"IBM","description":"Big blue.","invoices":[],"industries":[]}}`,
		rr.Body.String())
}

func TestGetCompanyDetailIncludesInvoicesAndIndustries(t *testing.T) {
	repo := newMemoryRepo()
	seedRepo(t, repo)
	repo.invoicesByCo["apple"] = []invoices.Invoice{{ID: 1, CompCode: "apple", Amt: 100}}
	repo.industryNames["apple"] = []string{"Technology"}
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/companies/apple", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Company Detail `json:"company"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Company.Invoices, 1)
	require.Equal(t, int64(1), body.Company.Invoices[0].ID)
	require.False(t, body.Company.Invoices[0].Paid)
	require.Nil(t, body.Company.Invoices[0].PaidDate)
	require.Equal(t, []string{"Technology"}, body.Company.Industries)
}

func TestCreateCompanySlugifiesName(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/companies",
		strings.NewReader(`{"name":"Dell Computers, Inc.","description":"Boxes."}`))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t,
		`{"company":{"code":"dell-computers-inc","name":"Dell Computers, Inc.","description":"Boxes."}}`,
		rr.Body.String())
}

func TestCreateCompanyDuplicateCodeIs500(t *testing.T) {
	repo := newMemoryRepo()
	seedRepo(t, repo)
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/companies",
		strings.NewReader(`{"name":"IBM","description":"Again."}`))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCreateCompanyMissingNameIs500(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/companies",
		strings.NewReader(`{"description":"no name"}`))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Empty(t, repo.companies)
}

func TestCreateCompanyEmptyBodyIs500(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/companies", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Empty(t, repo.companies)
}

func TestCreateCompanyMissingDescriptionSucceeds(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/companies",
		strings.NewReader(`{"name":"Acme"}`))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t,
		`{"company":{"code":"acme","name":"Acme","description":""}}`,
		rr.Body.String())
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/companies",
		strings.NewReader(`{"name":"Apple Computer","description":"Maker of OSX."}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/companies/apple-computer", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t,
		`{"company":{"code":"apple-computer","name":"Apple Computer","description":"Maker of OSX.","invoices":[],"industries":[]}}`,
		rr.Body.String())
}

func TestUpdateCompany(t *testing.T) {
	repo := newMemoryRepo()
	seedRepo(t, repo)
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/companies/apple",
		strings.NewReader(`{"name":"Apple Inc.","description":"Maker of iOS."}`))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	// The update endpoint returns the matched rows as an array.
	require.JSONEq(t,
		`{"company":[{"code":"apple","name":"Apple Inc.","description":"Maker of iOS."}]}`,
		rr.Body.String())
}

func TestUpdateCompanyMissingNameIs500(t *testing.T) {
	repo := newMemoryRepo()
	seedRepo(t, repo)
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/companies/apple",
		strings.NewReader(`{"description":"only this"}`))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	// The row is untouched.
	got, err := repo.Get(context.Background(), "apple")
	require.NoError(t, err)
	require.Equal(t, "Apple Computer", got.Name)
}

func TestUpdateCompanyNotFound(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/companies/nope",
		strings.NewReader(`{"name":"X","description":"Y"}`))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteCompany(t *testing.T) {
	repo := newMemoryRepo()
	seedRepo(t, repo)
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/companies/apple", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"deleted"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/companies/apple", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteCompanyNotFound(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/companies/nope", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

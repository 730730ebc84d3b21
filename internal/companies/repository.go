package companies

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/biztime/biztime/internal/invoices"
)

// ErrNotFound indicates a company lookup matched no row.
var ErrNotFound = errors.New("companies: not found")

// Repository provides PostgreSQL backed persistence for companies, including
// the dependent reads behind the company detail view.
type Repository interface {
	List(ctx context.Context) ([]Company, error)
	Get(ctx context.Context, code string) (Company, error)
	ListInvoices(ctx context.Context, code string) ([]invoices.Invoice, error)
	ListIndustries(ctx context.Context, code string) ([]string, error)
	Create(ctx context.Context, code, name, description *string) (Company, error)
	Update(ctx context.Context, code string, name, description *string) ([]Company, error)
	Delete(ctx context.Context, code string) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository over the shared pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Company, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, name, description FROM companies`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *repository) Get(ctx context.Context, code string) (Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx,
		`SELECT code, name, description FROM companies WHERE code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	if err != nil {
		return Company{}, err
	}
	return c, nil
}

func (r *repository) ListInvoices(ctx context.Context, code string) ([]invoices.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, comp_code, amt, paid, paid_date FROM invoices WHERE comp_code = $1`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []invoices.Invoice{}
	for rows.Next() {
		var inv invoices.Invoice
		var paidDate pgtype.Date
		if err := rows.Scan(&inv.ID, &inv.CompCode, &inv.Amt, &inv.Paid, &paidDate); err != nil {
			return nil, err
		}
		if paidDate.Valid {
			d := paidDate.Time
			inv.PaidDate = &d
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}

func (r *repository) ListIndustries(ctx context.Context, code string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT i.industry FROM industries AS i
		 LEFT JOIN comp_industries AS c ON c.ind_code = i.code
		 WHERE c.comp_code = $1`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Create passes absent fields through as NULL so the store's not-null
// constraints reject incomplete input.
func (r *repository) Create(ctx context.Context, code, name, description *string) (Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx,
		`INSERT INTO companies (code, name, description) VALUES ($1, $2, $3)
		 RETURNING code, name, description`, code, name, description))
	if err != nil {
		return Company{}, err
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, code string, name, description *string) ([]Company, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE companies SET name = $1, description = $2 WHERE code = $3
		 RETURNING code, name, description`, name, description, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	updated := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		updated = append(updated, c)
	}
	return updated, rows.Err()
}

func (r *repository) Delete(ctx context.Context, code string) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE code = $1`, code)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	var description pgtype.Text
	if err := row.Scan(&c.Code, &c.Name, &description); err != nil {
		return Company{}, err
	}
	c.Description = description.String
	return c, nil
}

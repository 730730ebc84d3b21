package invoices

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for invoices.
//
// Lookup ids travel as text and are cast by Postgres, so a malformed id
// surfaces as a persistence failure rather than a routing concern.
type Repository interface {
	List(ctx context.Context) ([]ListItem, error)
	Get(ctx context.Context, id string) ([]Invoice, error)
	Create(ctx context.Context, compCode *string, amt *float64) (Invoice, error)
	UpdateAmount(ctx context.Context, id string, amt *float64) ([]Invoice, error)
	SetPaid(ctx context.Context, id string, amt *float64, paid bool) ([]Invoice, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository over the shared pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]ListItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, comp_code FROM invoices`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []ListItem{}
	for rows.Next() {
		var it ListItem
		if err := rows.Scan(&it.ID, &it.CompCode); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, comp_code, amt, paid, paid_date FROM invoices WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *repository) Create(ctx context.Context, compCode *string, amt *float64) (Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO invoices (comp_code, amt) VALUES ($1, $2)
		 RETURNING id, comp_code, amt, paid, paid_date`, compCode, amt)
	return scanInvoice(row)
}

func (r *repository) UpdateAmount(ctx context.Context, id string, amt *float64) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE invoices SET amt = $1 WHERE id = $2
		 RETURNING id, comp_code, amt, paid, paid_date`, amt, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *repository) SetPaid(ctx context.Context, id string, amt *float64, paid bool) ([]Invoice, error) {
	// paid_date always moves with the paid flag: refreshed to today on every
	// transition to paid, cleared on a transition to unpaid.
	query := `UPDATE invoices SET amt = $1, paid = $2, paid_date = CURRENT_DATE WHERE id = $3
		 RETURNING id, comp_code, amt, paid, paid_date`
	if !paid {
		query = `UPDATE invoices SET amt = $1, paid = $2, paid_date = NULL WHERE id = $3
		 RETURNING id, comp_code, amt, paid, paid_date`
	}

	rows, err := r.pool.Query(ctx, query, amt, paid, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanInvoices(rows pgx.Rows) ([]Invoice, error) {
	result := []Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	var paidDate pgtype.Date
	if err := row.Scan(&inv.ID, &inv.CompCode, &inv.Amt, &inv.Paid, &paidDate); err != nil {
		return Invoice{}, err
	}
	if paidDate.Valid {
		d := paidDate.Time
		inv.PaidDate = &d
	}
	return inv, nil
}

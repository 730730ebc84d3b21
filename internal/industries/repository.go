package industries

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for industries and the
// company–industry association table.
type Repository interface {
	List(ctx context.Context) ([]IndustryCompanies, error)
	Create(ctx context.Context, code, industry *string) (Industry, error)
	CreateAssociation(ctx context.Context, compCode, indCode *string) (CompanyIndustry, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository over the shared pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]IndustryCompanies, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT i.code, i.industry, c.comp_code FROM industries AS i
		 JOIN comp_industries AS c ON c.ind_code = i.code
		 ORDER BY i.code, c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Group association rows by industry, preserving join order.
	items := []IndustryCompanies{}
	index := map[string]int{}
	for rows.Next() {
		var code, industry, compCode string
		if err := rows.Scan(&code, &industry, &compCode); err != nil {
			return nil, err
		}
		i, ok := index[code]
		if !ok {
			i = len(items)
			index[code] = i
			items = append(items, IndustryCompanies{Industry: industry, CompCodes: []string{}})
		}
		items[i].CompCodes = append(items[i].CompCodes, compCode)
	}
	return items, rows.Err()
}

func (r *repository) Create(ctx context.Context, code, industry *string) (Industry, error) {
	var ind Industry
	err := r.pool.QueryRow(ctx,
		`INSERT INTO industries (code, industry) VALUES ($1, $2)
		 RETURNING code, industry`, code, industry).
		Scan(&ind.Code, &ind.Industry)
	if err != nil {
		return Industry{}, err
	}
	return ind, nil
}

func (r *repository) CreateAssociation(ctx context.Context, compCode, indCode *string) (CompanyIndustry, error) {
	var assoc CompanyIndustry
	err := r.pool.QueryRow(ctx,
		`INSERT INTO comp_industries (comp_code, ind_code) VALUES ($1, $2)
		 RETURNING id, comp_code, ind_code`, compCode, indCode).
		Scan(&assoc.ID, &assoc.CompCode, &assoc.IndCode)
	if err != nil {
		return CompanyIndustry{}, err
	}
	return assoc, nil
}

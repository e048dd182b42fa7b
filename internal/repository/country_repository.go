package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unipath/catalog/internal/errs"
	"github.com/unipath/catalog/internal/model"
	"github.com/unipath/catalog/internal/repository/base"
)

var countrySpec = Spec{
	Table:       "countries",
	Columns:     []string{"id", "name", "code"},
	OrderColumn: "name",
}

type CountryRepository struct {
	*base.Repository
}

func NewCountryRepository(pool *pgxpool.Pool) *CountryRepository {
	return &CountryRepository{base.NewRepository(pool)}
}

func scanCountry(rows pgx.Rows) (model.Country, error) {
	var c model.Country
	err := rows.Scan(&c.ID, &c.Name, &c.Code)
	return c, err
}

// List returns all countries in natural order.
func (r *CountryRepository) List(ctx context.Context) ([]model.Country, error) {
	query, args := countrySpec.Build("", nil, "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("list countries", err)
	}
	defer rows.Close()

	var countries []model.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, errs.Store("scan country", err)
		}
		countries = append(countries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate countries", err)
	}

	return countries, nil
}

// GetByID fetches one country.
func (r *CountryRepository) GetByID(ctx context.Context, id int64) (*model.Country, error) {
	query, args := countrySpec.Build("", []Cond{{Column: "id", Value: id}}, "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("get country", err)
	}

	c, err := base.CollectExactlyOne(rows, scanCountry)
	if err != nil {
		switch {
		case base.IsNotFound(err):
			return nil, errs.ErrNotFound
		case base.IsTooManyRows(err):
			return nil, errs.ErrAmbiguousResult
		}
		return nil, errs.Store("get country", err)
	}

	return &c, nil
}

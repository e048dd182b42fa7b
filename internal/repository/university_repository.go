package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unipath/catalog/internal/errs"
	"github.com/unipath/catalog/internal/model"
	"github.com/unipath/catalog/internal/repository/base"
)

// The university read shape always embeds the country; the UI never
// shows a university without it.
var universitySpec = Spec{
	Table: "universities u",
	Columns: []string{
		"u.id", "u.name", "u.city", "u.state", "u.country_id",
		"c.id", "c.name", "c.code",
	},
	Join:         "JOIN countries c ON c.id = u.country_id",
	SearchFields: []string{"u.name", "u.city", "u.state"},
	OrderColumn:  "u.name",
}

type UniversityRepository struct {
	*base.Repository
}

func NewUniversityRepository(pool *pgxpool.Pool) *UniversityRepository {
	return &UniversityRepository{base.NewRepository(pool)}
}

func scanUniversity(rows pgx.Rows) (model.University, error) {
	var (
		u model.University
		c model.Country
	)
	err := rows.Scan(
		&u.ID, &u.Name, &u.City, &u.State, &u.CountryID,
		&c.ID, &c.Name, &c.Code,
	)
	if err != nil {
		return u, err
	}
	u.Country = &c
	return u, nil
}

func universityConds(f model.UniversityFilter) []Cond {
	return []Cond{
		{Column: "u.country_id", Value: f.CountryID},
		{Column: "u.state", Value: f.State},
	}
}

// List returns universities matching the optional free-text term and
// structural filter, in natural order.
func (r *UniversityRepository) List(ctx context.Context, term string, f model.UniversityFilter) ([]model.University, error) {
	query, args := universitySpec.Build(term, universityConds(f), "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("list universities", err)
	}
	defer rows.Close()

	var universities []model.University
	for rows.Next() {
		u, err := scanUniversity(rows)
		if err != nil {
			return nil, errs.Store("scan university", err)
		}
		universities = append(universities, u)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate universities", err)
	}

	return universities, nil
}

// GetByID fetches one university with its country embedded.
func (r *UniversityRepository) GetByID(ctx context.Context, id int64) (*model.University, error) {
	query, args := universitySpec.Build("", []Cond{{Column: "u.id", Value: id}}, "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("get university", err)
	}

	u, err := base.CollectExactlyOne(rows, scanUniversity)
	if err != nil {
		switch {
		case base.IsNotFound(err):
			return nil, errs.ErrNotFound
		case base.IsTooManyRows(err):
			return nil, errs.ErrAmbiguousResult
		}
		return nil, errs.Store("get university", err)
	}

	return &u, nil
}

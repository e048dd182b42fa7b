package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unipath/catalog/internal/errs"
	"github.com/unipath/catalog/internal/model"
	"github.com/unipath/catalog/internal/repository/base"
)

var pathwaySpec = Spec{
	Table:       "pathways",
	Columns:     []string{"id", "name"},
	OrderColumn: "name",
}

type PathwayRepository struct {
	*base.Repository
}

func NewPathwayRepository(pool *pgxpool.Pool) *PathwayRepository {
	return &PathwayRepository{base.NewRepository(pool)}
}

// List returns all pathways in natural order.
func (r *PathwayRepository) List(ctx context.Context) ([]model.Pathway, error) {
	query, args := pathwaySpec.Build("", nil, "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("list pathways", err)
	}
	defer rows.Close()

	var pathways []model.Pathway
	for rows.Next() {
		var p model.Pathway
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, errs.Store("scan pathway", err)
		}
		pathways = append(pathways, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate pathways", err)
	}

	return pathways, nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unipath/catalog/internal/errs"
	"github.com/unipath/catalog/internal/model"
	"github.com/unipath/catalog/internal/repository/base"
)

var counselorSpec = Spec{
	Table: "counselors",
	Columns: []string{
		"id", "full_name", "email", "is_available", "specializations",
		"hourly_rate", "currency", "average_rating", "created_at",
	},
	SearchFields: []string{"full_name"},
	OrderColumn:  "full_name",
}

type CounselorRepository struct {
	*base.Repository
}

func NewCounselorRepository(pool *pgxpool.Pool) *CounselorRepository {
	return &CounselorRepository{base.NewRepository(pool)}
}

func scanCounselor(rows pgx.Rows) (model.Counselor, error) {
	var c model.Counselor
	err := rows.Scan(
		&c.ID, &c.FullName, &c.Email, &c.IsAvailable, &c.Specializations,
		&c.HourlyRate, &c.Currency, &c.AverageRating, &c.CreatedAt,
	)
	return c, err
}

// ListAvailable returns counselors visible in listings.
func (r *CounselorRepository) ListAvailable(ctx context.Context) ([]model.Counselor, error) {
	query, args := counselorSpec.Build("", []Cond{{Column: "is_available", Value: true}}, "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("list counselors", err)
	}
	defer rows.Close()

	var counselors []model.Counselor
	for rows.Next() {
		c, err := scanCounselor(rows)
		if err != nil {
			return nil, errs.Store("scan counselor", err)
		}
		counselors = append(counselors, c)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate counselors", err)
	}

	return counselors, nil
}

// GetByID fetches one counselor regardless of availability.
func (r *CounselorRepository) GetByID(ctx context.Context, id int64) (*model.Counselor, error) {
	query, args := counselorSpec.Build("", []Cond{{Column: "id", Value: id}}, "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("get counselor", err)
	}

	c, err := base.CollectExactlyOne(rows, scanCounselor)
	if err != nil {
		switch {
		case base.IsNotFound(err):
			return nil, errs.ErrNotFound
		case base.IsTooManyRows(err):
			return nil, errs.ErrAmbiguousResult
		}
		return nil, errs.Store("get counselor", err)
	}

	return &c, nil
}

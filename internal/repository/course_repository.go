package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unipath/catalog/internal/errs"
	"github.com/unipath/catalog/internal/model"
	"github.com/unipath/catalog/internal/repository/base"
)

// Courses embed university and country; search runs over the program
// name only.
var courseSpec = Spec{
	Table: "courses co",
	Columns: []string{
		"co.id", "co.program_name", "co.degree_level", "co.university_id",
		"u.id", "u.name", "u.city", "u.state", "u.country_id",
		"c.id", "c.name", "c.code",
	},
	Join: "JOIN universities u ON u.id = co.university_id " +
		"JOIN countries c ON c.id = u.country_id",
	SearchFields: []string{"co.program_name"},
	OrderColumn:  "co.program_name",
}

type CourseRepository struct {
	*base.Repository
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{base.NewRepository(pool)}
}

func scanCourse(rows pgx.Rows) (model.Course, error) {
	var (
		co model.Course
		u  model.University
		c  model.Country
	)
	err := rows.Scan(
		&co.ID, &co.ProgramName, &co.DegreeLevel, &co.UniversityID,
		&u.ID, &u.Name, &u.City, &u.State, &u.CountryID,
		&c.ID, &c.Name, &c.Code,
	)
	if err != nil {
		return co, err
	}
	u.Country = &c
	co.University = &u
	return co, nil
}

func courseConds(f model.CourseFilter) []Cond {
	return []Cond{
		{Column: "co.university_id", Value: f.UniversityID},
		{Column: "co.degree_level", Value: f.DegreeLevel},
	}
}

// List returns courses matching the optional free-text term and
// structural filter, in natural order.
func (r *CourseRepository) List(ctx context.Context, term string, f model.CourseFilter) ([]model.Course, error) {
	query, args := courseSpec.Build(term, courseConds(f), "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("list courses", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		co, err := scanCourse(rows)
		if err != nil {
			return nil, errs.Store("scan course", err)
		}
		courses = append(courses, co)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Store("iterate courses", err)
	}

	return courses, nil
}

// GetByID fetches one course with its university and country embedded.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query, args := courseSpec.Build("", []Cond{{Column: "co.id", Value: id}}, "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("get course", err)
	}

	co, err := base.CollectExactlyOne(rows, scanCourse)
	if err != nil {
		switch {
		case base.IsNotFound(err):
			return nil, errs.ErrNotFound
		case base.IsTooManyRows(err):
			return nil, errs.ErrAmbiguousResult
		}
		return nil, errs.Store("get course", err)
	}

	return &co, nil
}

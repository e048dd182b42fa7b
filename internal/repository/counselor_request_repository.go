package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unipath/catalog/internal/errs"
	"github.com/unipath/catalog/internal/model"
	"github.com/unipath/catalog/internal/repository/base"
)

// UniqueActiveRequestConstraint is the partial unique index enforcing
// one active request per student. A 23505 on it means a concurrent
// create won the race, not a transport problem.
const UniqueActiveRequestConstraint = "counselor_requests_one_active_per_student"

var requestSpec = Spec{
	Table: "counselor_requests",
	Columns: []string{
		"id", "student_id", "requested_counselor_id", "counselor_id",
		"status", "admin_notes", "requested_at", "approved_at", "updated_at",
	},
	OrderColumn: "requested_at",
}

// Administrative listings embed the requested counselor's summary.
var requestDetailSpec = Spec{
	Table: "counselor_requests r",
	Columns: []string{
		"r.id", "r.student_id", "r.requested_counselor_id", "r.counselor_id",
		"r.status", "r.admin_notes", "r.requested_at", "r.approved_at", "r.updated_at",
		"cs.id", "cs.full_name", "cs.email", "cs.is_available", "cs.specializations",
		"cs.hourly_rate", "cs.currency", "cs.average_rating", "cs.created_at",
	},
	Join:        "JOIN counselors cs ON cs.id = r.requested_counselor_id",
	OrderColumn: "r.requested_at",
}

type CounselorRequestRepository struct {
	*base.Repository
}

func NewCounselorRequestRepository(pool *pgxpool.Pool) *CounselorRequestRepository {
	return &CounselorRequestRepository{base.NewRepository(pool)}
}

func scanRequest(rows pgx.Rows) (model.CounselorRequest, error) {
	var req model.CounselorRequest
	err := rows.Scan(
		&req.ID, &req.StudentID, &req.RequestedCounselorID, &req.CounselorID,
		&req.Status, &req.AdminNotes, &req.RequestedAt, &req.ApprovedAt, &req.UpdatedAt,
	)
	return req, err
}

func scanRequestDetail(rows pgx.Rows) (model.CounselorRequest, error) {
	var (
		req model.CounselorRequest
		cs  model.Counselor
	)
	err := rows.Scan(
		&req.ID, &req.StudentID, &req.RequestedCounselorID, &req.CounselorID,
		&req.Status, &req.AdminNotes, &req.RequestedAt, &req.ApprovedAt, &req.UpdatedAt,
		&cs.ID, &cs.FullName, &cs.Email, &cs.IsAvailable, &cs.Specializations,
		&cs.HourlyRate, &cs.Currency, &cs.AverageRating, &cs.CreatedAt,
	)
	if err != nil {
		return req, err
	}
	req.Counselor = &cs
	return req, nil
}

func (r *CounselorRequestRepository) collect(ctx context.Context, op, query string, args []any, scan func(pgx.Rows) (model.CounselorRequest, error)) ([]model.CounselorRequest, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store(op, err)
	}
	defer rows.Close()

	var requests []model.CounselorRequest
	for rows.Next() {
		req, err := scan(rows)
		if err != nil {
			return nil, errs.Store(op, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Store(op, err)
	}

	return requests, nil
}

// Create inserts a new request with status=requested. The partial
// unique index makes the duplicate check atomic: if a concurrent create
// for the same student already inserted an active request, the insert
// fails and the caller gets ErrDuplicateRequest instead of a second row.
func (r *CounselorRequestRepository) Create(ctx context.Context, req *model.CounselorRequest) error {
	query := `
		INSERT INTO counselor_requests (student_id, requested_counselor_id, status, admin_notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, requested_at
	`

	err := r.QueryRow(
		ctx, query,
		req.StudentID,
		req.RequestedCounselorID,
		req.Status,
		req.AdminNotes,
	).Scan(&req.ID, &req.RequestedAt)

	if err != nil {
		if base.IsUniqueViolation(err, UniqueActiveRequestConstraint) {
			return errs.ErrDuplicateRequest
		}
		return errs.Store("create counselor request", err)
	}

	return nil
}

// GetByID fetches one request.
func (r *CounselorRequestRepository) GetByID(ctx context.Context, id int64) (*model.CounselorRequest, error) {
	query, args := requestSpec.Build("", []Cond{{Column: "id", Value: id}}, "", "")

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.Store("get counselor request", err)
	}

	req, err := base.CollectExactlyOne(rows, scanRequest)
	if err != nil {
		switch {
		case base.IsNotFound(err):
			return nil, errs.ErrNotFound
		case base.IsTooManyRows(err):
			return nil, errs.ErrAmbiguousResult
		}
		return nil, errs.Store("get counselor request", err)
	}

	return &req, nil
}

// HasActiveRequest checks whether the student already has an
// unresolved request. Callers must not trust this alone for create;
// the unique index is what closes the race.
func (r *CounselorRequestRepository) HasActiveRequest(ctx context.Context, studentID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM counselor_requests
			WHERE student_id = $1 AND status = $2
		)
	`

	var exists bool
	err := r.QueryRow(ctx, query, studentID, model.RequestStatusRequested).Scan(&exists)
	if err != nil {
		return false, errs.Store("check active request", err)
	}

	return exists, nil
}

// ListByStudent returns the student's requests, newest first.
func (r *CounselorRequestRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.CounselorRequest, error) {
	query, args := requestSpec.Build("", []Cond{{Column: "student_id", Value: studentID}}, "", OrderDesc)
	return r.collect(ctx, "list student requests", query, args, scanRequest)
}

// ListByCounselor returns requests addressed to the counselor, newest first.
func (r *CounselorRequestRepository) ListByCounselor(ctx context.Context, counselorID int64) ([]model.CounselorRequest, error) {
	query, args := requestSpec.Build("", []Cond{{Column: "requested_counselor_id", Value: counselorID}}, "", OrderDesc)
	return r.collect(ctx, "list counselor requests", query, args, scanRequest)
}

// ListAll returns all requests with counselor summaries embedded,
// optionally narrowed by status, newest first.
func (r *CounselorRequestRepository) ListAll(ctx context.Context, f model.RequestFilter) ([]model.CounselorRequest, error) {
	query, args := requestDetailSpec.Build("", []Cond{{Column: "r.status", Value: f.Status}}, "", OrderDesc)
	return r.collect(ctx, "list all requests", query, args, scanRequestDetail)
}

// ListActiveForCounselor returns the counselor's approved requests,
// most recently approved first. This is the counselor's caseload.
func (r *CounselorRequestRepository) ListActiveForCounselor(ctx context.Context, counselorID int64) ([]model.CounselorRequest, error) {
	conds := []Cond{
		{Column: "counselor_id", Value: counselorID},
		{Column: "status", Value: model.RequestStatusApproved},
	}
	query, args := requestSpec.Build("", conds, "approved_at", OrderDesc)
	return r.collect(ctx, "list active students", query, args, scanRequest)
}

// UpdateStatus resolves a request. approved transitions also record the
// assigned counselor and the approval time; updated_at always moves
// forward. Returns the row as stored.
func (r *CounselorRequestRepository) UpdateStatus(ctx context.Context, id int64, status, adminNotes string, counselorID *int64, approvedAt *time.Time) (*model.CounselorRequest, error) {
	query := `
		UPDATE counselor_requests
		SET status = $1, admin_notes = $2, counselor_id = $3, approved_at = $4, updated_at = now()
		WHERE id = $5
		RETURNING id, student_id, requested_counselor_id, counselor_id,
		          status, admin_notes, requested_at, approved_at, updated_at
	`

	var req model.CounselorRequest
	err := r.QueryRow(ctx, query, status, adminNotes, counselorID, approvedAt, id).Scan(
		&req.ID, &req.StudentID, &req.RequestedCounselorID, &req.CounselorID,
		&req.Status, &req.AdminNotes, &req.RequestedAt, &req.ApprovedAt, &req.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Store("update request status", err)
	}

	return &req, nil
}

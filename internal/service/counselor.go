package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unipath/catalog/internal/errs"
	"github.com/unipath/catalog/internal/model"
)

type CounselorReader interface {
	ListAvailable(ctx context.Context) ([]model.Counselor, error)
	GetByID(ctx context.Context, id int64) (*model.Counselor, error)
}

type CounselorRequestStore interface {
	Create(ctx context.Context, req *model.CounselorRequest) error
	GetByID(ctx context.Context, id int64) (*model.CounselorRequest, error)
	HasActiveRequest(ctx context.Context, studentID uuid.UUID) (bool, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.CounselorRequest, error)
	ListByCounselor(ctx context.Context, counselorID int64) ([]model.CounselorRequest, error)
	ListAll(ctx context.Context, f model.RequestFilter) ([]model.CounselorRequest, error)
	ListActiveForCounselor(ctx context.Context, counselorID int64) ([]model.CounselorRequest, error)
	UpdateStatus(ctx context.Context, id int64, status, adminNotes string, counselorID *int64, approvedAt *time.Time) (*model.CounselorRequest, error)
}

// CounselorService owns the counselor-request lifecycle:
// requested → approved | declined, with both outcomes terminal.
type CounselorService struct {
	counselorRepo CounselorReader
	requestRepo   CounselorRequestStore
	logger        *zap.Logger
}

func NewCounselorService(
	counselorRepo CounselorReader,
	requestRepo CounselorRequestStore,
	logger *zap.Logger,
) *CounselorService {
	return &CounselorService{
		counselorRepo: counselorRepo,
		requestRepo:   requestRepo,
		logger:        logger,
	}
}

// ListCounselors returns counselors visible for matching.
func (s *CounselorService) ListCounselors(ctx context.Context) ([]model.Counselor, error) {
	return s.counselorRepo.ListAvailable(ctx)
}

// GetCounselor fetches one counselor.
func (s *CounselorService) GetCounselor(ctx context.Context, id int64) (*model.Counselor, error) {
	return s.counselorRepo.GetByID(ctx, id)
}

// CreateRequest files a new request on behalf of the acting student.
// A student can have at most one active request; the pre-check catches
// the common case and the store's unique index closes the race between
// two concurrent creates.
func (s *CounselorService) CreateRequest(ctx context.Context, actor model.Actor, requestedCounselorID int64, notes string) (*model.CounselorRequest, error) {
	if actor.UserID == uuid.Nil {
		return nil, errs.Validation("missing student identity")
	}

	counselor, err := s.counselorRepo.GetByID(ctx, requestedCounselorID)
	if err != nil {
		return nil, err
	}
	if !counselor.IsAvailable {
		return nil, errs.Validation("counselor %d is not accepting requests", requestedCounselorID)
	}

	hasActive, err := s.requestRepo.HasActiveRequest(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, errs.ErrDuplicateRequest
	}

	request := &model.CounselorRequest{
		StudentID:            actor.UserID,
		RequestedCounselorID: requestedCounselorID,
		Status:               model.RequestStatusRequested,
		AdminNotes:           notes,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("counselor request created",
		zap.Int64("request_id", request.ID),
		zap.String("student_id", actor.UserID.String()),
		zap.Int64("counselor_id", requestedCounselorID),
	)

	return request, nil
}

// ListRequestsForStudent returns the student's request history, newest first.
func (s *CounselorService) ListRequestsForStudent(ctx context.Context, studentID uuid.UUID) ([]model.CounselorRequest, error) {
	return s.requestRepo.ListByStudent(ctx, studentID)
}

// ListRequestsForCounselor returns requests addressed to the counselor,
// newest first.
func (s *CounselorService) ListRequestsForCounselor(ctx context.Context, counselorID int64) ([]model.CounselorRequest, error) {
	return s.requestRepo.ListByCounselor(ctx, counselorID)
}

// ListAllRequests is the administrative view with counselor summaries.
func (s *CounselorService) ListAllRequests(ctx context.Context, actor model.Actor, f model.RequestFilter) ([]model.CounselorRequest, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	switch f.Status {
	case "", model.RequestStatusRequested, model.RequestStatusApproved, model.RequestStatusDeclined:
	default:
		return nil, errs.Validation("unknown status %q", f.Status)
	}

	return s.requestRepo.ListAll(ctx, f)
}

// UpdateStatus resolves a request. Only administrators may call it,
// only approved/declined are accepted targets, and terminal states are
// rejected before any write is attempted.
func (s *CounselorService) UpdateStatus(ctx context.Context, actor model.Actor, requestID int64, newStatus, adminNotes string) (*model.CounselorRequest, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	if newStatus != model.RequestStatusApproved && newStatus != model.RequestStatusDeclined {
		return nil, errs.Validation("status must be %q or %q, got %q",
			model.RequestStatusApproved, model.RequestStatusDeclined, newStatus)
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.CanTransitionTo(newStatus) {
		return nil, errs.ErrInvalidTransition
	}

	var (
		counselorID *int64
		approvedAt  *time.Time
	)
	if newStatus == model.RequestStatusApproved {
		id := request.RequestedCounselorID
		now := time.Now()
		counselorID = &id
		approvedAt = &now
	}

	updated, err := s.requestRepo.UpdateStatus(ctx, requestID, newStatus, adminNotes, counselorID, approvedAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("counselor request resolved",
		zap.Int64("request_id", requestID),
		zap.String("status", newStatus),
		zap.String("admin_id", actor.UserID.String()),
	)

	return updated, nil
}

// ListActiveStudentsForCounselor returns the counselor's caseload:
// approved requests, most recently approved first.
func (s *CounselorService) ListActiveStudentsForCounselor(ctx context.Context, counselorID int64) ([]model.CounselorRequest, error) {
	return s.requestRepo.ListActiveForCounselor(ctx, counselorID)
}

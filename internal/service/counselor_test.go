package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unipath/catalog/internal/errs"
	"github.com/unipath/catalog/internal/model"
)

func newCounselorFixture() (*CounselorService, *fakeRequestRepo) {
	counselors := &fakeCounselorRepo{counselors: map[int64]model.Counselor{
		1: {ID: 1, FullName: "Priya Raman", Email: "priya@unipath.example", IsAvailable: true},
		2: {ID: 2, FullName: "Mei Lin", Email: "mei@unipath.example", IsAvailable: false},
	}}
	requests := newFakeRequestRepo()
	svc := NewCounselorService(counselors, requests, zap.NewNop())
	return svc, requests
}

func student() model.Actor {
	return model.Actor{UserID: uuid.New(), Role: model.RoleStudent}
}

func admin() model.Actor {
	return model.Actor{UserID: uuid.New(), Role: model.RoleAdministrator}
}

func TestCreateRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newCounselorFixture()

	req, err := svc.CreateRequest(ctx, student(), 1, "prefers UK universities")
	require.NoError(t, err)
	require.NotZero(t, req.ID)
	require.Equal(t, model.RequestStatusRequested, req.Status)
	require.False(t, req.RequestedAt.IsZero())
	require.Nil(t, req.ApprovedAt)
}

func TestCreateRequestValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newCounselorFixture()

	_, err := svc.CreateRequest(ctx, student(), 99, "")
	require.ErrorIs(t, err, errs.ErrNotFound, "unknown counselor")

	_, err = svc.CreateRequest(ctx, student(), 2, "")
	require.ErrorIs(t, err, errs.ErrValidation, "unavailable counselor")

	_, err = svc.CreateRequest(ctx, model.Actor{Role: model.RoleStudent}, 1, "")
	require.ErrorIs(t, err, errs.ErrValidation, "missing identity")
}

func TestCreateRequestRejectsSecondActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newCounselorFixture()
	actor := student()

	_, err := svc.CreateRequest(ctx, actor, 1, "")
	require.NoError(t, err)

	_, err = svc.CreateRequest(ctx, actor, 1, "")
	require.ErrorIs(t, err, errs.ErrDuplicateRequest)
}

func TestCreateRequestConcurrentDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, requests := newCounselorFixture()
	actor := student()

	// both callers pass the pre-check; the store-level uniqueness
	// decides the race and exactly one insert lands
	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.CreateRequest(ctx, actor, 1, "")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, errs.ErrDuplicateRequest):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, dup)

	stored, err := requests.ListByStudent(ctx, actor.UserID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, model.RequestStatusRequested, stored[0].Status)
}

func TestCreateRequestAllowedAfterResolution(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newCounselorFixture()
	actor := student()

	req, err := svc.CreateRequest(ctx, actor, 1, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin(), req.ID, model.RequestStatusDeclined, "no capacity")
	require.NoError(t, err)

	// a declined request no longer blocks a new one
	_, err = svc.CreateRequest(ctx, actor, 1, "second attempt")
	require.NoError(t, err)
}

func TestUpdateStatusApprove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newCounselorFixture()

	req, err := svc.CreateRequest(ctx, student(), 1, "")
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, admin(), req.ID, model.RequestStatusApproved, "matched")
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusApproved, updated.Status)
	require.NotNil(t, updated.ApprovedAt)
	require.NotNil(t, updated.UpdatedAt)
	require.NotNil(t, updated.CounselorID)
	require.Equal(t, int64(1), *updated.CounselorID)
}

func TestUpdateStatusTerminalIsFinal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, requests := newCounselorFixture()

	req, err := svc.CreateRequest(ctx, student(), 1, "")
	require.NoError(t, err)

	approved, err := svc.UpdateStatus(ctx, admin(), req.ID, model.RequestStatusApproved, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin(), req.ID, model.RequestStatusDeclined, "")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	// the record is untouched by the rejected transition
	stored, err := requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusApproved, stored.Status)
	require.Equal(t, approved.ApprovedAt, stored.ApprovedAt)
}

func TestUpdateStatusValidatesTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newCounselorFixture()

	req, err := svc.CreateRequest(ctx, student(), 1, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin(), req.ID, model.RequestStatusRequested, "")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.UpdateStatus(ctx, admin(), req.ID, "cancelled", "")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.UpdateStatus(ctx, admin(), 404, model.RequestStatusApproved, "")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAdministrativeOperationsRequireAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newCounselorFixture()
	actor := student()

	req, err := svc.CreateRequest(ctx, actor, 1, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, actor, req.ID, model.RequestStatusApproved, "")
	require.ErrorIs(t, err, errs.ErrForbidden)

	_, err = svc.ListAllRequests(ctx, actor, model.RequestFilter{})
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestListAllRequestsFiltersByStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newCounselorFixture()

	first, err := svc.CreateRequest(ctx, student(), 1, "")
	require.NoError(t, err)
	_, err = svc.CreateRequest(ctx, student(), 1, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin(), first.ID, model.RequestStatusApproved, "")
	require.NoError(t, err)

	all, err := svc.ListAllRequests(ctx, admin(), model.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	approved, err := svc.ListAllRequests(ctx, admin(), model.RequestFilter{Status: model.RequestStatusApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	require.Equal(t, first.ID, approved[0].ID)

	_, err = svc.ListAllRequests(ctx, admin(), model.RequestFilter{Status: "bogus"})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestListActiveStudentsForCounselor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newCounselorFixture()

	approvedReq, err := svc.CreateRequest(ctx, student(), 1, "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, admin(), approvedReq.ID, model.RequestStatusApproved, "")
	require.NoError(t, err)

	pendingReq, err := svc.CreateRequest(ctx, student(), 1, "")
	require.NoError(t, err)

	caseload, err := svc.ListActiveStudentsForCounselor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, caseload, 1)
	require.Equal(t, approvedReq.ID, caseload[0].ID)
	require.NotEqual(t, pendingReq.ID, caseload[0].ID)
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unipath/catalog/internal/errs"
	"github.com/unipath/catalog/internal/model"
)

// In-memory stand-ins for the pgx repositories. They enforce the same
// contracts the store does (ordering, the one-active-request index) so
// the services can be exercised without Postgres.

type fakeCountryRepo struct {
	mu        sync.Mutex
	calls     int
	countries []model.Country
	err       error
}

func (f *fakeCountryRepo) List(ctx context.Context) ([]model.Country, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.countries, nil
}

func (f *fakeCountryRepo) GetByID(ctx context.Context, id int64) (*model.Country, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.countries {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

type fakeUniversityRepo struct {
	mu           sync.Mutex
	universities []model.University
	err          error
	lastTerm     string
	lastFilter   model.UniversityFilter
}

func (f *fakeUniversityRepo) List(ctx context.Context, term string, filter model.UniversityFilter) ([]model.University, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTerm = term
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.universities, nil
}

func (f *fakeUniversityRepo) GetByID(ctx context.Context, id int64) (*model.University, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.universities {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses []model.Course
	err     error
}

func (f *fakeCourseRepo) List(ctx context.Context, term string, filter model.CourseFilter) ([]model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.courses, nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.courses {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

type fakePathwayRepo struct {
	mu       sync.Mutex
	calls    int
	pathways []model.Pathway
	err      error
}

func (f *fakePathwayRepo) List(ctx context.Context) ([]model.Pathway, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pathways, nil
}

type fakeCounselorRepo struct {
	counselors map[int64]model.Counselor
}

func (f *fakeCounselorRepo) ListAvailable(ctx context.Context) ([]model.Counselor, error) {
	var out []model.Counselor
	for _, c := range f.counselors {
		if c.IsAvailable {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeCounselorRepo) GetByID(ctx context.Context, id int64) (*model.Counselor, error) {
	c, ok := f.counselors[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &c, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*model.CounselorRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[int64]*model.CounselorRequest)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *model.CounselorRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// the partial unique index: one active request per student
	for _, existing := range f.requests {
		if existing.StudentID == req.StudentID && existing.IsActive() {
			return errs.ErrDuplicateRequest
		}
	}

	f.nextID++
	req.ID = f.nextID
	req.RequestedAt = time.Now()
	stored := *req
	f.requests[req.ID] = &stored
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id int64) (*model.CounselorRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRequestRepo) HasActiveRequest(ctx context.Context, studentID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if req.StudentID == studentID && req.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) list(match func(*model.CounselorRequest) bool, less func(a, b *model.CounselorRequest) bool) []model.CounselorRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.CounselorRequest
	for _, req := range f.requests {
		if match(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	result := make([]model.CounselorRequest, len(out))
	for i, req := range out {
		result[i] = *req
	}
	return result
}

func byRequestedAtDesc(a, b *model.CounselorRequest) bool {
	return a.RequestedAt.After(b.RequestedAt)
}

func (f *fakeRequestRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.CounselorRequest, error) {
	return f.list(func(r *model.CounselorRequest) bool { return r.StudentID == studentID }, byRequestedAtDesc), nil
}

func (f *fakeRequestRepo) ListByCounselor(ctx context.Context, counselorID int64) ([]model.CounselorRequest, error) {
	return f.list(func(r *model.CounselorRequest) bool { return r.RequestedCounselorID == counselorID }, byRequestedAtDesc), nil
}

func (f *fakeRequestRepo) ListAll(ctx context.Context, filter model.RequestFilter) ([]model.CounselorRequest, error) {
	return f.list(func(r *model.CounselorRequest) bool {
		return filter.Status == "" || r.Status == filter.Status
	}, byRequestedAtDesc), nil
}

func (f *fakeRequestRepo) ListActiveForCounselor(ctx context.Context, counselorID int64) ([]model.CounselorRequest, error) {
	return f.list(func(r *model.CounselorRequest) bool {
		return r.CounselorID != nil && *r.CounselorID == counselorID && r.Status == model.RequestStatusApproved
	}, func(a, b *model.CounselorRequest) bool {
		return a.ApprovedAt != nil && b.ApprovedAt != nil && a.ApprovedAt.After(*b.ApprovedAt)
	}), nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id int64, status, adminNotes string, counselorID *int64, approvedAt *time.Time) (*model.CounselorRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	now := time.Now()
	req.Status = status
	req.AdminNotes = adminNotes
	req.CounselorID = counselorID
	req.ApprovedAt = approvedAt
	req.UpdatedAt = &now
	copied := *req
	return &copied, nil
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// CounselorRequest represents a student's request to be matched with a
// counselor. Requests are never deleted; resolved ones stay for history.
type CounselorRequest struct {
	ID                   int64      `json:"id"`
	StudentID            uuid.UUID  `json:"student_id"`
	RequestedCounselorID int64      `json:"requested_counselor_id"`
	CounselorID          *int64     `json:"counselor_id"` // assigned on approval
	Status               string     `json:"status"`       // 'requested', 'approved', 'declined'
	AdminNotes           string     `json:"admin_notes"`
	RequestedAt          time.Time  `json:"requested_at"`
	ApprovedAt           *time.Time `json:"approved_at"`
	UpdatedAt            *time.Time `json:"updated_at"`

	// Counselor is populated only by the joined read shape (admin listing)
	Counselor *Counselor `json:"counselor,omitempty"`
}

// Request status constants
const (
	RequestStatusRequested = "requested"
	RequestStatusApproved  = "approved"
	RequestStatusDeclined  = "declined"
)

// IsActive checks if the request is still unresolved.
func (r *CounselorRequest) IsActive() bool {
	return r.Status == RequestStatusRequested
}

// IsTerminal checks if the request reached a final state.
func (r *CounselorRequest) IsTerminal() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusDeclined
}

// CanTransitionTo reports whether the status machine allows moving to
// next. Only requested→approved and requested→declined are legal;
// approved and declined are terminal.
func (r *CounselorRequest) CanTransitionTo(next string) bool {
	if r.Status != RequestStatusRequested {
		return false
	}
	return next == RequestStatusApproved || next == RequestStatusDeclined
}

// RequestFilter narrows administrative request listings.
// Zero values mean "no constraint".
type RequestFilter struct {
	Status string
}

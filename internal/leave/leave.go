// Package leave handles leave requests and their single review step.
package leave

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Azure/go-autorest/autorest/date"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"mentorship/internal/apiclient"
	"mentorship/internal/attendance"
	"mentorship/internal/logger"
	"mentorship/internal/validate"
)

// Status of a request. A request leaves Pending exactly once.
type Status int

const (
	Pending Status = iota
	Approved
	Rejected
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Approved:
		return "Approved"
	case Rejected:
		return "Rejected"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool { return s != Pending }

// Type of leave.
type Type string

const (
	Sick      Type = "Sick"
	Casual    Type = "Casual"
	Emergency Type = "Emergency"
	Vacation  Type = "Vacation"
	Other     Type = "Other"
)

// Request is a leave request as the API returns it. Date keeps the wire form; use Day for the
// calendar day.
type Request struct {
	ID            int    `json:"id"`
	UserID        int    `json:"userId" validate:"gt=0"`
	FullName      string `json:"fullName,omitempty"`
	Date          string `json:"date" validate:"required"`
	LeaveType     Type   `json:"leaveType" validate:"required,oneof=Sick Casual Emergency Vacation Other"`
	Reason        string `json:"reason" validate:"required"`
	ProofImageURL string `json:"proofImageUrl,omitempty"`
	Status        Status `json:"status"`
	CreatedAt     string `json:"createdAt,omitempty"`
	ReviewerNotes string `json:"reviewerNotes,omitempty"`
}

// Day is the requested calendar day, false when the API sent an unreadable date.
func (r Request) Day() (date.Date, bool) {
	d, err := attendance.ParseWireDate(r.Date)
	return d, err == nil
}

// ReviewPayload is the body of POST /LeaveRequest/review.
type ReviewPayload struct {
	RequestID int    `json:"requestId" validate:"gt=0"`
	Approve   bool   `json:"approve"`
	Notes     string `json:"notes"`
}

// Repository is the HTTP-backed leave store.
type Repository struct {
	api *apiclient.Client
	log zerolog.Logger
}

func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api, log: logger.Get().With().Str("component", "leave").Logger()}
}

// List returns the requests visible to the session.
func (r *Repository) List(ctx context.Context) ([]Request, error) {
	out, err := apiclient.List[Request](ctx, r.api, "/LeaveRequest", nil)
	return out, pkgerrors.Wrap(err, "list leave requests")
}

// Pending returns every pending request (admin).
func (r *Repository) Pending(ctx context.Context) ([]Request, error) {
	out, err := apiclient.List[Request](ctx, r.api, "/LeaveRequest/pending", nil)
	return out, pkgerrors.Wrap(err, "list pending leave")
}

// MentorPending returns the pending requests of the calling mentor's mentees.
func (r *Repository) MentorPending(ctx context.Context) ([]Request, error) {
	out, err := apiclient.List[Request](ctx, r.api, "/LeaveRequest/mentor/pending", nil)
	return out, pkgerrors.Wrap(err, "list mentee pending leave")
}

// Create files a new request. The date is normalized to YYYY-MM-DD before sending.
func (r *Repository) Create(ctx context.Context, req Request) (Request, error) {
	if d, ok := req.Day(); ok {
		req.Date = d.String()
	}
	req.Status = Pending
	if err := validate.Struct(req); err != nil {
		return Request{}, err
	}
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: http.MethodPost, Path: "/LeaveRequest", Body: req}, req,
		func(s Request) bool { return s.ID != 0 })
	if err != nil {
		return Request{}, pkgerrors.Wrap(err, "create leave request")
	}
	r.log.Info().Int("request_id", saved.ID).Int("user_id", saved.UserID).Msg("leave requested")
	return saved, nil
}

// Review approves or rejects a pending request. The API answers 409 when the request is no
// longer pending.
func (r *Repository) Review(ctx context.Context, id int, approve bool, notes string) error {
	p := ReviewPayload{RequestID: id, Approve: approve, Notes: notes}
	if err := validate.Struct(p); err != nil {
		return err
	}
	if err := r.api.Exec(ctx, apiclient.Request{Method: http.MethodPost, Path: "/LeaveRequest/review", Body: p}); err != nil {
		return pkgerrors.Wrapf(err, "review leave request %d", id)
	}
	r.log.Info().Int("request_id", id).Bool("approve", approve).Msg("leave reviewed")
	return nil
}

// Cancel withdraws the caller's own pending request.
func (r *Repository) Cancel(ctx context.Context, id int) error {
	err := r.api.Exec(ctx, apiclient.Request{Method: http.MethodPost, Path: "/LeaveRequest/" + strconv.Itoa(id) + "/cancel"})
	return pkgerrors.Wrapf(err, "cancel leave request %d", id)
}

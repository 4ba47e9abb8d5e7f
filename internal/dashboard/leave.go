package dashboard

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"mentorship/internal/daterange"
	"mentorship/internal/leave"
	"mentorship/internal/people"
)

// LeaveDesk is the leave screen. Admins and mentors see the requests waiting for their review;
// users see their own requests.
type LeaveDesk struct {
	viewer Viewer
	repo   *leave.Repository
	loc    *time.Location
	clock  Clock

	mu       sync.RWMutex
	requests []leave.Request
	sel      daterange.Selection
	err      error
}

func NewLeaveDesk(v Viewer, repo *leave.Repository, loc *time.Location, clock Clock) *LeaveDesk {
	if loc == nil {
		loc = time.Local
	}
	return &LeaveDesk{viewer: v, repo: repo, loc: loc, clock: clock, sel: daterange.Selection{Key: daterange.All}}
}

// Load fetches the requests for the viewer's role. On failure the previous list is kept.
func (d *LeaveDesk) Load(ctx context.Context) error {
	var (
		list []leave.Request
		err  error
	)
	switch d.viewer.Role {
	case people.Admin:
		list, err = d.repo.Pending(ctx)
	case people.Mentor:
		list, err = d.repo.MentorPending(ctx)
	default:
		list, err = d.repo.List(ctx)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
	if err == nil {
		d.requests = list
	}
	return err
}

func (d *LeaveDesk) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

func (d *LeaveDesk) SetRange(sel daterange.Selection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sel = sel
}

// Requests returns the loaded requests whose leave day is in the selected range.
func (d *LeaveDesk) Requests() []leave.Request {
	d.mu.RLock()
	list, sel := d.requests, d.sel
	d.mu.RUnlock()
	return daterange.Filter(list, leave.Request.Day, sel, d.clock.now(d.loc))
}

// Approve accepts a request and reloads. The API records the day as excused.
func (d *LeaveDesk) Approve(ctx context.Context, id int, notes string) error {
	return d.review(ctx, id, true, notes)
}

// Reject declines a request and reloads.
func (d *LeaveDesk) Reject(ctx context.Context, id int, notes string) error {
	return d.review(ctx, id, false, notes)
}

func (d *LeaveDesk) review(ctx context.Context, id int, approve bool, notes string) error {
	if err := d.repo.Review(ctx, id, approve, notes); err != nil {
		return err
	}
	return pkgerrors.Wrap(d.Load(ctx), "reload leave requests")
}

// Request files a leave request for the viewer and reloads.
func (d *LeaveDesk) Request(ctx context.Context, req leave.Request) (leave.Request, error) {
	if req.UserID == 0 {
		req.UserID = d.viewer.UserID
	}
	saved, err := d.repo.Create(ctx, req)
	if err != nil {
		return saved, err
	}
	return saved, pkgerrors.Wrap(d.Load(ctx), "reload leave requests")
}

// Cancel withdraws one of the viewer's pending requests and reloads.
func (d *LeaveDesk) Cancel(ctx context.Context, id int) error {
	if err := d.repo.Cancel(ctx, id); err != nil {
		return err
	}
	return pkgerrors.Wrap(d.Load(ctx), "reload leave requests")
}

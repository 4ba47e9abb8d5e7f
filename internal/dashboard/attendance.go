// Package dashboard holds one view-model per screen. Each is built when the screen opens, owns
// its own fetched snapshot and is dropped when the screen closes; nothing is shared between them.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"mentorship/internal/apierr"
	"mentorship/internal/attendance"
	"mentorship/internal/auth"
	"mentorship/internal/crud"
	"mentorship/internal/daterange"
	"mentorship/internal/people"
	"mentorship/internal/report"
)

// Viewer is who a screen is rendered for.
type Viewer struct {
	UserID int
	Role   people.Role
}

// ViewerFrom reads the viewer from session claims.
func ViewerFrom(c auth.Claims) Viewer {
	role, ok := people.ParseRole(c.Role)
	if !ok {
		role = people.User
	}
	return Viewer{UserID: c.UserID, Role: role}
}

// Clock supplies "now" for range filters.
type Clock func() time.Time

func (c Clock) now(loc *time.Location) time.Time {
	if c == nil {
		return time.Now().In(loc)
	}
	return c().In(loc)
}

// AttendanceBoard is the attendance screen: the visible records narrowed by a date range, their
// status summary and ring chart, and per-person breakdowns.
type AttendanceBoard struct {
	viewer  Viewer
	records *crud.Collection[attendance.Record, attendance.Key]
	people  *people.Repository
	loc     *time.Location
	clock   Clock

	mu        sync.RWMutex
	sel       daterange.Selection
	persons   []people.Person
	peopleErr error
}

// NewAttendanceBoard builds the screen. loc decides which calendar day "today" is; clock may be nil.
func NewAttendanceBoard(v Viewer, att *attendance.Repository, ppl *people.Repository, loc *time.Location, clock Clock) *AttendanceBoard {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceBoard{
		viewer:  v,
		records: crud.New[attendance.Record, attendance.Key]("attendance", att),
		people:  ppl,
		loc:     loc,
		clock:   clock,
		sel:     daterange.Selection{Key: daterange.All},
	}
}

// Load fetches records and the people the viewer may see, concurrently.
func (b *AttendanceBoard) Load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.records.Reload(gctx) })
	g.Go(func() error { return b.loadPeople(gctx) })
	return g.Wait()
}

// Retry is Load under the name the screen's retry action uses.
func (b *AttendanceBoard) Retry(ctx context.Context) error { return b.Load(ctx) }

func (b *AttendanceBoard) loadPeople(ctx context.Context) error {
	var (
		list []people.Person
		err  error
	)
	switch b.viewer.Role {
	case people.Admin:
		list, err = b.people.List(ctx)
	case people.Mentor:
		list, err = b.people.Mentees(ctx)
	default:
		var self people.Person
		self, err = b.people.Get(ctx, b.viewer.UserID)
		list = []people.Person{self}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.peopleErr = err
		return err
	}
	b.persons, b.peopleErr = list, nil
	return nil
}

// Err is the current load error, if any. The last good data stays visible while it is set.
func (b *AttendanceBoard) Err() error {
	if err := b.records.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.peopleErr
}

// SetRange changes the date range selection.
func (b *AttendanceBoard) SetRange(sel daterange.Selection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sel = sel
}

// Range is the current selection.
func (b *AttendanceBoard) Range() daterange.Selection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sel
}

// Visible returns the records in the selected range, in API order.
func (b *AttendanceBoard) Visible() []attendance.Record {
	return daterange.Filter(b.records.Items(), attendance.Record.Day, b.Range(), b.clock.now(b.loc))
}

// Summary counts the visible records by status.
func (b *AttendanceBoard) Summary() report.Tally {
	return report.Count(b.Visible())
}

// Arcs lays out the summary ring.
func (b *AttendanceBoard) Arcs() []report.Arc {
	return report.Arcs(b.Summary(), report.Circumference)
}

// People breaks the visible records down per person.
func (b *AttendanceBoard) People() []report.Person {
	b.mu.RLock()
	names := people.Names(b.persons)
	b.mu.RUnlock()
	return report.ByPerson(b.Visible(), names)
}

// Persons is the list of people the viewer may record attendance for.
func (b *AttendanceBoard) Persons() []people.Person {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]people.Person(nil), b.persons...)
}

// Mark records attendance for a day that has none yet.
func (b *AttendanceBoard) Mark(ctx context.Context, rec attendance.Record) error {
	_, err := b.records.Create(ctx, rec)
	return pkgerrors.Wrap(err, "mark attendance")
}

// Edit changes an existing record.
func (b *AttendanceBoard) Edit(ctx context.Context, rec attendance.Record) error {
	_, err := b.records.Update(ctx, rec)
	return pkgerrors.Wrap(err, "edit attendance")
}

// Remove deletes the record for key. A record that is already gone is not an error. When the
// delete succeeds but the list cannot be fetched again, removed is still true.
func (b *AttendanceBoard) Remove(ctx context.Context, key attendance.Key) (removed bool, err error) {
	err = b.records.Delete(ctx, key)
	if err == nil {
		return true, nil
	}
	var re *crud.ReloadError
	if errors.As(err, &re) {
		return true, pkgerrors.Wrap(re.Err, "reload attendance")
	}
	if apierr.IsNotFound(err) {
		return false, pkgerrors.Wrap(b.records.Reload(ctx), "reload attendance")
	}
	return false, pkgerrors.Wrap(err, "remove attendance")
}

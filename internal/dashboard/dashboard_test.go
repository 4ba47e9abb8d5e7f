package dashboard_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorship/internal/apiclient"
	"mentorship/internal/apierr"
	"mentorship/internal/attendance"
	"mentorship/internal/auth"
	"mentorship/internal/dashboard"
	"mentorship/internal/daterange"
	"mentorship/internal/leave"
	"mentorship/internal/mockapi/mockapitest"
	"mentorship/internal/people"
	"mentorship/internal/profiles"
	"mentorship/internal/reviews"
)

var fixedNow = time.Date(2025, 10, 8, 14, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func day(t *testing.T, s string) date.Date {
	t.Helper()
	d, err := date.ParseDate(s)
	require.NoError(t, err)
	return d
}

func seedAttendance(t *testing.T, env *mockapitest.Env) {
	t.Helper()
	repo := attendance.NewRepository(env.Client(t, "admin@test.local", apiclient.Options{}))
	for _, r := range []attendance.Record{
		{UserID: mockapitest.MenteeID, Date: day(t, "2025-10-08"), CheckIn: "09:00", CheckOut: "17:00", Status: attendance.Present},
		{UserID: mockapitest.MenteeID, Date: day(t, "2025-10-07"), CheckIn: "09:40", Status: attendance.Late},
		{UserID: mockapitest.OutsiderID, Date: day(t, "2025-10-08"), Status: attendance.Unexcused},
		{UserID: mockapitest.OutsiderID, Date: day(t, "2025-09-15"), Status: attendance.Present},
	} {
		_, err := repo.Create(context.Background(), r)
		require.NoError(t, err)
	}
}

func board(t *testing.T, env *mockapitest.Env, email string, v dashboard.Viewer) *dashboard.AttendanceBoard {
	t.Helper()
	api := env.Client(t, email, apiclient.Options{})
	return dashboard.NewAttendanceBoard(v, attendance.NewRepository(api), people.NewRepository(api), time.UTC, clock)
}

func TestAttendanceBoardAdminRanges(t *testing.T) {
	env := mockapitest.Start(t)
	seedAttendance(t, env)
	b := board(t, env, "admin@test.local", dashboard.Viewer{UserID: mockapitest.AdminID, Role: people.Admin})
	ctx := context.Background()

	require.NoError(t, b.Load(ctx))
	assert.Len(t, b.Visible(), 4)
	assert.Len(t, b.Persons(), 4)

	b.SetRange(daterange.Selection{Key: daterange.Today})
	assert.Len(t, b.Visible(), 2)
	s := b.Summary()
	assert.Equal(t, 1, s.Count(attendance.Present))
	assert.Equal(t, 1, s.Count(attendance.Unexcused))

	b.SetRange(daterange.Selection{Key: daterange.ThisMonth})
	assert.Len(t, b.Visible(), 3)

	b.SetRange(daterange.Selection{Key: daterange.LastMonth})
	require.Len(t, b.Visible(), 1)
	assert.Equal(t, mockapitest.OutsiderID, b.Visible()[0].UserID)

	b.SetRange(daterange.Selection{Key: daterange.All})
	persons := b.People()
	require.Len(t, persons, 2)
	assert.Equal(t, "Asha Rao", persons[0].Name)
	assert.Equal(t, "Chen Li", persons[1].Name)
	assert.Equal(t, 2, persons[0].Tally.Total())

	total := 0.0
	for _, a := range b.Arcs() {
		total += a.Length
	}
	assert.InDelta(t, 2*3.141592653589793*60, total, 1e-9)
}

func TestAttendanceBoardScopedToRole(t *testing.T) {
	env := mockapitest.Start(t)
	seedAttendance(t, env)
	ctx := context.Background()

	mentor := board(t, env, "mentor@test.local", dashboard.Viewer{UserID: mockapitest.MentorID, Role: people.Mentor})
	require.NoError(t, mentor.Load(ctx))
	for _, r := range mentor.Visible() {
		assert.Equal(t, mockapitest.MenteeID, r.UserID)
	}
	require.Len(t, mentor.Persons(), 1)
	assert.Equal(t, mockapitest.MenteeID, mentor.Persons()[0].ID)

	user := board(t, env, "chen@test.local", dashboard.Viewer{UserID: mockapitest.OutsiderID, Role: people.User})
	require.NoError(t, user.Load(ctx))
	assert.Len(t, user.Visible(), 2)
	require.Len(t, user.Persons(), 1)
	assert.Equal(t, "Chen Li", user.Persons()[0].FullName)
}

func TestAttendanceBoardMutations(t *testing.T) {
	env := mockapitest.Start(t)
	b := board(t, env, "admin@test.local", dashboard.Viewer{UserID: mockapitest.AdminID, Role: people.Admin})
	ctx := context.Background()
	require.NoError(t, b.Load(ctx))
	assert.Empty(t, b.Visible())

	rec := attendance.Record{UserID: mockapitest.MenteeID, Date: day(t, "2025-10-08"), CheckIn: "9:05", Status: attendance.Present}
	require.NoError(t, b.Mark(ctx, rec))
	require.Len(t, b.Visible(), 1)

	rec.Status = attendance.HalfDay
	require.NoError(t, b.Edit(ctx, rec))
	assert.Equal(t, attendance.HalfDay, b.Visible()[0].Status)

	removed, err := b.Remove(ctx, rec.Key())
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, b.Visible())

	removed, err = b.Remove(ctx, rec.Key())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAttendanceBoardRemoveReloadFailure(t *testing.T) {
	var listDown atomic.Bool
	env := mockapitest.Start(t, mockapitest.WithMiddleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if listDown.Load() && r.Method == http.MethodGet && r.URL.Path == "/api/Attendance" {
				http.Error(w, `{"message":"list unavailable"}`, http.StatusNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}))
	seedAttendance(t, env)
	b := board(t, env, "admin@test.local", dashboard.Viewer{UserID: mockapitest.AdminID, Role: people.Admin})
	ctx := context.Background()
	require.NoError(t, b.Load(ctx))

	listDown.Store(true)
	key := attendance.Key{UserID: mockapitest.MenteeID, Date: day(t, "2025-10-08")}
	removed, err := b.Remove(ctx, key)
	assert.True(t, removed, "the record is gone even though the list could not be fetched")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reload attendance")
	assert.ErrorIs(t, err, apierr.ErrNotFound)
	assert.Len(t, b.Visible(), 4, "snapshot kept")

	listDown.Store(false)
	removed, err = b.Remove(ctx, key)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, b.Visible(), 3)
}

func TestAttendanceBoardKeepsSnapshotOnFailure(t *testing.T) {
	env := mockapitest.Start(t)
	seedAttendance(t, env)
	b := board(t, env, "admin@test.local", dashboard.Viewer{UserID: mockapitest.AdminID, Role: people.Admin})
	ctx := context.Background()
	require.NoError(t, b.Load(ctx))

	env.HTTP.Close()
	require.Error(t, b.Retry(ctx))
	assert.Error(t, b.Err())
	assert.Len(t, b.Visible(), 4)
}

func TestViewerFromClaims(t *testing.T) {
	v := dashboard.ViewerFrom(auth.Claims{UserID: 7, Role: "mentor"})
	assert.Equal(t, dashboard.Viewer{UserID: 7, Role: people.Mentor}, v)
	v = dashboard.ViewerFrom(auth.Claims{UserID: 8, Role: "somebody"})
	assert.Equal(t, people.User, v.Role)
}

func TestLeaveDeskApproveMarksExcused(t *testing.T) {
	env := mockapitest.Start(t)
	ctx := context.Background()

	menteeAPI := env.Client(t, "asha@test.local", apiclient.Options{})
	own := dashboard.NewLeaveDesk(dashboard.Viewer{UserID: mockapitest.MenteeID, Role: people.User}, leave.NewRepository(menteeAPI), time.UTC, clock)
	req, err := own.Request(ctx, leave.Request{Date: "2025-10-10T00:00:00", LeaveType: leave.Sick, Reason: "fever"})
	require.NoError(t, err)
	assert.Equal(t, "2025-10-10", req.Date)
	require.Len(t, own.Requests(), 1)

	mentorAPI := env.Client(t, "mentor@test.local", apiclient.Options{})
	desk := dashboard.NewLeaveDesk(dashboard.Viewer{UserID: mockapitest.MentorID, Role: people.Mentor}, leave.NewRepository(mentorAPI), time.UTC, clock)
	require.NoError(t, desk.Load(ctx))
	require.Len(t, desk.Requests(), 1)

	desk.SetRange(daterange.Selection{Key: daterange.Today})
	assert.Empty(t, desk.Requests())
	from, to := day(t, "2025-10-06"), day(t, "2025-10-12")
	desk.SetRange(daterange.Selection{Key: daterange.Custom, Start: &to, End: &from})
	assert.Len(t, desk.Requests(), 1)

	require.NoError(t, desk.Approve(ctx, req.ID, "get well"))
	assert.Empty(t, desk.Requests())

	got, err := attendance.NewRepository(mentorAPI).Get(ctx, attendance.Key{UserID: mockapitest.MenteeID, Date: day(t, "2025-10-10")})
	require.NoError(t, err)
	assert.Equal(t, attendance.Excused, got.Status)

	err = desk.Reject(ctx, req.ID, "too late")
	assert.Error(t, err)
}

func TestLeaveDeskAdminSeesAllPending(t *testing.T) {
	env := mockapitest.Start(t)
	ctx := context.Background()
	for email, id := range map[string]int{"asha@test.local": mockapitest.MenteeID, "chen@test.local": mockapitest.OutsiderID} {
		_, err := leave.NewRepository(env.Client(t, email, apiclient.Options{})).
			Create(ctx, leave.Request{UserID: id, Date: "2025-10-09", LeaveType: leave.Casual, Reason: "errand"})
		require.NoError(t, err)
	}

	desk := dashboard.NewLeaveDesk(dashboard.Viewer{UserID: mockapitest.AdminID, Role: people.Admin},
		leave.NewRepository(env.Client(t, "admin@test.local", apiclient.Options{})), time.UTC, clock)
	require.NoError(t, desk.Load(ctx))
	list := desk.Requests()
	require.Len(t, list, 2)

	require.NoError(t, desk.Reject(ctx, list[0].ID, "no"))
	assert.Len(t, desk.Requests(), 1)
}

func TestProfilePageLifecycle(t *testing.T) {
	env := mockapitest.Start(t)
	ctx := context.Background()
	page := dashboard.NewProfilePage(mockapitest.MenteeID,
		profiles.NewRepository(env.Client(t, "asha@test.local", apiclient.Options{})))

	require.NoError(t, page.Load(ctx))
	assert.Nil(t, page.Profile())
	assert.Equal(t, profiles.None, page.Kind())

	msg, err := page.Delete(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.MsgNoProfile, msg)

	phone := "555-0100"
	require.NoError(t, page.Save(ctx, profiles.Profile{Phone: &phone}))
	assert.Equal(t, profiles.Basic, page.Kind())

	course := "Computer Science"
	require.NoError(t, page.Save(ctx, profiles.Profile{Phone: &phone, Course: &course}))
	assert.Equal(t, profiles.Academic, page.Kind())
	assert.Equal(t, "Academic Profile", page.Kind().String())

	msg, err = page.Delete(ctx)
	require.NoError(t, err)
	assert.Equal(t, dashboard.MsgProfileDeleted, msg)
	assert.Nil(t, page.Profile())
}

func TestReviewBoard(t *testing.T) {
	env := mockapitest.Start(t)
	ctx := context.Background()
	api := env.Client(t, "admin@test.local", apiclient.Options{})
	repo := reviews.NewRepository(api)

	_, err := repo.CreateFee(ctx, reviews.Fee{UserID: mockapitest.MenteeID, FeeCategory: "Tuition", PendingAmount: 1200, FeeStatus: reviews.FeePending})
	require.NoError(t, err)
	_, err = repo.CreateFee(ctx, reviews.Fee{UserID: mockapitest.OutsiderID, FeeCategory: "Tuition", PendingAmount: 800, FeeStatus: reviews.FeeCompleted})
	require.NoError(t, err)

	b := dashboard.NewReviewBoard(repo)
	require.NoError(t, b.Load(ctx))
	assert.Len(t, b.Fees(), 2)
	assert.InDelta(t, 1200, b.Outstanding(), 1e-9)

	_, err = b.SaveScore(ctx, reviews.Score{UserID: mockapitest.MenteeID, Week: 3, ReviewDate: "2025-10-06",
		ReviewerName: "Ada Admin", AcademicScore: 7, ReviewScoreValue: 8, TaskScore: 9})
	require.NoError(t, err)
	require.Len(t, b.Scores(), 1)
	assert.InDelta(t, 24, b.Scores()[0].TotalScore, 1e-9)

	_, err = b.SaveScore(ctx, reviews.Score{UserID: mockapitest.MenteeID, Week: 3, ReviewDate: "2025-10-07",
		ReviewerName: "Ada Admin", AcademicScore: 1})
	assert.Error(t, err)

	require.NoError(t, b.DeleteScore(ctx, b.Scores()[0].ID))
	assert.Empty(t, b.Scores())
}

package mockapi_test

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorship/internal/apiclient"
	"mentorship/internal/apierr"
	"mentorship/internal/attendance"
	"mentorship/internal/leave"
	"mentorship/internal/mockapi/mockapitest"
	"mentorship/internal/people"
	"mentorship/internal/profiles"
)

func post(t *testing.T, c *apiclient.Client, path string, body any) error {
	t.Helper()
	return c.Exec(context.Background(), apiclient.Request{Method: http.MethodPost, Path: path, Body: body})
}

func record(userID int, day string, status int) attendance.WireRecord {
	in := "09:00"
	return attendance.WireRecord{UserID: userID, Date: day, CheckInTime: &in, Status: &status}
}

func TestLoginErrors(t *testing.T) {
	env := mockapitest.Start(t)
	c, err := apiclient.New(apiclient.Options{BaseURL: env.BaseURL()})
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "admin@test.local", "nope")
	require.ErrorIs(t, err, apierr.ErrAuth)

	_, err = c.Login(context.Background(), "", "")
	require.ErrorIs(t, err, apierr.ErrValidation)
	assert.Equal(t, "The Email field is required.", apierr.FieldMessage(err, "email"))

	err = c.Exec(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/Attendance"})
	assert.ErrorIs(t, err, apierr.ErrAuth)
}

func TestAttendanceNaturalKey(t *testing.T) {
	env := mockapitest.Start(t)
	admin := env.Client(t, "admin@test.local", apiclient.Options{})

	require.NoError(t, post(t, admin, "/Attendance", record(mockapitest.MenteeID, "2025-10-01", 0)))
	err := post(t, admin, "/Attendance", record(mockapitest.MenteeID, "2025-10-01T00:00:00", 1))
	require.ErrorIs(t, err, apierr.ErrConflict)

	err = admin.Exec(context.Background(), apiclient.Request{Method: http.MethodPut, Path: "/Attendance", Body: record(mockapitest.MenteeID, "2025-10-02", 1)})
	require.ErrorIs(t, err, apierr.ErrNotFound)

	err = post(t, admin, "/Attendance", attendance.WireRecord{UserID: mockapitest.MenteeID})
	require.ErrorIs(t, err, apierr.ErrValidation)
	assert.NotEmpty(t, apierr.FieldMessage(err, "date"))
	assert.NotEmpty(t, apierr.FieldMessage(err, "status"))

	got, err := apiclient.One[attendance.WireRecord](context.Background(), admin, apiclient.Request{
		Method: http.MethodGet, Path: "/Attendance/user-date",
		Query: url.Values{"userId": {"5"}, "date": {"2025-10-01"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", *got.CheckInTime)
	assert.Equal(t, "00:00:00", *got.CheckOutTime)
	assert.Equal(t, "Asha Rao", got.FullName)

	del := apiclient.Request{Method: http.MethodDelete, Path: "/Attendance", Query: url.Values{"userId": {"5"}, "date": {"2025-10-01"}}}
	require.NoError(t, admin.Exec(context.Background(), del))
	assert.ErrorIs(t, admin.Exec(context.Background(), del), apierr.ErrNotFound)
}

func TestAttendanceScoping(t *testing.T) {
	env := mockapitest.Start(t)
	admin := env.Client(t, "admin@test.local", apiclient.Options{})
	require.NoError(t, post(t, admin, "/Attendance", record(mockapitest.MenteeID, "2025-10-01", 0)))
	require.NoError(t, post(t, admin, "/Attendance", record(mockapitest.OutsiderID, "2025-10-01", 2)))

	mentor := env.Client(t, "mentor@test.local", apiclient.Options{})
	list, err := apiclient.List[attendance.WireRecord](context.Background(), mentor, "/Attendance", nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mockapitest.MenteeID, list[0].UserID)

	err = post(t, mentor, "/Attendance", record(mockapitest.OutsiderID, "2025-10-02", 0))
	assert.ErrorIs(t, err, apierr.ErrForbidden)

	outsider := env.Client(t, "chen@test.local", apiclient.Options{})
	list, err = apiclient.List[attendance.WireRecord](context.Background(), outsider, "/Attendance", nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mockapitest.OutsiderID, list[0].UserID)

	err = post(t, outsider, "/Attendance", record(mockapitest.OutsiderID, "2025-10-03", 0))
	assert.ErrorIs(t, err, apierr.ErrForbidden, "users cannot record their own attendance")
}

func TestLeaveReview(t *testing.T) {
	env := mockapitest.Start(t)
	mentee := env.Client(t, "asha@test.local", apiclient.Options{})
	mentor := env.Client(t, "mentor@test.local", apiclient.Options{})
	ctx := context.Background()

	create := func(day string) leave.Request {
		req, err := apiclient.One[leave.Request](ctx, mentee, apiclient.Request{
			Method: http.MethodPost, Path: "/LeaveRequest",
			Body: leave.Request{Date: day, LeaveType: leave.Sick, Reason: "flu"},
		})
		require.NoError(t, err)
		return req
	}
	approved, rejected := create("2025-10-06"), create("2025-10-07")
	assert.Equal(t, leave.Pending, approved.Status)
	assert.Equal(t, mockapitest.MenteeID, approved.UserID)

	pending, err := apiclient.List[leave.Request](ctx, mentor, "/LeaveRequest/mentor/pending", nil)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, post(t, mentor, "/LeaveRequest/review", leave.ReviewPayload{RequestID: approved.ID, Approve: true, Notes: "get well"}))
	require.NoError(t, post(t, mentor, "/LeaveRequest/review", leave.ReviewPayload{RequestID: rejected.ID, Approve: false}))

	err = post(t, mentor, "/LeaveRequest/review", leave.ReviewPayload{RequestID: approved.ID, Approve: false})
	assert.ErrorIs(t, err, apierr.ErrConflict)

	recs, err := apiclient.List[attendance.WireRecord](ctx, mentor, "/Attendance", nil)
	require.NoError(t, err)
	require.Len(t, recs, 1, "only the approved day gets a record")
	assert.Equal(t, "2025-10-06", recs[0].Date)
	assert.Equal(t, attendance.Excused, attendance.CodeToStatus(*recs[0].Status))

	err = post(t, mentee, "/LeaveRequest/review", leave.ReviewPayload{RequestID: approved.ID, Approve: true})
	assert.ErrorIs(t, err, apierr.ErrForbidden)
}

func TestLeaveCancel(t *testing.T) {
	env := mockapitest.Start(t)
	mentee := env.Client(t, "asha@test.local", apiclient.Options{})
	ctx := context.Background()

	req, err := apiclient.One[leave.Request](ctx, mentee, apiclient.Request{
		Method: http.MethodPost, Path: "/LeaveRequest",
		Body: leave.Request{Date: "2025-10-08", LeaveType: leave.Casual, Reason: "family"},
	})
	require.NoError(t, err)

	path := "/LeaveRequest/" + strconv.Itoa(req.ID) + "/cancel"
	require.NoError(t, post(t, mentee, path, nil))
	assert.ErrorIs(t, post(t, mentee, path, nil), apierr.ErrConflict)

	err = post(t, mentee, "/LeaveRequest", leave.Request{Date: "2025-10-08", LeaveType: "Holiday"})
	require.ErrorIs(t, err, apierr.ErrValidation)
	assert.NotEmpty(t, apierr.FieldMessage(err, "leaveType"))
	assert.NotEmpty(t, apierr.FieldMessage(err, "reason"))
}

func TestProfilesAndImages(t *testing.T) {
	env := mockapitest.Start(t)
	mentee := env.Client(t, "asha@test.local", apiclient.Options{})
	ctx := context.Background()

	_, err := apiclient.One[profiles.Profile](ctx, mentee, apiclient.Request{Method: http.MethodGet, Path: "/Profiles/5"})
	require.ErrorIs(t, err, apierr.ErrNotFound)

	img := "https://img.test/asha.png"
	require.NoError(t, post(t, mentee, "/Profiles", profiles.Profile{ProfileImageURL: &img}))
	assert.ErrorIs(t, post(t, mentee, "/Profiles", profiles.Profile{}), apierr.ErrConflict)

	p, err := apiclient.One[profiles.Profile](ctx, mentee, apiclient.Request{Method: http.MethodGet, Path: "/Profiles/5"})
	require.NoError(t, err)
	assert.Equal(t, mockapitest.MenteeID, p.UserID)

	images, err := apiclient.List[profiles.ProfileImage](ctx, mentee, "/UserProfile/all-profile-images", nil)
	require.NoError(t, err)
	assert.Equal(t, []profiles.ProfileImage{{UserID: mockapitest.MenteeID, ProfileImageURL: img}}, images)
}

func TestUsersAdminOnly(t *testing.T) {
	env := mockapitest.Start(t)
	ctx := context.Background()
	mentor := env.Client(t, "mentor@test.local", apiclient.Options{})
	_, err := apiclient.List[people.Person](ctx, mentor, "/Users", nil)
	assert.ErrorIs(t, err, apierr.ErrForbidden)

	mentees, err := apiclient.List[people.Person](ctx, mentor, "/Mentor/my-mentees", nil)
	require.NoError(t, err)
	require.Len(t, mentees, 1)
	assert.Equal(t, "Asha Rao", mentees[0].FullName)
	assert.Empty(t, mentees[0].Password)

	admin := env.Client(t, "admin@test.local", apiclient.Options{})
	all, err := apiclient.List[people.Person](ctx, admin, "/Users", nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	err = post(t, admin, "/Users", people.Person{FullName: "Dup", Email: "ASHA@test.local", Role: people.User})
	assert.ErrorIs(t, err, apierr.ErrConflict)
}

func TestHealthAndMetrics(t *testing.T) {
	env := mockapitest.Start(t)

	resp, err := http.Get(env.HTTP.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(env.HTTP.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

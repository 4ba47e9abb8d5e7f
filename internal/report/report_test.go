package report

import (
	"bytes"
	"testing"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mentorship/internal/attendance"
)

func recs(statuses ...attendance.Status) []attendance.Record {
	out := make([]attendance.Record, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, attendance.Record{UserID: i + 1, Status: s})
	}
	return out
}

func TestCount(t *testing.T) {
	tally := Count(recs(attendance.Present, attendance.Present, attendance.Late))
	assert.Equal(t, map[attendance.Status]int{
		attendance.Present:   2,
		attendance.Late:      1,
		attendance.HalfDay:   0,
		attendance.Excused:   0,
		attendance.Unexcused: 0,
		attendance.NoStatus:  0,
	}, tally.Map())
	assert.Equal(t, 3, tally.Total())

	odd := Count(recs(attendance.NoStatus, "Vacation"))
	assert.Equal(t, 2, odd.Count(attendance.NoStatus))
}

func TestArcs(t *testing.T) {
	arcs := Arcs(Count(recs(attendance.Present, attendance.Present, attendance.Late)), Circumference)
	require.Len(t, arcs, 2)

	assert.Equal(t, attendance.Present, arcs[0].Status)
	assert.InDelta(t, 2.0/3.0*Circumference, arcs[0].Length, 1e-9)
	assert.InDelta(t, 0, arcs[0].Offset, 1e-9)

	assert.Equal(t, attendance.Late, arcs[1].Status)
	assert.InDelta(t, 1.0/3.0*Circumference, arcs[1].Length, 1e-9)
	assert.InDelta(t, -2.0/3.0*Circumference, arcs[1].Offset, 1e-9)

	assert.InDelta(t, 376.99, Circumference, 0.01)
}

func TestArcsIgnoreInsertionOrder(t *testing.T) {
	a := Arcs(Count(recs(attendance.Late, attendance.Excused, attendance.Present)), Circumference)
	b := Arcs(Count(recs(attendance.Present, attendance.Late, attendance.Excused)), Circumference)
	assert.Equal(t, a, b)
	assert.Equal(t, a, Arcs(Count(recs(attendance.Late, attendance.Excused, attendance.Present)), Circumference))
}

func TestArcsEmpty(t *testing.T) {
	assert.Empty(t, Arcs(Count(nil), Circumference))
}

func TestByPerson(t *testing.T) {
	records := []attendance.Record{
		{UserID: 2, Status: attendance.Present, UserName: "Zed"},
		{UserID: 1, Status: attendance.Late},
		{UserID: 2, Status: attendance.Excused},
		{UserID: 3, Status: attendance.Present},
	}
	people := ByPerson(records, map[int]string{1: "Asha", 3: "Asha"})
	require.Len(t, people, 3)
	assert.Equal(t, []int{1, 3, 2}, []int{people[0].UserID, people[1].UserID, people[2].UserID})
	assert.Equal(t, "Zed", people[2].Name)
	assert.Equal(t, 2, people[2].Tally.Total())
	assert.Equal(t, 1, people[2].Tally.Count(attendance.Excused))
	assert.Len(t, people[2].Records, 2)
}

func TestWriteXLSX(t *testing.T) {
	d, err := date.ParseDate("2025-10-01")
	require.NoError(t, err)
	records := []attendance.Record{
		{UserID: 5, Date: d, CheckIn: "09:00", CheckOut: "17:00", Status: attendance.HalfDay, UserName: "Asha"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, records, ByPerson(records, nil)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetAttendance)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2025-10-01", "5", "Asha", "09:00", "17:00", "Half Day"}, rows[1])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "Total", summary[0][len(summary[0])-1])
	assert.Equal(t, "1", summary[1][len(summary[1])-1])
}

// Package report turns a filtered set of attendance records into status counts, ring-chart
// geometry and per-person summaries. Everything here is a pure function of its inputs.
package report

import (
	"math"
	"sort"

	"mentorship/internal/attendance"
)

// Buckets is the fixed order counts and arcs are reported in.
var Buckets = []attendance.Status{
	attendance.Present,
	attendance.Late,
	attendance.HalfDay,
	attendance.Excused,
	attendance.Unexcused,
	attendance.NoStatus,
}

// Circumference of the summary ring (radius 60).
const Circumference = 2 * math.Pi * 60

// Tally holds per-bucket counts.
type Tally struct {
	counts [6]int
}

func bucketIndex(s attendance.Status) int {
	for i, b := range Buckets[:5] {
		if b == s {
			return i
		}
	}
	return 5
}

// Add counts one record with status s. Unknown statuses land in NoStatus.
func (t *Tally) Add(s attendance.Status) {
	t.counts[bucketIndex(s)]++
}

// Count returns the number of records in the bucket of s.
func (t Tally) Count(s attendance.Status) int {
	return t.counts[bucketIndex(s)]
}

// Total is the number of records counted.
func (t Tally) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Map returns the counts keyed by status, including zero buckets.
func (t Tally) Map() map[attendance.Status]int {
	out := make(map[attendance.Status]int, len(Buckets))
	for i, b := range Buckets {
		out[b] = t.counts[i]
	}
	return out
}

// Count tallies records by status.
func Count(records []attendance.Record) Tally {
	var t Tally
	for _, r := range records {
		t.Add(r.Status)
	}
	return t
}

// Arc is one ring segment. Offset is the negative cumulative length of the preceding arcs.
type Arc struct {
	Status attendance.Status
	Count  int
	Length float64
	Offset float64
}

// Arcs lays out one arc per non-empty bucket in Buckets order. An empty tally yields no arcs.
func Arcs(t Tally, circumference float64) []Arc {
	total := t.Total()
	if total == 0 {
		return nil
	}
	arcs := make([]Arc, 0, len(Buckets))
	cum := 0.0
	for i, b := range Buckets {
		c := t.counts[i]
		if c == 0 {
			continue
		}
		length := float64(c) / float64(total) * circumference
		arcs = append(arcs, Arc{Status: b, Count: c, Length: length, Offset: -cum})
		cum += length
	}
	return arcs
}

// Person is the attendance summary of one user.
type Person struct {
	UserID  int
	Name    string
	Tally   Tally
	Records []attendance.Record
}

// ByPerson groups records per user, sorted by name then id. names supplies display names; a
// record's own UserName is used when the map has none.
func ByPerson(records []attendance.Record, names map[int]string) []Person {
	idx := map[int]int{}
	var out []Person
	for _, r := range records {
		i, ok := idx[r.UserID]
		if !ok {
			name := names[r.UserID]
			if name == "" {
				name = r.UserName
			}
			out = append(out, Person{UserID: r.UserID, Name: name})
			i = len(out) - 1
			idx[r.UserID] = i
		}
		out[i].Tally.Add(r.Status)
		out[i].Records = append(out[i].Records, r)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Name != out[b].Name {
			return out[a].Name < out[b].Name
		}
		return out[a].UserID < out[b].UserID
	})
	return out
}

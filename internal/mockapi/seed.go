package mockapi

import (
	"time"

	"mentorship/internal/attendance"
	"mentorship/internal/daterange"
	"mentorship/internal/leave"
	"mentorship/internal/people"
	"mentorship/internal/profiles"
	"mentorship/internal/reviews"
)

// Demo accounts created by Seed. All share DemoPassword.
const (
	DemoAdminEmail  = "admin@mentorship.local"
	DemoMentorEmail = "mentor@mentorship.local"
	DemoPassword    = "changeme"
)

// Seed loads a small demo program: an admin, a mentor with two mentees and one unassigned user,
// two weeks of attendance ending on now's day, a pending leave request, reviews and fees.
func (s *Server) Seed(now time.Time) {
	admin := s.AddUser(people.Person{FullName: "Ada Admin", Email: DemoAdminEmail, Role: people.Admin}, DemoPassword)
	mentor := s.AddUser(people.Person{FullName: "Mira Mentor", Email: DemoMentorEmail, Role: people.Mentor, Department: "Engineering"}, DemoPassword)
	mentees := []people.Person{
		s.AddUser(people.Person{FullName: "Asha Rao", Email: "asha@mentorship.local", Role: people.User, MentorID: &mentor.ID, Department: "Engineering"}, DemoPassword),
		s.AddUser(people.Person{FullName: "Ben Okafor", Email: "ben@mentorship.local", Role: people.User, MentorID: &mentor.ID, Department: "Design"}, DemoPassword),
	}
	loner := s.AddUser(people.Person{FullName: "Chen Li", Email: "chen@mentorship.local", Role: people.User}, DemoPassword)
	s.log.Info().Int("admin", admin.ID).Int("mentor", mentor.ID).Msg("seeding demo data")

	s.mu.Lock()
	defer s.mu.Unlock()

	today := daterange.Day(now)
	cycle := []attendance.Status{attendance.Present, attendance.Present, attendance.Late, attendance.Present, attendance.HalfDay, attendance.Unexcused}
	for i, p := range append(mentees, loner) {
		for d := 0; d < 14; d++ {
			day := daterange.AddDays(today, -d)
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				continue
			}
			st := cycle[(d+i)%len(cycle)]
			code := attendance.StatusToCode(st)
			in, out := "09:00:00", "17:30:00"
			if st == attendance.Late {
				in = "10:15:00"
			}
			if st == attendance.Unexcused {
				in, out = attendance.MidnightWire, attendance.MidnightWire
			}
			id := s.newID()
			s.attendance[attKey{userID: p.ID, day: day.String()}] = attendance.WireRecord{
				ID: &id, UserID: p.ID, Date: day.String(), CheckInTime: &in, CheckOutTime: &out, Status: &code,
			}
		}
	}

	leaveID := s.newID()
	s.leaves[leaveID] = leave.Request{
		ID: leaveID, UserID: mentees[0].ID, Date: daterange.AddDays(today, 3).String(),
		LeaveType: leave.Sick, Reason: "Dental appointment", Status: leave.Pending,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}

	course, inst := "Computer Science", "City College"
	phone := "+1-555-0100"
	s.profiles[mentees[0].ID] = profiles.Profile{UserID: mentees[0].ID, Course: &course, Institution: &inst}
	s.profiles[mentees[1].ID] = profiles.Profile{UserID: mentees[1].ID, Phone: &phone}

	for i, p := range mentees {
		id := s.newID()
		sc := reviews.Score{
			ID: id, UserID: p.ID, Week: 1, ReviewDate: daterange.AddDays(today, -7).String(),
			ReviewerName: mentor.FullName, AcademicScore: 7 + float64(i), ReviewScoreValue: 8, TaskScore: 6.5,
		}
		sc.TotalScore = sc.ComputeTotal()
		s.scores[id] = sc

		feeID := s.newID()
		s.fees[feeID] = reviews.Fee{
			ID: feeID, UserID: p.ID, FeeCategory: "Tuition", PendingAmount: 1200 * float64(1-i),
			DueDate: daterange.AddDays(today, 30).String(), FeeStatus: []reviews.FeeStatus{reviews.FeePending, reviews.FeeCompleted}[i],
		}
	}
}

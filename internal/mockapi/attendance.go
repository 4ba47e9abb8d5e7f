package mockapi

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"mentorship/internal/attendance"
)

func (s *Server) listAttendance(c *gin.Context) {
	cl := caller(c)
	s.mu.Lock()
	out := make([]attendance.WireRecord, 0, len(s.attendance))
	for k, rec := range s.attendance {
		if s.visible(cl, k.userID) {
			rec.FullName = s.fullName(k.userID)
			out = append(out, rec)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].UserID < out[j].UserID
	})
	respondList(c, bare, out)
}

func (s *Server) getAttendance(c *gin.Context) {
	key, ok := queryKey(c)
	if !ok {
		return
	}
	cl := caller(c)
	s.mu.Lock()
	rec, found := s.attendance[key]
	if found {
		rec.FullName = s.fullName(key.userID)
	}
	allowed := s.visible(cl, key.userID)
	s.mu.Unlock()

	if !found || !allowed {
		fail(c, http.StatusNotFound, "Attendance record not found")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) createAttendance(c *gin.Context) {
	s.writeAttendance(c, false)
}

func (s *Server) updateAttendance(c *gin.Context) {
	s.writeAttendance(c, true)
}

func (s *Server) writeAttendance(c *gin.Context, update bool) {
	var w attendance.WireRecord
	if !bind(c, &w) {
		return
	}
	rec, fields := normalizeRecord(w)
	if len(fields) > 0 {
		invalid(c, fields)
		return
	}
	key := attKey{userID: rec.UserID, day: rec.Date}
	cl := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[rec.UserID]; !ok {
		invalid(c, map[string]string{"UserId": "User does not exist."})
		return
	}
	if !s.manages(cl, rec.UserID) {
		fail(c, http.StatusForbidden, "not allowed to record attendance for this user")
		return
	}
	existing, exists := s.attendance[key]
	switch {
	case update && !exists:
		fail(c, http.StatusNotFound, "Attendance record not found")
		return
	case !update && exists:
		fail(c, http.StatusConflict, "Attendance already exists for this user and date")
		return
	}
	if exists {
		rec.ID = existing.ID
	} else {
		id := s.newID()
		rec.ID = &id
	}
	s.attendance[key] = rec
	rec.FullName = s.fullName(rec.UserID)

	status := http.StatusCreated
	if update {
		status = http.StatusOK
	}
	c.JSON(status, rec)
}

func (s *Server) deleteAttendance(c *gin.Context) {
	key, ok := queryKey(c)
	if !ok {
		return
	}
	cl := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.attendance[key]; !found || !s.visible(cl, key.userID) {
		fail(c, http.StatusNotFound, "Attendance record not found")
		return
	}
	if !s.manages(cl, key.userID) {
		fail(c, http.StatusForbidden, "not allowed to delete attendance for this user")
		return
	}
	delete(s.attendance, key)
	c.Status(http.StatusNoContent)
}

// upsertExcused records an approved leave day. Callers hold s.mu.
func (s *Server) upsertExcused(userID int, day string) {
	key := attKey{userID: userID, day: day}
	code := attendance.StatusToCode(attendance.Excused)
	rec, ok := s.attendance[key]
	if !ok {
		id := s.newID()
		midnight := attendance.MidnightWire
		rec = attendance.WireRecord{ID: &id, UserID: userID, Date: day, CheckInTime: &midnight, CheckOutTime: &midnight}
	}
	rec.Status = &code
	s.attendance[key] = rec
}

func queryKey(c *gin.Context) (attKey, bool) {
	fields := map[string]string{}
	userID, err := strconv.Atoi(c.Query("userId"))
	if err != nil || userID <= 0 {
		fields["userId"] = "must be a positive integer"
	}
	d, err := attendance.ParseWireDate(c.Query("date"))
	if err != nil {
		fields["date"] = "must be YYYY-MM-DD"
	}
	if len(fields) > 0 {
		invalid(c, fields)
		return attKey{}, false
	}
	return attKey{userID: userID, day: d.String()}, true
}

// normalizeRecord checks a posted record and brings its date and times to canonical wire form.
func normalizeRecord(w attendance.WireRecord) (attendance.WireRecord, map[string]string) {
	fields := map[string]string{}
	if w.UserID <= 0 {
		fields["UserId"] = "The UserId field is required."
	}
	if d, err := attendance.ParseWireDate(w.Date); err != nil {
		fields["Date"] = "The Date field is required."
	} else {
		w.Date = d.String()
	}
	if w.Status == nil {
		fields["Status"] = "The Status field is required."
	} else if *w.Status < 0 || *w.Status > 4 {
		fields["Status"] = "The Status field must be between 0 and 4."
	}
	for name, t := range map[string]**string{"CheckInTime": &w.CheckInTime, "CheckOutTime": &w.CheckOutTime} {
		norm, err := attendance.WireTimeOrMidnight(deref(*t))
		if err != nil {
			fields[name] = "The " + name + " field must be HH:MM:SS."
			continue
		}
		*t = &norm
	}
	w.FullName = ""
	w.ID = nil
	return w, fields
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

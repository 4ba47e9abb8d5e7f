package mockapi

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mentorship/internal/auth"
	"mentorship/internal/leave"
)

var leaveTypes = map[leave.Type]bool{
	leave.Sick: true, leave.Casual: true, leave.Emergency: true, leave.Vacation: true, leave.Other: true,
}

func (s *Server) leaveWhere(keep func(leave.Request) bool) []leave.Request {
	out := []leave.Request{}
	for _, r := range s.leaves {
		if keep(r) {
			r.FullName = s.fullName(r.UserID)
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Server) listLeave(c *gin.Context) {
	cl := caller(c)
	s.mu.Lock()
	out := s.leaveWhere(func(r leave.Request) bool { return s.visible(cl, r.UserID) })
	s.mu.Unlock()
	respondList(c, bare, out)
}

func (s *Server) pendingLeave(c *gin.Context) {
	if !isAdmin(caller(c)) {
		fail(c, http.StatusForbidden, "admin only")
		return
	}
	s.mu.Lock()
	out := s.leaveWhere(func(r leave.Request) bool { return r.Status == leave.Pending })
	s.mu.Unlock()
	respondList(c, items, out)
}

func (s *Server) mentorPendingLeave(c *gin.Context) {
	cl := caller(c)
	if !isMentor(cl) {
		fail(c, http.StatusForbidden, "mentor only")
		return
	}
	s.mu.Lock()
	out := s.leaveWhere(func(r leave.Request) bool {
		return r.Status == leave.Pending && s.mentorOf(cl.UserID, r.UserID)
	})
	s.mu.Unlock()
	respondList(c, values, out)
}

func (s *Server) createLeave(c *gin.Context) {
	var req leave.Request
	if !bind(c, &req) {
		return
	}
	cl := caller(c)
	if req.UserID == 0 {
		req.UserID = cl.UserID
	}
	fields := map[string]string{}
	if d, ok := req.Day(); ok {
		req.Date = d.String()
	} else {
		fields["Date"] = "The Date field is required."
	}
	if !leaveTypes[req.LeaveType] {
		fields["LeaveType"] = "The LeaveType field must be one of Sick, Casual, Emergency, Vacation, Other."
	}
	if strings.TrimSpace(req.Reason) == "" {
		fields["Reason"] = "The Reason field is required."
	}
	if len(fields) > 0 {
		invalid(c, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[req.UserID]; !ok {
		invalid(c, map[string]string{"UserId": "User does not exist."})
		return
	}
	if req.UserID != cl.UserID && !s.manages(cl, req.UserID) {
		fail(c, http.StatusForbidden, "not allowed to request leave for this user")
		return
	}
	req.ID = s.newID()
	req.Status = leave.Pending
	req.ReviewerNotes = ""
	req.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	s.leaves[req.ID] = req
	req.FullName = s.fullName(req.UserID)
	c.JSON(http.StatusCreated, req)
}

func (s *Server) reviewLeave(c *gin.Context) {
	var p leave.ReviewPayload
	if !bind(c, &p) {
		return
	}
	if p.RequestID <= 0 {
		invalid(c, map[string]string{"RequestId": "The RequestId field is required."})
		return
	}
	cl := caller(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.leaves[p.RequestID]
	if !ok || !s.visible(cl, req.UserID) {
		fail(c, http.StatusNotFound, "Leave request not found")
		return
	}
	if !s.manages(cl, req.UserID) {
		fail(c, http.StatusForbidden, "not allowed to review this request")
		return
	}
	if req.Status.Terminal() {
		fail(c, http.StatusConflict, "Leave request is already "+strings.ToLower(req.Status.String()))
		return
	}
	req.ReviewerNotes = p.Notes
	if p.Approve {
		req.Status = leave.Approved
		s.upsertExcused(req.UserID, req.Date)
	} else {
		req.Status = leave.Rejected
	}
	s.leaves[req.ID] = req
	s.log.Info().Int("request_id", req.ID).Str("status", req.Status.String()).Int("reviewer", cl.UserID).Msg("leave reviewed")
	c.JSON(http.StatusOK, req)
}

func (s *Server) cancelLeave(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cl := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	req, found := s.leaves[id]
	if !found || !s.visible(cl, req.UserID) {
		fail(c, http.StatusNotFound, "Leave request not found")
		return
	}
	if !ownsOrAdmin(cl, req.UserID) {
		fail(c, http.StatusForbidden, "only the requester can cancel")
		return
	}
	if req.Status.Terminal() {
		fail(c, http.StatusConflict, "Leave request is already "+strings.ToLower(req.Status.String()))
		return
	}
	req.Status = leave.Cancelled
	s.leaves[id] = req
	c.JSON(http.StatusOK, req)
}

func ownsOrAdmin(cl auth.Claims, userID int) bool {
	return isAdmin(cl) || cl.UserID == userID
}

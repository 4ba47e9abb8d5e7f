package mockapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mentorship/internal/reviews"
)

func (s *Server) scoresWhere(keep func(reviews.Score) bool) []reviews.Score {
	out := []reviews.Score{}
	for _, sc := range s.scores {
		if keep(sc) {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Week < out[j].Week
	})
	return out
}

func (s *Server) listScores(c *gin.Context) {
	cl := caller(c)
	s.mu.Lock()
	out := s.scoresWhere(func(sc reviews.Score) bool { return s.visible(cl, sc.UserID) })
	s.mu.Unlock()
	respondList(c, data, out)
}

func (s *Server) listUserScores(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cl := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.users[id]; !found || !s.visible(cl, id) {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	respondList(c, bare, s.scoresWhere(func(sc reviews.Score) bool { return sc.UserID == id }))
}

func checkScore(sc reviews.Score) map[string]string {
	fields := map[string]string{}
	if sc.UserID <= 0 {
		fields["UserId"] = "The UserId field is required."
	}
	if sc.Week < 1 || sc.Week > 52 {
		fields["Week"] = "The Week field must be between 1 and 52."
	}
	if strings.TrimSpace(sc.ReviewerName) == "" {
		fields["ReviewerName"] = "The ReviewerName field is required."
	}
	if sc.AcademicScore < 0 || sc.ReviewScoreValue < 0 || sc.TaskScore < 0 {
		fields["Scores"] = "Scores must not be negative."
	}
	return fields
}

func (s *Server) createScore(c *gin.Context) {
	var sc reviews.Score
	if !bind(c, &sc) {
		return
	}
	if fields := checkScore(sc); len(fields) > 0 {
		invalid(c, fields)
		return
	}
	cl := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[sc.UserID]; !ok {
		invalid(c, map[string]string{"UserId": "User does not exist."})
		return
	}
	if !s.manages(cl, sc.UserID) {
		fail(c, http.StatusForbidden, "not allowed to review this user")
		return
	}
	for _, other := range s.scores {
		if other.UserID == sc.UserID && other.Week == sc.Week {
			fail(c, http.StatusConflict, "A review for week "+strconv.Itoa(sc.Week)+" already exists")
			return
		}
	}
	sc.ID = s.newID()
	sc.TotalScore = sc.ComputeTotal()
	s.scores[sc.ID] = sc
	c.JSON(http.StatusCreated, sc)
}

func (s *Server) updateScore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var sc reviews.Score
	if !bind(c, &sc) {
		return
	}
	if fields := checkScore(sc); len(fields) > 0 {
		invalid(c, fields)
		return
	}
	cl := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	old, found := s.scores[id]
	if !found || !s.visible(cl, old.UserID) {
		fail(c, http.StatusNotFound, "Review score not found")
		return
	}
	if !s.manages(cl, old.UserID) {
		fail(c, http.StatusForbidden, "not allowed to review this user")
		return
	}
	sc.ID = id
	sc.TotalScore = sc.ComputeTotal()
	s.scores[id] = sc
	c.JSON(http.StatusOK, sc)
}

func (s *Server) deleteScore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cl := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	old, found := s.scores[id]
	if !found || !s.visible(cl, old.UserID) {
		fail(c, http.StatusNotFound, "Review score not found")
		return
	}
	if !s.manages(cl, old.UserID) {
		fail(c, http.StatusForbidden, "not allowed to review this user")
		return
	}
	delete(s.scores, id)
	c.Status(http.StatusNoContent)
}

var feeStatuses = map[reviews.FeeStatus]bool{
	reviews.FeePending: true, reviews.FeeCompleted: true, reviews.FeeOverdued: true,
}

func checkFee(f reviews.Fee) map[string]string {
	fields := map[string]string{}
	if f.UserID <= 0 {
		fields["UserId"] = "The UserId field is required."
	}
	if strings.TrimSpace(f.FeeCategory) == "" {
		fields["FeeCategory"] = "The FeeCategory field is required."
	}
	if f.PendingAmount < 0 {
		fields["PendingAmount"] = "The PendingAmount field must not be negative."
	}
	if !feeStatuses[f.FeeStatus] {
		fields["FeeStatus"] = "The FeeStatus field must be Pending, Completed or Overdued."
	}
	return fields
}

func (s *Server) listFees(c *gin.Context) {
	cl := caller(c)
	s.mu.Lock()
	out := []reviews.Fee{}
	for _, f := range s.fees {
		if s.visible(cl, f.UserID) {
			out = append(out, f)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	respondList(c, data, out)
}

func (s *Server) createFee(c *gin.Context) {
	if !isAdmin(caller(c)) {
		fail(c, http.StatusForbidden, "admin only")
		return
	}
	var f reviews.Fee
	if !bind(c, &f) {
		return
	}
	if fields := checkFee(f); len(fields) > 0 {
		invalid(c, fields)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[f.UserID]; !ok {
		invalid(c, map[string]string{"UserId": "User does not exist."})
		return
	}
	f.ID = s.newID()
	s.fees[f.ID] = f
	c.JSON(http.StatusCreated, f)
}

func (s *Server) updateFee(c *gin.Context) {
	if !isAdmin(caller(c)) {
		fail(c, http.StatusForbidden, "admin only")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var f reviews.Fee
	if !bind(c, &f) {
		return
	}
	if fields := checkFee(f); len(fields) > 0 {
		invalid(c, fields)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.fees[id]; !found {
		fail(c, http.StatusNotFound, "Fee record not found")
		return
	}
	f.ID = id
	s.fees[id] = f
	c.JSON(http.StatusOK, f)
}

func (s *Server) deleteFee(c *gin.Context) {
	if !isAdmin(caller(c)) {
		fail(c, http.StatusForbidden, "admin only")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.fees[id]; !found {
		fail(c, http.StatusNotFound, "Fee record not found")
		return
	}
	delete(s.fees, id)
	c.Status(http.StatusNoContent)
}

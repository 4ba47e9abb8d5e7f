package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mentorship/internal/auth"
	"mentorship/internal/people"
)

// shape is the envelope a list endpoint answers with. The real API is not consistent, so
// endpoints here use different ones on purpose.
type shape int

const (
	bare   shape = iota // [...]
	data                // {"data": [...]}
	items               // {"items": [...]}
	values              // {"$values": [...]}
	nested              // {"data": {"items": [...]}}
)

func respondList[T any](c *gin.Context, sh shape, list []T) {
	if list == nil {
		list = []T{}
	}
	switch sh {
	case data:
		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	case items:
		c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
	case values:
		c.JSON(http.StatusOK, gin.H{"$id": "1", "$values": list})
	case nested:
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"items": list, "total": len(list)}})
	default:
		c.JSON(http.StatusOK, list)
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// invalid answers 400 in the problem-details form: {"title": ..., "errors": {"Field": ["msg"]}}.
func invalid(c *gin.Context, fields map[string]string) {
	errs := make(map[string][]string, len(fields))
	for k, v := range fields {
		errs[k] = []string{v}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"title":  "One or more validation errors occurred.",
		"status": http.StatusBadRequest,
		"errors": errs,
	})
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		invalid(c, map[string]string{"body": "malformed JSON: " + err.Error()})
		return false
	}
	return true
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		invalid(c, map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

func caller(c *gin.Context) auth.Claims {
	claims, _ := auth.FromContext(c)
	return claims
}

func isAdmin(cl auth.Claims) bool  { return cl.Role == string(people.Admin) }
func isMentor(cl auth.Claims) bool { return cl.Role == string(people.Mentor) }

// visible reports whether cl may read data of userID. Callers hold s.mu.
func (s *Server) visible(cl auth.Claims, userID int) bool {
	if isAdmin(cl) || cl.UserID == userID {
		return true
	}
	return isMentor(cl) && s.mentorOf(cl.UserID, userID)
}

// manages reports whether cl may write attendance, leave reviews and scores of userID.
func (s *Server) manages(cl auth.Claims, userID int) bool {
	if isAdmin(cl) {
		return true
	}
	return isMentor(cl) && s.mentorOf(cl.UserID, userID)
}

func (s *Server) mentorOf(mentorID, userID int) bool {
	u, ok := s.users[userID]
	return ok && u.MentorID != nil && *u.MentorID == mentorID
}

func (s *Server) fullName(userID int) string {
	if u, ok := s.users[userID]; ok {
		return u.FullName
	}
	return ""
}

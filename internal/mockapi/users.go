package mockapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"mentorship/internal/people"
	"mentorship/internal/profiles"
)

func (s *Server) sortedUsers(keep func(*account) bool) []people.Person {
	out := []people.Person{}
	for _, u := range s.users {
		if keep(u) {
			out = append(out, u.Person)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) listUsers(c *gin.Context) {
	if !isAdmin(caller(c)) {
		fail(c, http.StatusForbidden, "admin only")
		return
	}
	s.mu.Lock()
	out := s.sortedUsers(func(*account) bool { return true })
	s.mu.Unlock()
	respondList(c, data, out)
}

func (s *Server) myMentees(c *gin.Context) {
	cl := caller(c)
	if !isMentor(cl) && !isAdmin(cl) {
		fail(c, http.StatusForbidden, "mentor only")
		return
	}
	s.mu.Lock()
	out := s.sortedUsers(func(u *account) bool { return u.MentorID != nil && *u.MentorID == cl.UserID })
	s.mu.Unlock()
	respondList(c, values, out)
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	u, found := s.users[id]
	allowed := s.visible(caller(c), id)
	s.mu.Unlock()
	if !found || !allowed {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, u.Person)
}

func checkPerson(p people.Person) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(p.FullName) == "" {
		fields["FullName"] = "The FullName field is required."
	}
	if !strings.Contains(p.Email, "@") {
		fields["Email"] = "The Email field is not a valid e-mail address."
	}
	if _, ok := people.ParseRole(string(p.Role)); !ok {
		fields["Role"] = "The Role field must be Admin, Mentor or User."
	}
	return fields
}

func (s *Server) createUser(c *gin.Context) {
	if !isAdmin(caller(c)) {
		fail(c, http.StatusForbidden, "admin only")
		return
	}
	var p people.Person
	if !bind(c, &p) {
		return
	}
	if fields := checkPerson(p); len(fields) > 0 {
		invalid(c, fields)
		return
	}
	p.Role, _ = people.ParseRole(string(p.Role))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, p.Email) {
			fail(c, http.StatusConflict, "A user with this email already exists")
			return
		}
	}
	password := p.Password
	p.Password = ""
	p.ID = s.newID()
	s.users[p.ID] = &account{Person: p, password: password}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateUser(c *gin.Context) {
	if !isAdmin(caller(c)) {
		fail(c, http.StatusForbidden, "admin only")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p people.Person
	if !bind(c, &p) {
		return
	}
	if fields := checkPerson(p); len(fields) > 0 {
		invalid(c, fields)
		return
	}
	p.Role, _ = people.ParseRole(string(p.Role))

	s.mu.Lock()
	defer s.mu.Unlock()
	u, found := s.users[id]
	if !found {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	if p.Password != "" {
		u.password = p.Password
	}
	p.Password = ""
	p.ID = id
	u.Person = p
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteUser(c *gin.Context) {
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
	if _, found := s.users[id]; !found {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	delete(s.users, id)
	delete(s.profiles, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) listProfiles(c *gin.Context) {
	cl := caller(c)
	s.mu.Lock()
	out := []profiles.Profile{}
	for id, p := range s.profiles {
		if s.visible(cl, id) {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	respondList(c, nested, out)
}

func (s *Server) getProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	p, found := s.profiles[id]
	allowed := s.visible(caller(c), id)
	s.mu.Unlock()
	if !found || !allowed {
		fail(c, http.StatusNotFound, "Profile not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

func (s *Server) createProfile(c *gin.Context) {
	var p profiles.Profile
	if !bind(c, &p) {
		return
	}
	cl := caller(c)
	if p.UserID == 0 {
		p.UserID = cl.UserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.UserID]; !ok {
		invalid(c, map[string]string{"UserId": "User does not exist."})
		return
	}
	if !ownsOrAdmin(cl, p.UserID) && !s.manages(cl, p.UserID) {
		fail(c, http.StatusForbidden, "not allowed to edit this profile")
		return
	}
	if _, exists := s.profiles[p.UserID]; exists {
		fail(c, http.StatusConflict, "Profile already exists")
		return
	}
	s.profiles[p.UserID] = p
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p profiles.Profile
	if !bind(c, &p) {
		return
	}
	p.UserID = id
	cl := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[id]; !exists || !s.visible(cl, id) {
		fail(c, http.StatusNotFound, "Profile not found")
		return
	}
	if !ownsOrAdmin(cl, id) && !s.manages(cl, id) {
		fail(c, http.StatusForbidden, "not allowed to edit this profile")
		return
	}
	s.profiles[id] = p
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cl := caller(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[id]; !exists || !s.visible(cl, id) {
		fail(c, http.StatusNotFound, "Profile not found")
		return
	}
	if !ownsOrAdmin(cl, id) {
		fail(c, http.StatusForbidden, "not allowed to delete this profile")
		return
	}
	delete(s.profiles, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) profileImages(c *gin.Context) {
	cl := caller(c)
	s.mu.Lock()
	out := []profiles.ProfileImage{}
	for id, u := range s.users {
		if !s.visible(cl, id) {
			continue
		}
		url := u.ProfileImageURL
		if p, ok := s.profiles[id]; ok && p.ProfileImageURL != nil && *p.ProfileImageURL != "" {
			url = *p.ProfileImageURL
		}
		if url != "" {
			out = append(out, profiles.ProfileImage{UserID: id, ProfileImageURL: url})
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	respondList(c, bare, out)
}

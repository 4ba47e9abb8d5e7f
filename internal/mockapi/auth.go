package mockapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mentorship/internal/auth"
	"mentorship/internal/people"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		fields["Email"] = "The Email field is required."
	}
	if req.Password == "" {
		fields["Password"] = "The Password field is required."
	}
	if len(fields) > 0 {
		invalid(c, fields)
		return
	}

	s.mu.Lock()
	var found *account
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) && u.password == req.Password {
			found = u
			break
		}
	}
	var person people.Person
	if found != nil {
		person = found.Person
	}
	s.mu.Unlock()

	if found == nil {
		fail(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !s.startSession(c, person) {
		return
	}
	s.log.Info().Int("user_id", person.ID).Str("role", string(person.Role)).Msg("login")
	c.JSON(http.StatusOK, person)
}

func (s *Server) refresh(c *gin.Context) {
	token, _ := c.Cookie(auth.RefreshCookie)
	if token == "" {
		fail(c, http.StatusUnauthorized, "missing refresh token")
		return
	}
	claims, err := auth.Parse(token, s.opts.SigningKey, s.opts.Issuer, auth.KindRefresh)
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	ctx := c.Request.Context()
	revoked, err := s.opts.Sessions.Revoked(ctx, claims.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("session store unavailable")
		fail(c, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	if revoked {
		fail(c, http.StatusUnauthorized, "refresh token revoked")
		return
	}

	s.mu.Lock()
	u, ok := s.users[claims.UserID]
	var person people.Person
	if ok {
		person = u.Person
	}
	delete(s.refreshes, claims.ID)
	s.mu.Unlock()
	if !ok {
		fail(c, http.StatusUnauthorized, "account no longer exists")
		return
	}

	// Rotation: the presented refresh token is single-use.
	if err := s.opts.Sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.log.Error().Err(err).Msg("revoke rotated refresh token")
		fail(c, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	if !s.startSession(c, person) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session refreshed"})
}

func (s *Server) revoke(c *gin.Context) {
	if token, _ := c.Cookie(auth.RefreshCookie); token != "" {
		if claims, err := auth.Parse(token, s.opts.SigningKey, s.opts.Issuer, auth.KindRefresh); err == nil {
			if err := s.opts.Sessions.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				s.log.Error().Err(err).Msg("revoke refresh token")
			}
			s.mu.Lock()
			delete(s.refreshes, claims.ID)
			s.mu.Unlock()
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.AccessCookie, "", -1, "/", "", false, true)
	c.SetCookie(auth.RefreshCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) startSession(c *gin.Context, p people.Person) bool {
	s.mu.Lock()
	gen := s.accessGen
	s.mu.Unlock()

	pair, err := auth.Issue(auth.Identity{UserID: p.ID, Role: string(p.Role)},
		s.opts.Issuer, s.opts.SigningKey, s.opts.AccessTTL, s.opts.RefreshTTL, gen)
	if err != nil {
		s.log.Error().Err(err).Msg("issue tokens")
		fail(c, http.StatusInternalServerError, "token issue failed")
		return false
	}

	s.mu.Lock()
	s.refreshes[pair.RefreshID] = pair.RefreshExp
	s.mu.Unlock()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.AccessCookie, pair.AccessToken, int(s.opts.AccessTTL.Seconds()), "/", "", false, true)
	c.SetCookie(auth.RefreshCookie, pair.RefreshToken, int(s.opts.RefreshTTL.Seconds()), "/", "", false, true)
	return true
}

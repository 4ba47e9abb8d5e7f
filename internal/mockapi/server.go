// Package mockapi is an in-memory implementation of the program API. It backs every HTTP test of
// the client and can run standalone (cmd/mockapi) for local development.
//
// It mirrors the behaviour the client depends on: cookie sessions with refresh rotation, role
// scoping (admins see everyone, mentors their mentees, users themselves), natural-key semantics
// for attendance, the single review step of leave requests, and the assorted response envelopes
// the real API uses.
package mockapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mentorship/internal/attendance"
	"mentorship/internal/auth"
	"mentorship/internal/config"
	"mentorship/internal/httpmiddleware"
	"mentorship/internal/leave"
	"mentorship/internal/logger"
	"mentorship/internal/people"
	"mentorship/internal/profiles"
	"mentorship/internal/reviews"
	"mentorship/internal/store"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mentorship_mockapi_requests_total",
	Help: "Requests served by the mock API, by route and status.",
}, []string{"route", "status"})

// Options configures a Server.
type Options struct {
	Issuer     string
	SigningKey string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Sessions   store.Sessions

	// RateLimitPerMin enables per-client rate limiting when positive.
	RateLimitPerMin int
}

// OptionsFromConfig maps the application config onto server options.
func OptionsFromConfig(cfg config.App, sessions store.Sessions) Options {
	return Options{
		Issuer:          cfg.JWTIssuer,
		SigningKey:      cfg.JWTSigningKey,
		AccessTTL:       cfg.AccessTTL,
		RefreshTTL:      cfg.RefreshTTL,
		Sessions:        sessions,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}
}

type account struct {
	people.Person
	password string
}

type attKey struct {
	userID int
	day    string
}

// Server is the mock API. All state lives in memory and is guarded by mu.
type Server struct {
	opts   Options
	log    zerolog.Logger
	engine *gin.Engine

	mu         sync.Mutex
	users      map[int]*account
	attendance map[attKey]attendance.WireRecord
	leaves     map[int]leave.Request
	profiles   map[int]profiles.Profile
	scores     map[int]reviews.Score
	fees       map[int]reviews.Fee
	nextID     int
	accessGen  int
	refreshes  map[string]time.Time
}

// New builds a server with no data. Use AddUser or Seed to populate it.
func New(opts Options) *Server {
	if opts.Issuer == "" {
		opts.Issuer = "mentorship-api"
	}
	if opts.SigningKey == "" {
		opts.SigningKey = "mock-signing-key"
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 24 * time.Hour
	}
	if opts.Sessions == nil {
		opts.Sessions = store.NewMemory()
	}
	s := &Server{
		opts:       opts,
		log:        logger.Get().With().Str("component", "mockapi").Logger(),
		users:      make(map[int]*account),
		attendance: make(map[attKey]attendance.WireRecord),
		leaves:     make(map[int]leave.Request),
		profiles:   make(map[int]profiles.Profile),
		scores:     make(map[int]reviews.Score),
		fees:       make(map[int]reviews.Fee),
		nextID:     100,
		refreshes:  make(map[string]time.Time),
	}
	s.engine = s.routes()
	return s
}

// Handler serves the API under /api plus /healthz and /metrics.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.AccessLog(s.log, "/healthz", "/metrics"))
	r.Use(httpmiddleware.CORS())
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(countRequests())
	if s.opts.RateLimitPerMin > 0 {
		r.Use(httpmiddleware.NewTokenBucket(0, s.opts.RateLimitPerMin).GinMiddleware())
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.POST("/Auth/login", s.login)
	api.POST("/Auth/refresh", s.refresh)
	api.POST("/Auth/revoke", s.revoke)

	a := api.Group("", auth.SessionAuth(s.opts.SigningKey, s.opts.Issuer, s.currentGeneration))

	a.GET("/Users", s.listUsers)
	a.GET("/Users/:id", s.getUser)
	a.POST("/Users", s.createUser)
	a.PUT("/Users/:id", s.updateUser)
	a.DELETE("/Users/:id", s.deleteUser)
	a.GET("/Mentor/my-mentees", s.myMentees)

	a.GET("/Attendance", s.listAttendance)
	a.GET("/Attendance/user-date", s.getAttendance)
	a.POST("/Attendance", s.createAttendance)
	a.PUT("/Attendance", s.updateAttendance)
	a.DELETE("/Attendance", s.deleteAttendance)

	a.GET("/LeaveRequest", s.listLeave)
	a.GET("/LeaveRequest/pending", s.pendingLeave)
	a.GET("/LeaveRequest/mentor/pending", s.mentorPendingLeave)
	a.POST("/LeaveRequest", s.createLeave)
	a.POST("/LeaveRequest/review", s.reviewLeave)
	a.POST("/LeaveRequest/:id/cancel", s.cancelLeave)

	a.GET("/Profiles", s.listProfiles)
	a.GET("/Profiles/:id", s.getProfile)
	a.POST("/Profiles", s.createProfile)
	a.PUT("/Profiles/:id", s.updateProfile)
	a.DELETE("/Profiles/:id", s.deleteProfile)
	a.GET("/UserProfile/all-profile-images", s.profileImages)

	a.GET("/ReviewScores", s.listScores)
	a.GET("/ReviewScores/user/:id", s.listUserScores)
	a.POST("/ReviewScores", s.createScore)
	a.PUT("/ReviewScores/:id", s.updateScore)
	a.DELETE("/ReviewScores/:id", s.deleteScore)

	a.GET("/Review", s.listFees)
	a.POST("/Review", s.createFee)
	a.PUT("/Review/:id", s.updateFee)
	a.DELETE("/Review/:id", s.deleteFee)

	return r
}

func countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, http.StatusText(c.Writer.Status())).Inc()
	}
}

func (s *Server) health(c *gin.Context) {
	healthy := s.opts.Sessions.Healthy(c.Request.Context())
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "sessions": healthy})
}

func (s *Server) currentGeneration(claims auth.Claims) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return claims.Generation == s.accessGen
}

// ExpireAccessTokens invalidates every access token issued so far; refresh tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessGen++
}

// RevokeAll revokes every outstanding refresh token and expires all access tokens.
func (s *Server) RevokeAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessGen++
	for id, exp := range s.refreshes {
		if err := s.opts.Sessions.Revoke(ctx, id, exp); err != nil {
			return err
		}
		delete(s.refreshes, id)
	}
	return nil
}

// AddUser registers an account. A zero p.ID is assigned the next free id.
func (s *Server) AddUser(p people.Person, password string) people.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.newID()
	} else if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	p.Password = ""
	s.users[p.ID] = &account{Person: p, password: password}
	return p
}

func (s *Server) newID() int {
	id := s.nextID
	s.nextID++
	return id
}

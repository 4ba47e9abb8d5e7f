// Package mockapitest runs the mock API on a local port with a fixed cast of users, for tests
// of the client packages and the CLI.
package mockapitest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"mentorship/internal/apiclient"
	"mentorship/internal/mockapi"
	"mentorship/internal/people"
)

// Fixed accounts of a test environment.
const (
	AdminID    = 1
	MentorID   = 2
	MenteeID   = 5
	OutsiderID = 6
	Password   = "secret"
)

// Env is a running mock API.
type Env struct {
	Server *mockapi.Server
	HTTP   *httptest.Server
}

type config struct {
	wrap []func(http.Handler) http.Handler
}

// Option customizes Start.
type Option func(*config)

// WithMiddleware wraps the API handler, outermost last.
func WithMiddleware(mw func(http.Handler) http.Handler) Option {
	return func(c *config) { c.wrap = append(c.wrap, mw) }
}

// Start runs a mock API for the duration of tb.
func Start(tb testing.TB, opts ...Option) *Env {
	tb.Helper()
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	gin.SetMode(gin.TestMode)
	srv := mockapi.New(mockapi.Options{})
	mentor := MentorID
	srv.AddUser(people.Person{ID: AdminID, FullName: "Ada Admin", Email: "admin@test.local", Role: people.Admin}, Password)
	srv.AddUser(people.Person{ID: MentorID, FullName: "Mira Mentor", Email: "mentor@test.local", Role: people.Mentor}, Password)
	srv.AddUser(people.Person{ID: MenteeID, FullName: "Asha Rao", Email: "asha@test.local", Role: people.User, MentorID: &mentor}, Password)
	srv.AddUser(people.Person{ID: OutsiderID, FullName: "Chen Li", Email: "chen@test.local", Role: people.User}, Password)

	var h http.Handler = srv.Handler()
	for _, mw := range cfg.wrap {
		h = mw(h)
	}
	hs := httptest.NewServer(h)
	tb.Cleanup(hs.Close)
	return &Env{Server: srv, HTTP: hs}
}

// BaseURL is the API root clients are pointed at.
func (e *Env) BaseURL() string { return e.HTTP.URL + "/api" }

// Client returns an API client logged in as email. opts.BaseURL is filled in.
func (e *Env) Client(tb testing.TB, email string, opts apiclient.Options) *apiclient.Client {
	tb.Helper()
	opts.BaseURL = e.BaseURL()
	c, err := apiclient.New(opts)
	if err != nil {
		tb.Fatalf("new client: %v", err)
	}
	if _, err := c.Login(context.Background(), email, Password); err != nil {
		tb.Fatalf("login %s: %v", email, err)
	}
	return c
}

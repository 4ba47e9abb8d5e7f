// Package people manages program members: admins, mentors and the users they mentor.
package people

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"mentorship/internal/apiclient"
	"mentorship/internal/logger"
	"mentorship/internal/validate"
)

// Role of a member.
type Role string

const (
	Admin  Role = "Admin"
	Mentor Role = "Mentor"
	User   Role = "User"
)

// ParseRole accepts a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{Admin, Mentor, User} {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

// Person is a program member as the API returns it.
type Person struct {
	ID              int    `json:"id"`
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Role            Role   `json:"role" validate:"required,oneof=Admin Mentor User"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Department      string `json:"department,omitempty"`
	MentorID        *int   `json:"mentorId,omitempty"`
	Password        string `json:"password,omitempty"`
}

// Names maps ids to display names.
func Names(people []Person) map[int]string {
	out := make(map[int]string, len(people))
	for _, p := range people {
		out[p.ID] = p.FullName
	}
	return out
}

// Repository is the HTTP-backed member store.
type Repository struct {
	api *apiclient.Client
	log zerolog.Logger
}

func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api, log: logger.Get().With().Str("component", "people").Logger()}
}

// List returns all members (admin only).
func (r *Repository) List(ctx context.Context) ([]Person, error) {
	out, err := apiclient.List[Person](ctx, r.api, "/Users", nil)
	return out, pkgerrors.Wrap(err, "list users")
}

// Get fetches one member.
func (r *Repository) Get(ctx context.Context, id int) (Person, error) {
	p, err := apiclient.One[Person](ctx, r.api, apiclient.Request{Method: http.MethodGet, Path: userPath(id)})
	return p, pkgerrors.Wrapf(err, "get user %d", id)
}

// Mentees returns the users assigned to the calling mentor.
func (r *Repository) Mentees(ctx context.Context) ([]Person, error) {
	out, err := apiclient.List[Person](ctx, r.api, "/Mentor/my-mentees", nil)
	return out, pkgerrors.Wrap(err, "list mentees")
}

func (r *Repository) Create(ctx context.Context, p Person) (Person, error) {
	if err := validate.Struct(p); err != nil {
		return Person{}, err
	}
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: http.MethodPost, Path: "/Users", Body: p}, p, hasID)
	if err != nil {
		return Person{}, pkgerrors.Wrap(err, "create user")
	}
	r.log.Info().Int("user_id", saved.ID).Str("role", string(saved.Role)).Msg("user created")
	return saved, nil
}

func (r *Repository) Update(ctx context.Context, p Person) (Person, error) {
	if err := validate.Struct(p); err != nil {
		return Person{}, err
	}
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: http.MethodPut, Path: userPath(p.ID), Body: p}, p, hasID)
	return saved, pkgerrors.Wrapf(err, "update user %d", p.ID)
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	err := r.api.Exec(ctx, apiclient.Request{Method: http.MethodDelete, Path: userPath(id)})
	return pkgerrors.Wrapf(err, "delete user %d", id)
}

func userPath(id int) string { return "/Users/" + strconv.Itoa(id) }

func hasID(p Person) bool { return p.ID != 0 }

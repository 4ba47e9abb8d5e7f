// Package profiles manages the optional academic, personal and guardian details kept per user.
// Having no profile at all is a state of its own, distinct from a profile with blank fields.
package profiles

import (
	"context"
	"net/http"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"mentorship/internal/apiclient"
	"mentorship/internal/logger"
	"mentorship/internal/validate"
)

// Profile is keyed by UserID. Every detail is optional.
type Profile struct {
	UserID int `json:"userId" validate:"gt=0"`

	// personal
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	Gender      *string `json:"gender,omitempty"`

	// academic
	Institution  *string  `json:"institution,omitempty"`
	Course       *string  `json:"course,omitempty"`
	YearOfStudy  *int     `json:"yearOfStudy,omitempty" validate:"omitempty,gte=1,lte=10"`
	GPA          *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=10"`
	StudentRegNo *string  `json:"studentRegNo,omitempty"`

	// guardian
	GuardianName     *string `json:"guardianName,omitempty"`
	GuardianPhone    *string `json:"guardianPhone,omitempty"`
	GuardianRelation *string `json:"guardianRelation,omitempty"`

	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

// Kind is how a profile is presented.
type Kind int

const (
	None Kind = iota
	Basic
	Academic
)

func (k Kind) String() string {
	switch k {
	case Basic:
		return "Basic Profile"
	case Academic:
		return "Academic Profile"
	default:
		return "No Profile"
	}
}

// Classify reports None for a missing profile, Academic when any academic field is filled in
// and Basic otherwise.
func Classify(p *Profile) Kind {
	if p == nil {
		return None
	}
	if set(p.Institution) || set(p.Course) || set(p.StudentRegNo) || p.YearOfStudy != nil || p.GPA != nil {
		return Academic
	}
	return Basic
}

func set(s *string) bool { return s != nil && *s != "" }

// Repository is the HTTP-backed profile store.
type Repository struct {
	api *apiclient.Client
	log zerolog.Logger
}

func NewRepository(api *apiclient.Client) *Repository {
	return &Repository{api: api, log: logger.Get().With().Str("component", "profiles").Logger()}
}

func (r *Repository) List(ctx context.Context) ([]Profile, error) {
	out, err := apiclient.List[Profile](ctx, r.api, "/Profiles", nil)
	return out, pkgerrors.Wrap(err, "list profiles")
}

// Get returns the profile of userID; apierr.ErrNotFound means the user has none.
func (r *Repository) Get(ctx context.Context, userID int) (Profile, error) {
	p, err := apiclient.One[Profile](ctx, r.api, apiclient.Request{Method: http.MethodGet, Path: profilePath(userID)})
	return p, pkgerrors.Wrapf(err, "get profile %d", userID)
}

func (r *Repository) Create(ctx context.Context, p Profile) (Profile, error) {
	if err := validate.Struct(p); err != nil {
		return Profile{}, err
	}
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: http.MethodPost, Path: "/Profiles", Body: p}, p, hasUser)
	return saved, pkgerrors.Wrapf(err, "create profile %d", p.UserID)
}

func (r *Repository) Update(ctx context.Context, p Profile) (Profile, error) {
	if err := validate.Struct(p); err != nil {
		return Profile{}, err
	}
	saved, err := apiclient.Save(ctx, r.api, apiclient.Request{Method: http.MethodPut, Path: profilePath(p.UserID), Body: p}, p, hasUser)
	return saved, pkgerrors.Wrapf(err, "update profile %d", p.UserID)
}

func (r *Repository) Delete(ctx context.Context, userID int) error {
	err := r.api.Exec(ctx, apiclient.Request{Method: http.MethodDelete, Path: profilePath(userID)})
	if err == nil {
		r.log.Info().Int("user_id", userID).Msg("profile deleted")
	}
	return pkgerrors.Wrapf(err, "delete profile %d", userID)
}

// ProfileImage is one entry of the image directory.
type ProfileImage struct {
	UserID          int    `json:"userId"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// ProfileImages returns user id to image URL for every user that has one.
func (r *Repository) ProfileImages(ctx context.Context) (map[int]string, error) {
	list, err := apiclient.List[ProfileImage](ctx, r.api, "/UserProfile/all-profile-images", nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list profile images")
	}
	out := make(map[int]string, len(list))
	for _, img := range list {
		if img.ProfileImageURL != "" {
			out[img.UserID] = img.ProfileImageURL
		}
	}
	return out, nil
}

func profilePath(userID int) string { return "/Profiles/" + strconv.Itoa(userID) }

func hasUser(p Profile) bool { return p.UserID != 0 }

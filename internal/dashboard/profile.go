package dashboard

import (
	"context"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"mentorship/internal/apierr"
	"mentorship/internal/profiles"
)

// Messages shown by ProfilePage.Delete.
const (
	MsgProfileDeleted = "Profile deleted."
	MsgNoProfile      = "There is no profile to delete."
)

// ProfilePage shows and edits one user's profile. A missing profile is a normal state.
type ProfilePage struct {
	userID int
	repo   *profiles.Repository

	mu      sync.RWMutex
	profile *profiles.Profile
	err     error
}

func NewProfilePage(userID int, repo *profiles.Repository) *ProfilePage {
	return &ProfilePage{userID: userID, repo: repo}
}

// Load fetches the profile; not found leaves the page in the "No Profile" state.
func (p *ProfilePage) Load(ctx context.Context) error {
	prof, err := p.repo.Get(ctx, p.userID)
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case err == nil:
		p.profile, p.err = &prof, nil
	case apierr.IsNotFound(err):
		p.profile, p.err = nil, nil
	default:
		p.err = err
		return err
	}
	return nil
}

func (p *ProfilePage) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// Profile returns the loaded profile, nil when there is none.
func (p *ProfilePage) Profile() *profiles.Profile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.profile == nil {
		return nil
	}
	cp := *p.profile
	return &cp
}

func (p *ProfilePage) Kind() profiles.Kind {
	return profiles.Classify(p.Profile())
}

// Save creates the profile when the user has none and updates it otherwise, then reloads.
func (p *ProfilePage) Save(ctx context.Context, prof profiles.Profile) error {
	prof.UserID = p.userID
	var err error
	if p.Profile() == nil {
		_, err = p.repo.Create(ctx, prof)
	} else {
		_, err = p.repo.Update(ctx, prof)
	}
	if err != nil {
		return err
	}
	return pkgerrors.Wrap(p.Load(ctx), "reload profile")
}

// Delete removes the profile and returns the message to show. Deleting a profile that does not
// exist yields MsgNoProfile and no error.
func (p *ProfilePage) Delete(ctx context.Context) (string, error) {
	err := p.repo.Delete(ctx, p.userID)
	if err != nil && !apierr.IsNotFound(err) {
		return "", err
	}
	msg := MsgProfileDeleted
	if err != nil {
		msg = MsgNoProfile
	}
	return msg, pkgerrors.Wrap(p.Load(ctx), "reload profile")
}

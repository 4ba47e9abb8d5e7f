package apiclient

import (
	"context"
	"net/http"

	pkgerrors "github.com/pkg/errors"

	"mentorship/internal/auth"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login opens a session; the API answers with the session cookies, which the jar keeps.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Claims, error) {
	err := c.Exec(ctx, Request{
		Method: http.MethodPost,
		Path:   c.loginPath,
		Body:   credentials{Email: email, Password: password},
	})
	if err != nil {
		return auth.Claims{}, pkgerrors.Wrap(err, "login")
	}
	claims, ok := c.Session()
	if !ok {
		return auth.Claims{}, pkgerrors.New("login: no session cookie in response")
	}
	c.log.Info().Int("user_id", claims.UserID).Str("role", claims.Role).Msg("logged in")
	return claims, nil
}

// Logout revokes the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return pkgerrors.Wrap(c.Exec(ctx, Request{Method: http.MethodPost, Path: c.revokePath}), "logout")
}

// Session decodes the current access cookie. The claims are informational (role, user id);
// the server remains the authority on what the session may see.
func (c *Client) Session() (auth.Claims, bool) {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name != auth.AccessCookie || ck.Value == "" {
			continue
		}
		claims, err := auth.ParseUnverified(ck.Value)
		if err != nil {
			return auth.Claims{}, false
		}
		return claims, true
	}
	return auth.Claims{}, false
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/theirongolddev/ledgr/internal/api"
	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/session"
)

type tokenResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Auth covers OAuth login, token refresh and the user profile.
type Auth struct {
	api    *api.Client
	tokens session.Store
	log    *logging.Logger
}

// NewAuth returns an Auth service sharing c's session store.
func NewAuth(c *api.Client, log *logging.Logger) *Auth {
	return &Auth{api: c, tokens: c.Sessions(), log: log.WithComponent(logging.ComponentAuth)}
}

// GoogleAuthURL returns the URL the user must open to sign in.
func (a *Auth) GoogleAuthURL(ctx context.Context) (string, error) {
	var out struct {
		AuthURL string `json:"auth_url"`
	}
	if _, err := a.api.Get(ctx, "/auth/google", nil, &out); err != nil {
		return "", fmt.Errorf("requesting auth url: %w", err)
	}
	if out.AuthURL == "" {
		return "", errors.New("server returned an empty auth url")
	}
	return out.AuthURL, nil
}

// HandleGoogleCallback forwards the OAuth redirect query to the server and
// stores the issued tokens. Returns the access token.
func (a *Auth) HandleGoogleCallback(ctx context.Context, params url.Values) (string, error) {
	if oauthErr := params.Get("error"); oauthErr != "" {
		return "", fmt.Errorf("authentication failed: %s", oauthErr)
	}

	var out tokenResult
	if _, err := a.api.Get(ctx, "/auth/google/callback", params, &out); err != nil {
		return "", fmt.Errorf("completing login: %w", err)
	}
	if out.AccessToken == "" {
		return "", errors.New("server returned no access token")
	}
	if err := a.tokens.SetTokens(ctx, model.Session{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Login stores tokens obtained out of band, e.g. pasted from a browser.
func (a *Auth) Login(ctx context.Context, access, refresh string) error {
	if access == "" {
		return errors.New("access token is required")
	}
	return a.tokens.SetTokens(ctx, model.Session{AccessToken: access, RefreshToken: refresh})
}

// Refresh exchanges the stored refresh token for a new access token. The
// old refresh token is kept when the server does not rotate it. Returns ""
// and no error when there is no refresh token to use.
func (a *Auth) Refresh(ctx context.Context) (string, error) {
	cur, err := a.tokens.Tokens(ctx)
	if err != nil {
		return "", err
	}
	return a.refreshWith(ctx, cur.RefreshToken)
}

func (a *Auth) refreshWith(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("refresh_token", refreshToken)

	var out tokenResult
	if _, err := a.api.Post(ctx, "/auth/refresh", q, nil, &out); err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}
	if out.AccessToken == "" {
		return "", nil
	}

	next := model.Session{AccessToken: out.AccessToken, RefreshToken: refreshToken}
	if out.RefreshToken != "" {
		next.RefreshToken = out.RefreshToken
	}
	if err := a.tokens.SetTokens(ctx, next); err != nil {
		return "", err
	}
	return next.AccessToken, nil
}

// Profile fetches the user and their account stats.
func (a *Auth) Profile(ctx context.Context) (model.Profile, error) {
	var p model.Profile
	if _, err := a.api.Get(ctx, "/api/v1/users/profile", nil, &p); err != nil {
		return model.Profile{}, fmt.Errorf("fetching profile: %w", err)
	}
	return p, nil
}

// Logout discards both tokens.
func (a *Auth) Logout(ctx context.Context) error {
	return a.tokens.Clear(ctx)
}

// IsAuthenticated reports whether either token is present.
func (a *Auth) IsAuthenticated(ctx context.Context) bool {
	s, err := a.tokens.Tokens(ctx)
	return err == nil && !s.Empty()
}

// Bootstrap loads the profile at startup. On failure it refreshes once and
// retries; a second failure clears the session and returns ErrUnauthorized.
// The refresh token is read up front because a 401 on the profile clears
// the stored session.
func (a *Auth) Bootstrap(ctx context.Context) (model.Profile, error) {
	cur, err := a.tokens.Tokens(ctx)
	if err != nil {
		return model.Profile{}, err
	}

	p, err := a.Profile(ctx)
	if err == nil {
		return p, nil
	}
	if ctx.Err() != nil {
		return model.Profile{}, err
	}
	a.log.WarnErr(ctx, "profile fetch failed, trying refresh", err)

	token, refreshErr := a.refreshWith(ctx, cur.RefreshToken)
	if refreshErr != nil {
		a.log.WarnErr(ctx, "token refresh failed", refreshErr)
	}
	if refreshErr == nil && token != "" {
		p, err = a.Profile(ctx)
		if err == nil {
			return p, nil
		}
		a.log.WarnErr(ctx, "profile fetch failed after refresh", err)
	}

	if clearErr := a.tokens.Clear(ctx); clearErr != nil {
		a.log.WarnErr(ctx, "clearing session", clearErr)
	}
	return model.Profile{}, fmt.Errorf("%w: %w", api.ErrUnauthorized, err)
}

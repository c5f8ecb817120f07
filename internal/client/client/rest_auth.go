package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/memoria/internal/client/models"
)

func (c *RESTClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.ProviderUser, error) {
	payload := map[string]any{"email": email, "password": password}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}

	r, err := jsonRequest(http.MethodPost, "/auth/v1/signup", nil, payload)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.send(ctx, r, &raw); err != nil {
		return nil, err
	}

	var sr sessionResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("decode sign-up response: %w", err)
	}
	if sr.AccessToken != "" {
		s := sr.toSession(c.now())
		c.setSession(ctx, s, models.EventSignedIn)
		return s.User, nil
	}

	// confirmation pending: the body is the bare user
	var u models.ProviderUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode sign-up response: %w", err)
	}
	if u.ID == "" {
		return nil, nil
	}
	return &u, nil
}

func (c *RESTClient) SignInWithPassword(ctx context.Context, email, password string) (*models.ProviderUser, error) {
	r, err := jsonRequest(http.MethodPost, "/auth/v1/token",
		url.Values{"grant_type": {"password"}},
		map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var sr sessionResponse
	if err := c.send(ctx, r, &sr); err != nil {
		return nil, err
	}
	if sr.AccessToken == "" {
		return nil, nil
	}

	s := sr.toSession(c.now())
	c.setSession(ctx, s, models.EventSignedIn)
	return s.User, nil
}

// SignOut revokes the session remotely and always drops it locally. A
// session the backend no longer knows counts as signed out.
func (c *RESTClient) SignOut(ctx context.Context) error {
	c.ensureRestored(ctx)
	if c.currentSession() == nil {
		return nil
	}

	err := c.send(ctx, request{method: http.MethodPost, path: "/auth/v1/logout", withSession: true}, nil)
	c.clearSession(ctx)

	if err != nil && !errors.Is(err, ErrUnauthorized) && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// GetUser restores the persisted session on first use, refreshes it when the
// access token has expired and asks the backend for the session's user.
func (c *RESTClient) GetUser(ctx context.Context) (*models.ProviderUser, error) {
	c.ensureRestored(ctx)

	s := c.currentSession()
	if s == nil {
		return nil, nil
	}
	if s.Expired(c.now()) {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
	}

	var u models.ProviderUser
	if err := c.send(ctx, request{method: http.MethodGet, path: "/auth/v1/user", withSession: true}, &u); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.session != nil {
		cp := *c.session
		cp.User = &u
		c.session = &cp
	}
	c.mu.Unlock()

	return &u, nil
}

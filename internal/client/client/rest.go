package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/memoria/internal/client/models"
	"github.com/dmitrijs2005/memoria/internal/common"
	"github.com/dmitrijs2005/memoria/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultBucket is the storage bucket holding memorial profile images.
const DefaultBucket = "memorial-images"

var (
	_ AuthClient = (*RESTClient)(nil)
	_ RowStore   = (*RESTClient)(nil)
	_ BlobStore  = (*RESTClient)(nil)
)

type authListener func(models.AuthEvent, *models.ProviderSession)

// RESTClient talks to a Supabase-compatible backend over HTTP: GoTrue for
// auth, PostgREST for rows and the Storage API for images.
type RESTClient struct {
	baseURL   string
	anonKey   string
	bucket    string
	http      *http.Client
	persister SessionPersister
	logger    logging.Logger
	now       func() time.Time

	mu        sync.Mutex
	session   *models.ProviderSession
	restored  bool
	listeners map[int]authListener
	nextID    int

	refreshMu sync.Mutex
}

type Option func(*RESTClient)

func WithHTTPClient(h *http.Client) Option {
	return func(c *RESTClient) { c.http = h }
}

func WithBucket(bucket string) Option {
	return func(c *RESTClient) {
		if bucket != "" {
			c.bucket = bucket
		}
	}
}

// WithSessionPersister makes the client restore its session from p on first
// use and write every session change back to p.
func WithSessionPersister(p SessionPersister) Option {
	return func(c *RESTClient) { c.persister = p }
}

func WithLogger(l logging.Logger) Option {
	return func(c *RESTClient) { c.logger = l }
}

// NewRESTClient validates baseURL (scheme and host required) and returns a
// client that authenticates anonymous calls with anonKey.
func NewRESTClient(baseURL, anonKey string, opts ...Option) (*RESTClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", baseURL)
	}

	c := &RESTClient{
		baseURL:   u.String(),
		anonKey:   anonKey,
		bucket:    DefaultBucket,
		http:      NewHTTPClient(0),
		logger:    logging.NewNopLogger(),
		now:       time.Now,
		listeners: make(map[int]authListener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type request struct {
	method      string
	path        string
	query       url.Values
	header      http.Header
	body        []byte
	contentType string
	withSession bool
}

func jsonRequest(method, path string, query url.Values, in any) (request, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return request{}, fmt.Errorf("encode request: %w", err)
	}
	return request{method: method, path: path, query: query, body: body, contentType: "application/json"}, nil
}

func (c *RESTClient) endpoint(path string, q url.Values) string {
	if len(q) == 0 {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + q.Encode()
}

// send performs r and decodes a 2xx JSON body into out (when non-nil).
//
// A session-authenticated request answered with 401 refreshes the session
// once and is replayed once with the new access token. When the refresh is
// rejected and the session dropped, a GET is replayed once with the anon key.
func (c *RESTClient) send(ctx context.Context, r request, out any) error {
	token, bySession := c.bearer(r.withSession)

	status, body, err := c.roundTrip(ctx, r, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && bySession {
		if err := c.refresh(ctx); err != nil {
			if r.method != http.MethodGet || c.currentSession() != nil {
				return err
			}
		}
		token, _ = c.bearer(true)
		status, body, err = c.roundTrip(ctx, r, token)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return decodeError(status, body)
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// bearer returns the session access token when asked for and available,
// the anon key otherwise. The flag reports whether the session token is used.
func (c *RESTClient) bearer(withSession bool) (string, bool) {
	if withSession {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.session != nil && c.session.AccessToken != "" {
			return c.session.AccessToken, true
		}
	}
	return c.anonKey, false
}

func (c *RESTClient) roundTrip(ctx context.Context, r request, token string) (int, []byte, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return 0, nil, err
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set(common.APIKeyHeaderName, c.anonKey)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, data, nil
}

// decodeError turns a non-2xx response into an *APIError. The backend's
// services disagree on the error body, so the message is taken from the
// first of msg, message, error_description, error that is present.
func decodeError(status int, body []byte) error {
	e := &APIError{Status: status}

	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		for _, k := range []string{"msg", "message", "error_description", "error"} {
			if s, ok := payload[k].(string); ok && s != "" {
				e.Message = s
				break
			}
		}
		for _, k := range []string{"error_code", "code"} {
			if code := stringish(payload[k]); code != "" {
				e.Code = code
				break
			}
		}
		// storage answers 400 and carries the effective status in the body
		if n, err := strconv.Atoi(stringish(payload["statusCode"])); err == nil && n > 0 {
			e.Status = n
		}
	} else {
		e.Message = strings.TrimSpace(string(body))
	}

	e.kind = mapStatus(e.Status)
	return e
}

func stringish(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.Itoa(int(t))
	default:
		return ""
	}
}

// sessionResponse is the token endpoint's answer.
type sessionResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"`
	ExpiresAt    int64                `json:"expires_at"`
	User         *models.ProviderUser `json:"user"`
}

func (r *sessionResponse) toSession(now time.Time) *models.ProviderSession {
	exp := r.ExpiresAt
	if exp == 0 && r.ExpiresIn > 0 {
		exp = now.Unix() + r.ExpiresIn
	}
	return &models.ProviderSession{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    exp,
		User:         r.User,
	}
}

// tokenExpiry reads the exp claim of a JWT without verifying it. The client
// cannot verify the signature; it only needs to know when to refresh.
func tokenExpiry(token string) (int64, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, false
	}
	if claims.ExpiresAt == nil {
		return 0, false
	}
	return claims.ExpiresAt.Unix(), true
}

// ensureRestored loads the persisted session once per process.
func (c *RESTClient) ensureRestored(ctx context.Context) {
	c.mu.Lock()
	if c.restored || c.persister == nil {
		c.restored = true
		c.mu.Unlock()
		return
	}
	c.restored = true
	c.mu.Unlock()

	s, err := c.persister.Load(ctx)
	if err != nil {
		c.logger.Warn(ctx, "could not restore auth session", "error", err)
		return
	}
	if s == nil || s.AccessToken == "" {
		return
	}
	if s.ExpiresAt == 0 {
		s.ExpiresAt, _ = tokenExpiry(s.AccessToken)
	}

	c.mu.Lock()
	if c.session == nil {
		c.session = s
	}
	c.mu.Unlock()
}

func (c *RESTClient) currentSession() *models.ProviderSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *RESTClient) setSession(ctx context.Context, s *models.ProviderSession, event models.AuthEvent) {
	if s.ExpiresAt == 0 {
		s.ExpiresAt, _ = tokenExpiry(s.AccessToken)
	}

	c.mu.Lock()
	c.session = s
	c.restored = true
	c.mu.Unlock()

	if c.persister != nil {
		if err := c.persister.Save(ctx, s); err != nil {
			c.logger.Warn(ctx, "could not persist auth session", "error", err)
		}
	}
	c.emit(event, s)
}

// clearSession drops the session locally and in the persister. SIGNED_OUT is
// emitted only when a session was actually dropped.
func (c *RESTClient) clearSession(ctx context.Context) {
	c.mu.Lock()
	had := c.session != nil
	c.session = nil
	c.restored = true
	c.mu.Unlock()

	if c.persister != nil {
		if err := c.persister.Clear(ctx); err != nil {
			c.logger.Warn(ctx, "could not clear persisted auth session", "error", err)
		}
	}
	if had {
		c.emit(models.EventSignedOut, nil)
	}
}

// refresh exchanges the refresh token for a new session. A rejected refresh
// ends the session; an unreachable backend leaves it in place.
func (c *RESTClient) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	old := c.currentSession()
	if old == nil || old.RefreshToken == "" {
		c.clearSession(ctx)
		return ErrUnauthorized
	}

	r, err := jsonRequest(http.MethodPost, "/auth/v1/token",
		url.Values{"grant_type": {"refresh_token"}},
		map[string]string{"refresh_token": old.RefreshToken})
	if err != nil {
		return err
	}

	var resp sessionResponse
	if err := c.send(ctx, r, &resp); err != nil {
		c.logger.Warn(ctx, "session refresh failed", "error", err)
		if !errors.Is(err, ErrUnavailable) {
			c.clearSession(ctx)
		}
		return err
	}

	s := resp.toSession(c.now())
	if s.User == nil {
		s.User = old.User
	}
	c.setSession(ctx, s, models.EventTokenRefreshed)
	return nil
}

// OnAuthStateChange registers fn for session changes. fn runs synchronously
// on the goroutine that caused the change. The returned disposer is idempotent.
func (c *RESTClient) OnAuthStateChange(fn func(models.AuthEvent, *models.ProviderSession)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *RESTClient) emit(event models.AuthEvent, s *models.ProviderSession) {
	c.mu.Lock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]authListener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event, s)
	}
}

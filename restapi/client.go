// Package restapi is the portal's client for the upstream restaurant API.
// It attaches the session's bearer token to every request and transparently
// recovers from an expired access token: on a 401 it calls the refresh
// endpoint once, persists the new access token under the session's role key
// and re-issues the original request. A failed refresh destroys the session.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	errs "restaurante-portal/internal/errors"
	"restaurante-portal/session"
)

const refreshPath = "/auth/token/refresh/"

// EvictFunc is invoked after a terminal refresh failure, once the session
// record has been cleared. The serving layer uses it as the signal to send
// the visitor back to the login screen.
type EvictFunc func(ctx context.Context, sid string)

type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   session.Store
	onEvict    EvictFunc
}

type Option func(*Client)

// WithHTTPClient overrides the underlying transport (primarily for tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithEvictFunc registers the terminal-failure hook.
func WithEvictFunc(fn EvictFunc) Option {
	return func(c *Client) {
		c.onEvict = fn
	}
}

func New(baseURL string, sessions session.Store, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sessions:   sessions,
		onEvict:    func(context.Context, string) {},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// doJSON performs one logical request on behalf of the session sid. An
// empty sid means an unauthenticated (guest) request. The attempt counter
// caps recovery at exactly one refresh-and-retry cycle per originating
// request; a second 401 is terminal.
func (c *Client) doJSON(ctx context.Context, sid, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("restapi: encode %s %s body: %w", method, path, err)
		}
	}

	sess, authenticated, err := c.hydrate(ctx, sid)
	if err != nil {
		return err
	}
	access := sess.Tokens.Access

	for attempt := 0; ; attempt++ {
		status, respBody, err := c.send(ctx, method, path, payload, access)
		if err != nil {
			// Transport errors propagate as-is, no retry.
			return fmt.Errorf("restapi: %s %s: %w", method, path, err)
		}

		if status < http.StatusMultipleChoices {
			if out == nil || len(respBody) == 0 {
				return nil
			}
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("restapi: decode %s %s response: %w", method, path, err)
			}
			return nil
		}

		if status != http.StatusUnauthorized || attempt > 0 || !authenticated {
			return &errs.UpstreamError{StatusCode: status, Body: respBody}
		}

		// An authenticated session with nothing to refresh with is dead;
		// leaving the record in place would just keep failing silently.
		if sess.Tokens.Refresh == "" {
			c.evict(ctx, sid, fmt.Errorf("session has no refresh token"))
			return fmt.Errorf("restapi: %s %s: %w: %w",
				method, path, errs.ErrRefreshFailed, &errs.UpstreamError{StatusCode: status, Body: respBody})
		}

		newAccess, refreshErr := c.refreshAccessToken(ctx, sess.Tokens.Refresh)
		if refreshErr != nil {
			c.evict(ctx, sid, refreshErr)
			return fmt.Errorf("restapi: %s %s: %w: %w",
				method, path, errs.ErrRefreshFailed, &errs.UpstreamError{StatusCode: status, Body: respBody})
		}

		if err := c.sessions.SetAccessToken(ctx, sid, sess.Role, newAccess); err != nil {
			log.Warn().Err(err).Str("sid", sid).Msg("restapi: failed to persist refreshed access token")
		}
		access = newAccess
		log.Debug().Str("path", path).Msg("restapi: access token refreshed, retrying request")
	}
}

// hydrate reads the session so the adapter can decide, from persisted state
// alone, which token set applies. A missing session is the guest state, not
// an error.
func (c *Client) hydrate(ctx context.Context, sid string) (session.Session, bool, error) {
	if sid == "" {
		return session.Session{}, false, nil
	}
	sess, err := c.sessions.Get(ctx, sid)
	if err != nil {
		if errs.Is(err, errs.ErrSessionNotFound) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, errs.Wrapf(err, "restapi: hydrate session")
	}
	return sess, true, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, access string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// refreshAccessToken trades the role's refresh token for a fresh access
// token. The refresh token itself is single-use per recovery cycle; the
// upstream keeps it valid, so concurrent refreshes are an accepted
// inefficiency rather than a correctness problem.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}

	status, respBody, err := c.send(ctx, http.MethodPost, refreshPath, payload, "")
	if err != nil {
		return "", err
	}
	if status >= http.StatusMultipleChoices {
		return "", &errs.UpstreamError{StatusCode: status, Body: respBody}
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if out.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return out.Access, nil
}

// evict clears every persisted key for the session, both role namespaces
// included, then signals the serving layer.
func (c *Client) evict(ctx context.Context, sid string, cause error) {
	log.Warn().Err(cause).Str("sid", sid).Msg("restapi: refresh failed, clearing session")
	if err := c.sessions.Clear(ctx, sid); err != nil {
		log.Error().Err(err).Str("sid", sid).Msg("restapi: failed to clear session after refresh failure")
	}
	c.onEvict(ctx, sid)
}

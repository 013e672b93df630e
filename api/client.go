// File: hotelier/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"hotelier/models"
	"hotelier/session"
	"hotelier/utils"
)

const refreshPath = "/api/auth/refresh"

// tokenExpiryLeeway is how close to its exp claim a bearer token may get
// before the client refreshes it ahead of dispatch instead of waiting for
// the 401.
const tokenExpiryLeeway = 30 * time.Second

// refreshable reports whether a 401 on the path may trigger the refresh
// path. Credential submission endpoints answer 401 for bad credentials, not
// for an expired token.
func refreshable(path string) bool {
	switch path {
	case refreshPath, "/api/auth/login", "/api/auth/register":
		return false
	}
	return true
}

// Client talks to the hotel backend. Every request carries the session's
// bearer token when one is present; a 401 on any endpoint other than the
// refresh endpoint triggers exactly one transparent refresh-and-retry.
type Client struct {
	base    string
	http    *http.Client
	session *session.Manager
	log     *zap.Logger
	verbose bool

	// Concurrent 401s share one refresh call instead of racing.
	refresh singleflight.Group
}

// New builds a client with a hardened transport. A zero timeout falls back
// to 30s.
func New(base string, timeout time.Duration, sess *session.Manager, log *zap.Logger, verbose bool) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		session: sess,
		log:     log,
		verbose: verbose,
	}
}

// Session exposes the injected session manager.
func (c *Client) Session() *session.Manager { return c.session }

// errBody is the backend's error envelope.
type errBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// do dispatches one API call and decodes a 2xx response into out. The body
// is buffered so the 401-retry path can replay it verbatim.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	token := c.session.Token()
	if token != "" && refreshable(path) && utils.IsTokenExpired(token, tokenExpiryLeeway) {
		// The token is about to lapse: refresh ahead of dispatch rather
		// than burning a round trip on a guaranteed 401. A failed proactive
		// refresh is not terminal; the reactive 401 path below decides.
		if fresh, refreshErr := c.refreshToken(ctx); refreshErr == nil && fresh != "" {
			token = fresh
		}
	}

	hadToken := token != ""
	resp, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return &utils.NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && hadToken && refreshable(path) {
		origErr := c.decodeError(resp)
		newToken, refreshErr := c.refreshToken(ctx)
		if refreshErr != nil || newToken == "" {
			// A failed refresh is terminal for this call: demote to
			// anonymous and surface the original failure.
			c.session.Clear()
			return origErr
		}
		resp, err = c.send(ctx, method, path, payload, newToken)
		if err != nil {
			return &utils.NetworkError{Op: method + " " + path, Err: err}
		}
		// A second 401 falls through decode below; no further retry.
	}

	return c.decode(resp, out)
}

// send builds and dispatches a single request. Called at most twice per do.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.verbose {
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("took", time.Since(start)),
		}
		if err != nil {
			c.log.Warn("api call failed", append(fields, zap.Error(err))...)
		} else {
			c.log.Debug("api call", append(fields, zap.Int("status", resp.StatusCode))...)
		}
	}
	return resp, err
}

// refreshToken exchanges the current token for a fresh one. Concurrent
// callers are collapsed into a single POST /api/auth/refresh; every caller
// gets the same new token or the same failure.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	v, err, _ := c.refresh.Do("refresh", func() (interface{}, error) {
		resp, err := c.send(ctx, http.MethodPost, refreshPath, nil, c.session.Token())
		if err != nil {
			return nil, &utils.NetworkError{Op: "POST " + refreshPath, Err: err}
		}
		var auth models.AuthResponse
		if err := c.decode(resp, &auth); err != nil {
			return nil, err
		}
		if auth.AccessToken == "" {
			return nil, &utils.AuthError{StatusCode: http.StatusUnauthorized, Message: "refresh returned no token"}
		}
		c.session.UpdateToken(auth.AccessToken)
		return auth.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// decode consumes the response body: 2xx unmarshals into out, anything else
// maps onto the client error taxonomy.
func (c *Client) decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &utils.NetworkError{Op: "read response", Err: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return errorFromStatus(resp.StatusCode, data)
}

// decodeError is decode for a response whose body we consume but whose
// success path is unreachable.
func (c *Client) decodeError(resp *http.Response) error {
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return errorFromStatus(resp.StatusCode, data)
}

func errorFromStatus(status int, data []byte) error {
	var eb errBody
	_ = json.Unmarshal(data, &eb)
	msg := eb.Error
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusUnauthorized:
		return &utils.AuthError{StatusCode: status, Message: msg}
	case http.StatusConflict:
		return &utils.ConflictError{Message: msg}
	default:
		return &utils.APIError{StatusCode: status, Message: msg, Code: eb.Code}
	}
}

// File: hotelier/api/auth.go
package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"hotelier/models"
	"hotelier/utils"
)

// Login authenticates with email and password and populates the session.
// A 401 here means bad credentials, never a refresh trigger.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	c.session.Authenticating()
	var auth models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", models.Credentials{Email: email, Password: password}, &auth)
	if err != nil {
		if utils.IsAuthError(err) {
			c.session.Fail("invalid email or password")
		} else {
			c.session.Fail("server unreachable, please try again")
		}
		return nil, err
	}
	if auth.AccessToken == "" || auth.Identity == nil {
		c.session.Fail("malformed login response")
		return nil, &utils.APIError{StatusCode: http.StatusOK, Message: "login response missing token or identity"}
	}
	c.session.Set(auth.AccessToken, auth.Identity)
	return auth.Identity, nil
}

// Register creates an account and signs the new user in. A duplicate email
// surfaces as a ConflictError verbatim.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.Identity, error) {
	c.session.Authenticating()
	var auth models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", reg, &auth)
	if err != nil {
		c.session.Clear()
		return nil, err
	}
	if auth.AccessToken == "" || auth.Identity == nil {
		c.session.Fail("malformed registration response")
		return nil, &utils.APIError{StatusCode: http.StatusOK, Message: "registration response missing token or identity"}
	}
	c.session.Set(auth.AccessToken, auth.Identity)
	return auth.Identity, nil
}

// Logout tells the backend to revoke the session, then clears local state.
// Best-effort: a failed revoke is logged, never surfaced.
func (c *Client) Logout(ctx context.Context) {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		c.log.Debug("logout call failed", zap.Error(err))
	}
	c.session.Clear()
}

// Me fetches the current identity record.
func (c *Client) Me(ctx context.Context) (*models.Identity, error) {
	var identity models.Identity
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// UpdateMe patches the profile and returns the updated identity.
func (c *Client) UpdateMe(ctx context.Context, patch models.IdentityPatch) (*models.Identity, error) {
	var identity models.Identity
	if err := c.do(ctx, http.MethodPatch, "/api/auth/me", patch, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

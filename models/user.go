package models

// Identity is the authenticated user record returned by the auth endpoints.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IdentityPatch carries the mutable profile fields for PATCH /api/auth/me.
// Nil fields are omitted from the request.
type IdentityPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Credentials is the payload for POST /api/auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the payload for POST /api/auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the success body of the login/register/refresh endpoints.
// Refresh responses omit the identity.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Identity    *Identity `json:"identity,omitempty"`
}

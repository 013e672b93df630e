package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// The client never holds the signing secret, so tokens are parsed without
// signature verification. Claims are advisory: the backend is the authority
// and will answer 401 if the token is actually bad.

// TokenClaims extracts the claims of a bearer token without validating it.
func TokenClaims(tokenString string) (jwt.MapClaims, error) {
	parser := &jwt.Parser{}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpiry returns the exp claim of a token, or an error if absent.
func TokenExpiry(tokenString string) (time.Time, error) {
	claims, err := TokenClaims(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errors.New("token does not contain an 'exp' claim")
	}
	return time.Unix(int64(exp), 0), nil
}

// TokenSubject extracts the subject (user ID) from a bearer token.
func TokenSubject(tokenString string) (string, error) {
	claims, err := TokenClaims(tokenString)
	if err != nil {
		return "", err
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}

// IsTokenExpired reports whether the token expires within the given leeway.
// Tokens without an exp claim are treated as non-expiring.
func IsTokenExpired(tokenString string, leeway time.Duration) bool {
	exp, err := TokenExpiry(tokenString)
	if err != nil {
		return false
	}
	return time.Now().Add(leeway).After(exp)
}

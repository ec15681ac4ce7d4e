// Package utils provides token issuing/verification and password checking
// helpers shared by the login handler and the auth middleware.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid is returned for any token that fails signature, structure
// or claim checks, except expiry which is reported as ErrTokenExpired.
var ErrTokenInvalid = errors.New("token invalid")

// ErrTokenExpired is returned for a well-formed, correctly signed token whose
// exp claim lies in the past.
var ErrTokenExpired = errors.New("token expired")

// AccessToken is a signed HS256 JWT along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// Principal is the identity extracted from a verified token.
type Principal struct {
	Username string
	Roles    []string
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claims are
// sub (username), roles, exp and iat.
func NewAccessToken(secret, username string, roles []string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   username,
		"roles": roles,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken parses and validates a raw bearer token and returns the
// principal carried in its claims. The signing method must be HMAC; tokens
// signed any other way are rejected.
func VerifyAccessToken(secret, raw string) (Principal, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrTokenExpired
		}
		return Principal{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Principal{}, ErrTokenInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrTokenInvalid
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return Principal{}, ErrTokenInvalid
	}

	// The roles claim round-trips through JSON as []interface{}.
	var roles []string
	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range rawRoles {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
	}
	return Principal{Username: username, Roles: roles}, nil
}

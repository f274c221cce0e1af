// Package tokens mints and verifies the stateless HS256 access and refresh
// tokens handed out by the auth endpoints.
package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, wrong kind and expiry all look the same to callers.
var ErrInvalidToken = errors.New("invalid token")

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	UserID int64 `json:"user_id"`
	Kind   Kind  `json:"typ"`
	jwt.RegisteredClaims
}

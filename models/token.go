package models

import "github.com/golang-jwt/jwt/v5"

// Token bundles a parsed or freshly signed JWT with the fields the
// application actually consumes.
type Token struct {
	Token        *jwt.Token `json:"-"`
	SignedString string     `json:"token"`
	UserID       int64      `json:"user_id,omitempty"`
}

package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims are the JWT claims issued after a successful login.
type TokenClaims struct {
	Type      string `json:"type"`
	AccountID string `json:"account_id"`
	Login     string `json:"login,omitempty"`
	jwt.RegisteredClaims
}

package models

import "github.com/golang-jwt/jwt/v5"

// CustomClaims is the payload of a ledger access token. The subject user is
// carried in UserID; TokenType guards against other token kinds signed with
// the same key.
type CustomClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type"`
}

package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TokenTypeAccess = "access"

// clockSkew tolerated on exp/nbf between API replicas
const clockSkew = 5 * time.Second

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token is expired")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")

	// Both are rejections of an otherwise well-formed token.
	ErrInvalidIssuer    = fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	ErrInvalidTokenType = fmt.Errorf("%w: not an access token", ErrInvalidToken)
)

// TokenService signs and verifies RS256 access tokens
type TokenService struct {
	cfg    config.JWTConfig
	parser *jwt.Parser
	now    func() time.Time
}

func NewTokenService(jwtConfig *config.JWTConfig) TokenServiceInterface {
	return &TokenService{
		cfg: *jwtConfig,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(jwtConfig.Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
		now: time.Now,
	}
}

// GenerateAccessToken returns the signed token and the moment it stops being accepted
func (ts *TokenService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("generate access token: nil user")
	}

	issuedAt := ts.now()
	expiresAt := issuedAt.Add(ts.cfg.AccessTokenDuration)
	subject := user.ID.String()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    subject,
		Email:     user.Email,
		TokenType: TokenTypeAccess,
	}).SignedString(ts.cfg.PrivateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

func (ts *TokenService) ValidateAccessToken(tokenString string) (*models.CustomClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	claims := new(models.CustomClaims)
	_, err := ts.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return ts.cfg.PublicKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return nil, ErrInvalidIssuer
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}

// ExtractTokenFromHeader accepts "Bearer <token>" with any casing of the scheme
func (ts *TokenService) ExtractTokenFromHeader(authHeader string) (string, error) {
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", ErrInvalidAuthHeader
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}

package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"atelier/internal/models"
)

const (
	tokenIssuer   = "atelier-api"
	tokenAudience = "atelier-client"

	// DefaultTokenTTL matches the session length clients expect.
	DefaultTokenTTL = 7 * 24 * time.Hour
)

// TokenService issues and verifies stateless signed session tokens.
// Verification proves only that the token was issued by this service and
// has not expired; callers must re-resolve the embedded user ID against
// the user store.
type TokenService struct {
	secret string
	ttl    time.Duration
}

// NewTokenService returns a TokenService signing with secret. A zero ttl
// falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue signs a token carrying userID. It fails only on configuration
// error (missing secret).
func (s *TokenService) Issue(userID uint) (string, error) {
	if s.secret == "" {
		return "", models.NewTokenError(fmt.Errorf("signing secret not configured"))
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", models.NewTokenError(fmt.Errorf("sign token: %w", err))
	}
	return signed, nil
}

// Verify checks the signature, expiry, issuer and audience of token and
// returns the embedded user ID. Any failure is an authentication error;
// the ID is not guaranteed to still map to an existing user.
func (s *TokenService) Verify(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, models.NewAuthenticationError("Authorization required")
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(s.secret), nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, models.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, models.NewAuthenticationError("Invalid token claims")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return 0, models.NewAuthenticationError("Invalid user ID in token")
	}
	return uint(userID), nil
}

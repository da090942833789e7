package accounts

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkoch/rezeptblog/internal/models"
)

// DefaultResetTTL is how long a password-reset token stays valid.
const DefaultResetTTL = 600 * time.Second

// resetClaim is the claim carrying the user id, kept compatible with the
// tokens the previous deployment issued.
const resetClaim = "reset_password"

// IssueResetToken produces a signed HS256 token embedding the user id and an
// expiry ttl from now. Pass 0 to use DefaultResetTTL.
func (s *Service) IssueResetToken(user *models.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	claims := jwt.MapClaims{
		resetClaim: user.ID,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.resetSecret)
}

// VerifyResetToken resolves a token back to its user. Any failure (malformed,
// wrong signature, expired, unknown user) yields nil; the caller treats that
// as "no user" and never sees an error.
func (s *Service) VerifyResetToken(ctx context.Context, tokenStr string) *models.User {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.resetSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	raw, ok := claims[resetClaim].(float64)
	if !ok || raw <= 0 {
		return nil
	}
	user, err := s.FindByID(ctx, uint(raw))
	if err != nil {
		return nil
	}
	return user
}

// Package telegram exposes the household's plans, lists, and recipe lookups
// through a Telegram bot webhook.
package telegram

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LinkSigner issues and verifies the short-lived tokens that tie a Telegram
// chat to a household. The web app hands the token to the user, the user
// pastes it to the bot, and the bot verifies it was minted by us.
type LinkSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewLinkSigner creates a signer. Tokens expire after 24 hours.
func NewLinkSigner(secret string) *LinkSigner {
	return &LinkSigner{secret: []byte(secret), ttl: 24 * time.Hour}
}

// Sign mints a link token for a household.
func (s *LinkSigner) Sign(householdID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   householdID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	return token.SignedString(s.secret)
}

// Verify checks the token's signature and expiry and returns the household ID.
func (s *LinkSigner) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid link token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("link token has no household")
	}
	return claims.Subject, nil
}

package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Token purposes. The purpose marker prevents a token issued for one action
// from being replayed against another: a session token can never unsubscribe
// anyone, and an unsubscribe link grants no login.
const (
	PurposeSession     = "session"
	PurposeUnsubscribe = "unsubscribe"
)

const (
	// UnsubscribeTTL is the validity window of unsubscribe links.
	UnsubscribeTTL = 7 * 24 * time.Hour
	// UserSessionTTL is the lifetime of reader login tokens.
	UserSessionTTL = 7 * 24 * time.Hour
	// AdminSessionTTL is the lifetime of admin login tokens.
	AdminSessionTTL = 24 * time.Hour
)

const defaultSecret = "nitai-blogs-secret-change-me"

var secret = []byte(defaultSecret)

// SetSecret configures the process-wide signing secret, called once on
// startup. Rotating it invalidates every outstanding token, session and
// unsubscribe links alike.
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

// Claims is the signed payload shared by session and unsubscribe tokens.
type Claims struct {
	Purpose      string `json:"purpose"`
	UserID       string `json:"uid,omitempty"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	IsDemo       bool   `json:"isDemo,omitempty"`
	SubscriberID string `json:"subId,omitempty"`
	jwtlib.RegisteredClaims
}

// SignSession creates a login token for a user or admin.
func SignSession(userID, email, name, role string, isDemo bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Purpose: PurposeSession,
		UserID:  userID,
		Email:   email,
		Name:    name,
		Role:    role,
		IsDemo:  isDemo,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
}

// SignUnsubscribe creates a 7-day unsubscribe capability token for a
// subscriber. Tokens are stateless: several valid tokens for the same
// subscriber can coexist, and none can be revoked short of rotating the
// secret.
func SignUnsubscribe(subscriberID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Purpose:      PurposeUnsubscribe,
		SubscriberID: subscriberID,
		Email:        email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(UnsubscribeTTL)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
}

// Parse validates a token's signature and expiry and returns the claims.
// Callers must still check Purpose before trusting the token for an action.
func Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

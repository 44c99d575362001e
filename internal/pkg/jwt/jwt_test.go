package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestSignAndParseSession(t *testing.T) {
	token, err := SignSession("u1", "reader@example.com", "Reader", "user", false, time.Hour)
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Purpose != PurposeSession {
		t.Errorf("purpose = %q, want %q", claims.Purpose, PurposeSession)
	}
	if claims.UserID != "u1" || claims.Email != "reader@example.com" || claims.Role != "user" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestSignAndParseUnsubscribe(t *testing.T) {
	token, err := SignUnsubscribe("sub1", "reader@example.com")
	if err != nil {
		t.Fatalf("SignUnsubscribe: %v", err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Purpose != PurposeUnsubscribe {
		t.Errorf("purpose = %q, want %q", claims.Purpose, PurposeUnsubscribe)
	}
	if claims.SubscriberID != "sub1" {
		t.Errorf("subscriberID = %q, want %q", claims.SubscriberID, "sub1")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < UnsubscribeTTL-time.Minute || ttl > UnsubscribeTTL {
		t.Errorf("ttl = %v, want about %v", ttl, UnsubscribeTTL)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", raw)
		}
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := SignSession("u1", "reader@example.com", "Reader", "user", false, -time.Minute)
	if err != nil {
		t.Fatalf("SignSession: %v", err)
	}
	if _, err := Parse(token); err == nil {
		t.Error("Parse accepted an expired token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	forged := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		Purpose:      PurposeUnsubscribe,
		SubscriberID: "sub1",
		Email:        "reader@example.com",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte("attacker-secret"))
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}
	if _, err := Parse(signed); err == nil {
		t.Error("Parse accepted a token signed with the wrong secret")
	}
}

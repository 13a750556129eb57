// Package testutil holds in-memory fakes and helpers shared by package tests.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func GenerateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

// SignToken returns an RS256 token for email that expires after ttl.
// A negative ttl yields an already expired token.
func SignToken(t *testing.T, key *rsa.PrivateKey, email string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   "uid-" + email,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func BearerHeader(token string) string {
	return "Bearer " + token
}

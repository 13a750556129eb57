// Package auth verifies bearer credentials issued by the identity provider.
package auth

import (
	"context"
	"errors"
)

var ErrMissingEmail = errors.New("token has no email claim")

// Claims are the identity attributes decoded from a verified token.
type Claims struct {
	Subject string
	Email   string
}

// Verifier validates a raw bearer token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

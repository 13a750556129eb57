package middleware

import (
	"log"
	"strings"

	"github.com/chachabrian/parcel-backend/internal/apperrors"
	"github.com/chachabrian/parcel-backend/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	claimsKey = "claims"
	emailKey  = "email"
)

// AuthMiddleware requires a valid bearer token. A missing or malformed
// Authorization header is rejected with 401 before any verification; a
// token that fails verification is rejected with 403.
func AuthMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, verifier)
	}
}

// OptionalAuth verifies the bearer token when one is sent and lets
// anonymous requests through.
func OptionalAuth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		authenticate(c, verifier)
	}
}

func authenticate(c *gin.Context, verifier auth.Verifier) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		apperrors.Abort(c, apperrors.NewUnauthenticated("unauthorized access"))
		return
	}

	claims, err := verifier.Verify(c.Request.Context(), token)
	if err != nil {
		log.Printf("Token verification failed: %v", err)
		apperrors.Abort(c, apperrors.NewForbidden("forbidden access", err))
		return
	}

	c.Set(claimsKey, claims)
	c.Set(emailKey, claims.Email)
	c.Next()
}

func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ClaimsFrom returns the claims attached by AuthMiddleware, if any.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

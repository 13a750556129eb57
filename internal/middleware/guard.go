package middleware

import (
	"github.com/chachabrian/parcel-backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// RequireQueryEmailMatch rejects requests whose query parameter names an
// identity other than the authenticated one. It must run after
// AuthMiddleware. An absent parameter is left for the handler to default.
func RequireQueryEmailMatch(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			apperrors.Abort(c, apperrors.NewUnauthenticated("unauthorized access"))
			return
		}

		if requested := c.Query(param); requested != "" && requested != claims.Email {
			apperrors.Abort(c, apperrors.NewForbidden("forbidden access", nil))
			return
		}
		c.Next()
	}
}

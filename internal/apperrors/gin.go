package apperrors

import (
	"log"

	"github.com/gin-gonic/gin"
)

// Abort writes err as a JSON error response and stops the handler chain.
// Upstream causes are logged, never sent to the client.
func Abort(c *gin.Context, err error) {
	if KindOf(err) == Upstream {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(Status(err), gin.H{"error": Message(err)})
}

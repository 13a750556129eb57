package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "Parcel server is running")
	}
}

// Health runs every check with a timeout and reports 503 if any is down.
func Health(checks map[string]HealthCheck) gin.HandlerFunc {
	started := time.Now()
	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := "UP"
		code := http.StatusOK
		results := make(map[string]Check, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = Check{Status: "DOWN", Message: "Cannot connect to " + name}
				status = "DOWN"
				code = http.StatusServiceUnavailable
				continue
			}
			results[name] = Check{Status: "UP"}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(started).Round(time.Second).String(),
			"version":   version,
			"checks":    results,
		})
	}
}

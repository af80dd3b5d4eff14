package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const Version = "1.0.0"

// HealthCheck answers without authentication. A store that does not answer
// within two seconds turns the check into a 503.
func HealthCheck(store Pinger, env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, database, success := http.StatusOK, "Connected", true
		if err := store.Ping(ctx); err != nil {
			status, database, success = http.StatusServiceUnavailable, "Disconnected", false
		}

		c.JSON(status, gin.H{
			"success":     success,
			"message":     "Job Tracker API is running",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": env,
			"version":     Version,
			"database":    database,
		})
	}
}

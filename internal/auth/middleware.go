package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-tracker/internal/logging"
)

const (
	ownerKey = "ownerID"

	// DevToken together with the X-User-ID header authenticates a request
	// as that user when the development bypass is on.
	DevToken     = "test_token"
	DevUserIDHdr = "X-User-ID"
)

type MiddlewareOptions struct {
	Verifier  Verifier
	DevBypass bool
	Log       logging.Logger
}

// Middleware rejects requests without a valid session and stores the owner
// id for OwnerID.
func Middleware(opts MiddlewareOptions) gin.HandlerFunc {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token := bearerToken(c.GetHeader("Authorization"))

		if opts.DevBypass && token == DevToken {
			if owner := strings.TrimSpace(c.GetHeader(DevUserIDHdr)); owner != "" {
				log.Debug(ctx, "development auth bypass", "owner", owner)
				setOwner(c, owner)
				c.Next()
				return
			}
		}

		if token == "" || opts.Verifier == nil {
			unauthorized(c, "Authentication required")
			return
		}

		owner, err := opts.Verifier.Verify(ctx, token)
		if err != nil {
			log.Warn(ctx, "session verification failed", "error", err)
			unauthorized(c, "Authentication required")
			return
		}

		setOwner(c, owner)
		c.Next()
	}
}

// OwnerID returns the authenticated owner, or "" outside the middleware.
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}

func setOwner(c *gin.Context, owner string) {
	c.Set(ownerKey, owner)
	c.Request = c.Request.WithContext(logging.ContextWithFields(c.Request.Context(), "owner", owner))
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": msg,
	})
}

package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/galmuri/galmuri/internal/config"
)

// HeaderAPIKey is the request header carrying the client credential.
const HeaderAPIKey = "X-API-Key"

// ContextKeyUserID is the gin context key holding the authenticated
// user's id.
const ContextKeyUserID = "auth_user_id"

// Middleware authenticates requests by API key.
type Middleware struct {
	config      config.Auth
	publicPaths map[string]bool
}

func NewMiddleware(cfg config.Auth) *Middleware {
	return &Middleware{
		config: cfg,
		publicPaths: map[string]bool{
			"/":       true,
			"/health": true,
			"/ping":   true,
		},
	}
}

// Handler returns a gin middleware that rejects requests without a valid
// API key and stores the authenticated user id in the context.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.publicPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		key, err := ParseAPIKey(c.GetHeader(HeaderAPIKey), m.config.MinTokenLength)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid API key",
			})
			return
		}

		c.Set(ContextKeyUserID, key.UserID)
		c.Next()
	}
}

// GetUserID extracts the authenticated user's id from the gin context.
// Returns "" when the request was not authenticated.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

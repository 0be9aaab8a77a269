package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyUsername = "username"

// UsernameFromContext returns the current username set by RequireToken.
// Empty if not set.
func UsernameFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyUsername)
	if !ok {
		return ""
	}
	username, ok := v.(string)
	if !ok {
		return ""
	}
	return username
}

// RequireToken returns a middleware that checks for a valid bearer token in
// the Authorization header and sets the current username in context.
// If missing or invalid, responds with 401.
func RequireToken(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad auth"})
			return
		}
		username, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(contextKeyUsername, username)
		c.Next()
	}
}

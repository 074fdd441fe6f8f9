package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requireAPIKey guards the API group. A missing key is 401, a wrong
// key 403.
func requireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-API-Key")
		if got == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "missing API key, add an X-API-Key header",
			})
			return
		}
		if got != key {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status": "error",
				"error":  "invalid API key",
			})
			return
		}
		c.Next()
	}
}

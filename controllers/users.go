package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CallerHeader = "X-User-ID"
	callerKey    = "caller"
)

// CallerIdentity reads the trusted caller id set by the upstream auth layer.
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(CallerHeader))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity", "code": "Unauthorized"})
			return
		}
		c.Set(callerKey, id)
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(callerKey)
}

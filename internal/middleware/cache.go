package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl sets a public max-age, used for the question images.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}

// NoStore marks responses as uncacheable. Session state and results change
// on every answer.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

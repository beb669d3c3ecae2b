package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware opens the contact relay to any origin. The site may be served
// from a different host than the relay, and the relay accepts only POST.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCORSHeaders(c)

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SetCORSHeaders writes the relay's CORS headers. Responses produced outside
// the contact route group, such as its 405, use it directly.
func SetCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Max-Age", "86400") // 24 hours
}

package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets response headers that stop browsers from sniffing or framing API output
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

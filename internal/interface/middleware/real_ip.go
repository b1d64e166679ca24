package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the client address and stores it under the "real_ip"
// context key. CF-Connecting-IP wins over X-Forwarded-For (left-most entry);
// when neither carries a parseable address it falls back to c.ClientIP().
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ip := validIP(c.GetHeader("CF-Connecting-IP")); ip != "" {
			c.Set("real_ip", ip)
			c.Next()
			return
		}
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := validIP(first); ip != "" {
				c.Set("real_ip", ip)
				c.Next()
				return
			}
		}
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

// validIP returns the canonical form of s when it parses as an IP, else "".
func validIP(s string) string {
	if ip := net.ParseIP(strings.TrimSpace(s)); ip != nil {
		return ip.String()
	}
	return ""
}

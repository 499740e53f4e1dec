package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"openform/handlers"

	"github.com/gin-gonic/gin"
)

// AdminAuth gates administrative routes behind a single shared-secret bearer
// token. The token is injected configuration; an empty configured token
// rejects everything rather than letting every request through.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, prefix) {
			unauthorized(c)
			return
		}

		provided := header[len(prefix):]
		if token == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			unauthorized(c)
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, handlers.Response{
		Status:  false,
		Message: "Unauthorized",
	})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const subjectCtxKey = "subject"

// operatorMiddleware requires a Bearer token when auth is configured and
// lets everything through otherwise.
func (h *Handler) operatorMiddleware(c *gin.Context) {
	if !h.services.Enabled() {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	subject, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(subjectCtxKey, subject)
	c.Next()
}

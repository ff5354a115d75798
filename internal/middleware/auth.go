// internal/middleware/auth.go
package middleware

import (
	"cashback-chain/internal/auth"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const OperatorHeader = "X-Operator-Secret"

type AuthMiddleware struct {
	gate *auth.Gate
}

func NewAuthMiddleware(gate *auth.Gate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

func (m *AuthMiddleware) RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader(OperatorHeader)
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": OperatorHeader + " header required"})
			return
		}

		if err := m.gate.Check(secret); err != nil {
			slog.Warn("operator request rejected", "path", c.FullPath(), "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Doors are closed"})
			return
		}

		c.Next()
	}
}

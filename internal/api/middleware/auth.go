package middleware

import (
	"net/http"
	"strings"

	"ctchen222/minimax-tic-tac-toe/internal/api/response"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const playerIDKey = "player.id"

// Auth rejects requests without a valid token. The token is read from the
// Authorization header or, for websocket clients, the token query parameter.
func Auth(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			response.ErrorResponse(c, http.StatusUnauthorized, "missing token")
			c.Abort()
			return
		}

		claims, err := users.ParseToken(token)
		if err != nil {
			response.ErrorResponse(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("player.id", claims.Subject))
		c.Set(playerIDKey, claims.Subject)
		c.Next()
	}
}

// PlayerID returns the authenticated player id.
func PlayerID(c *gin.Context) string {
	return c.GetString(playerIDKey)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

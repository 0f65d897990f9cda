package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/response"
)

const contextUserIDKey = "auth.user_id"

// Middleware rejects requests without a valid access token and stores the
// principal's user id in the gin context. Websocket clients that cannot set
// headers may pass the token as the "token" query parameter.
func Middleware(tokens *TokenManager, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			response.Unauthorized(c, "missing access token")
			return
		}

		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			logger.Debugw("rejected access token", "error", err, "path", c.FullPath())
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(contextUserIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalMiddleware stores the principal when a valid token is present and
// lets anonymous requests through.
func OptionalMiddleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := bearerToken(c.GetHeader("Authorization")); tokenStr != "" {
			if claims, err := tokens.Parse(tokenStr); err == nil {
				c.Set(contextUserIDKey, claims.UserID)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, if any.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// SetUserID stores id as the request principal.
func SetUserID(c *gin.Context, id int64) {
	c.Set(contextUserIDKey, id)
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireUserID returns the principal or writes a 401 when the route was
// registered without Middleware.
func RequireUserID(c *gin.Context) (int64, bool) {
	id, ok := UserID(c)
	if !ok {
		response.Unauthorized(c, "missing access token")
	}
	return id, ok
}

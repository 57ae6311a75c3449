package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/pkg/helpers"
)

// CtxUserIDKey holds the authenticated user id.
const CtxUserIDKey = "userID"

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}

// Authenticated reads the session cookie and verifies it. It never touches the database.
func Authenticated(jwt *helpers.JWTManager, cookieName string, logger *logrus.Logger) Guard {
	return func(c *gin.Context) *Rejection {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			return reject(http.StatusUnauthorized, "authentication required")
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			helpers.LogWarn(logger, "session verification failed", err, logrus.Fields{
				"request_id": c.GetString(CtxRequestIDKey),
				"path":       c.Request.URL.Path,
			})
			return reject(http.StatusUnauthorized, "invalid or expired session")
		}
		c.Set(CtxUserIDKey, claims.UserID)
		return nil
	}
}

// RequireAuth rejects requests without a valid session cookie with 401.
func RequireAuth(jwt *helpers.JWTManager, cookieName string, logger *logrus.Logger) gin.HandlerFunc {
	return Chain(Authenticated(jwt, cookieName, logger))
}

// OptionalAuth sets the user id when a valid session cookie is present and
// otherwise lets the request through anonymously.
func OptionalAuth(jwt *helpers.JWTManager, cookieName string) Guard {
	return func(c *gin.Context) *Rejection {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			return nil
		}
		if claims, err := jwt.Verify(token); err == nil {
			c.Set(CtxUserIDKey, claims.UserID)
		}
		return nil
	}
}

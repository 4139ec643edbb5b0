package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finance/internal/errors"
	"finance/internal/logger"
	"finance/internal/models"
	"finance/internal/session"
)

const (
	userIDKey    = "userID"
	sessionIDKey = "sessionID"
)

// LoginPath is where anonymous visitors of protected pages are sent.
const LoginPath = "/login"

// SessionResolver looks up the live session for a cookie token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Session, error)
}

// LoadSession resolves the session cookie, if any, and stores the user and
// session IDs in the context. Missing, forged or expired sessions leave the
// request anonymous.
func LoadSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.Token(c)
		if token == "" {
			c.Next()
			return
		}

		sess, err := resolver.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(userIDKey, sess.UserID)
			c.Set(sessionIDKey, sess.ID)
		case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrSessionExpired):
			logger.Get().Debugw("ignoring session cookie", "reason", err.Error())
		default:
			RespondError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireLogin rejects anonymous requests: pages redirect to the login
// form, API calls get a 401 error object.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); ok {
			c.Next()
			return
		}
		if IsAPI(c) {
			RespondError(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	}
}

// UserID returns the authenticated user's ID.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}

// SetUserID marks the request as authenticated as userID.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}

// IsAuthenticated reports whether the request carries a live session.
func IsAuthenticated(c *gin.Context) bool {
	_, ok := UserID(c)
	return ok
}

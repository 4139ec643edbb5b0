package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "finance/internal/errors"
	"finance/internal/logger"
)

// ApologyTemplate is the HTML template rendered for page errors.
const ApologyTemplate = "apology.html"

// IsAPI reports whether the request targets the JSON API.
func IsAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// RespondError writes err as a JSON error object for API requests and as the
// apology page otherwise. AppErrors keep their code, message and status;
// anything else is logged and reported as an internal error.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", RequestID(c),
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
			"request_id", RequestID(c),
		)
	}

	if IsAPI(c) {
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.HTML(appErr.StatusCode, ApologyTemplate, gin.H{
		"Code":     appErr.StatusCode,
		"Message":  appErr.Message,
		"LoggedIn": IsAuthenticated(c),
	})
}

// ErrorHandler returns a Gin middleware that renders the last error set on
// the context when the handler did not write a response itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		RespondError(c, c.Errors.Last().Err)
	}
}

// Recovery turns panics into a 500 apology instead of a dropped connection.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Get().Errorw("panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", RequestID(c),
		)
		RespondError(c, apperrors.FromStatus(http.StatusInternalServerError))
		c.Abort()
	})
}

// NoRoute renders a 404 for unknown paths.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondError(c, apperrors.FromStatus(http.StatusNotFound))
	}
}

// NoMethod renders a 405 for known paths hit with the wrong method.
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondError(c, apperrors.FromStatus(http.StatusMethodNotAllowed))
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/pkg/helpers"
	"github.com/studyforest/study-forest-api/pkg/response"
)

const internalErrorMessage = "internal server error"

// ErrorHandler is the terminal handler for errors pushed with c.Error.
// It logs the detail and answers with the generic 500 envelope.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		helpers.LogError(logger, "unhandled request error", c.Errors.Last().Err, logrus.Fields{
			"request_id": c.GetString(CtxRequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"errors":     c.Errors.String(),
		})
		if c.Writer.Written() {
			return
		}
		response.Error(c, http.StatusInternalServerError, internalErrorMessage, nil)
	}
}

// Recovery turns panics into the generic 500 envelope.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(CtxRequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"panic":      recovered,
		}).Error("panic recovered")
		response.Abort(c, http.StatusInternalServerError, internalErrorMessage)
	})
}

// NotFound answers unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "path not found", nil)
	}
}

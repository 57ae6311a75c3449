package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforest/study-forest-api/internal/application"
	"github.com/studyforest/study-forest-api/pkg/response"
	"github.com/studyforest/study-forest-api/pkg/validation"
)

var statusByError = []struct {
	err    error
	status int
}{
	{application.ErrInvalidCredentials, http.StatusUnauthorized},
	{application.ErrUserNotFound, http.StatusNotFound},
	{application.ErrEmailTaken, http.StatusConflict},
	{application.ErrStudyNotFound, http.StatusNotFound},
	{application.ErrAlreadyMember, http.StatusConflict},
	{application.ErrNotMember, http.StatusNotFound},
	{application.ErrOwnerCannotLeave, http.StatusForbidden},
}

// respondError writes the envelope of an expected failure. Anything else is
// pushed to the terminal error handler.
func respondError(c *gin.Context, err error) {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		response.Error(c, http.StatusBadRequest, verr.Message, verr.Details)
		return
	}
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.err.Error(), nil)
			return
		}
	}
	_ = c.Error(err)
}

// bindJSON decodes the body and answers 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

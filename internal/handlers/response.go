package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/yungbote/milestones-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondServiceError maps the typed validation errors onto 400 and
// everything else onto 500.
func respondServiceError(c *gin.Context, code string, err error) {
	if errors.Is(err, apperr.ErrInvalidArgument) {
		RespondError(c, http.StatusBadRequest, code, err)
		return
	}
	RespondError(c, http.StatusInternalServerError, code, err)
}

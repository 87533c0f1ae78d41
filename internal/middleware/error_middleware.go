package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(status, dto.ErrorResponse{Error: message})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case apperrors.Is(err, apperrors.ErrUnauthorized, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, MsgAuthRequired
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusBadRequest, "Email already exists"
	case errors.Is(err, apperrors.ErrUsernameExists):
		return http.StatusBadRequest, "Username already exists"
	case errors.Is(err, apperrors.ErrAlreadyEnrolled):
		return http.StatusBadRequest, "Already enrolled in this course"
	case errors.Is(err, apperrors.ErrCourseCodeExists):
		return http.StatusBadRequest, "Course code already exists"
	case errors.Is(err, apperrors.ErrCourseNotFound):
		return http.StatusNotFound, "Course not found"
	case errors.Is(err, apperrors.ErrEnrollmentNotFound):
		return http.StatusNotFound, "Enrollment not found"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, customMessage(err, MsgAccessDenied)
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		return http.StatusBadRequest, customMessage(err, "Invalid request")
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func customMessage(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}

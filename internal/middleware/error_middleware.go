package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/canberk/labdrop/internal/app/models/dto"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses. Validation-class
// failures carry their user-visible message; everything unrecognized
// collapses to a generic 500 so internals never leak.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		// Deliberately detail-free: login failures must not reveal which
		// condition failed.
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))

	case errors.Is(err, apperrors.ErrUnauthenticated):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))

	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrDefaultSectionLocked),
		errors.Is(err, apperrors.ErrAdminImmutable):
		c.JSON(403, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())))

	case errors.Is(err, apperrors.ErrPasswordMismatch),
		errors.Is(err, apperrors.ErrCaptchaFailed),
		errors.Is(err, apperrors.ErrInvalidIdentifier),
		errors.Is(err, apperrors.ErrInvalidSlot),
		errors.Is(err, apperrors.ErrInvalidFilename),
		errors.Is(err, apperrors.ErrNoFile),
		errors.Is(err, apperrors.ErrNoConfirmation),
		errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(400, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, userMessage(err))))

	case errors.Is(err, apperrors.ErrSectionNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrFileNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))

	case errors.Is(err, apperrors.ErrIdentifierTaken),
		errors.Is(err, apperrors.ErrSectionAlreadyExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))

	case errors.Is(err, apperrors.ErrDatabase):
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error has occurred")))

	default:
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}

// userMessage keeps the portal's original inline wording for the handful of
// validation failures students actually see.
func userMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrPasswordMismatch):
		return "The passwords you entered do not match. Please try again."
	case errors.Is(err, apperrors.ErrCaptchaFailed):
		return "You have failed the CAPTCHA. Are you sure you're not a robot?"
	case errors.Is(err, apperrors.ErrNoFile):
		return "No file chosen. Please choose a file to upload."
	case errors.Is(err, apperrors.ErrNoConfirmation):
		return "No confirmation. Please try again."
	default:
		return err.Error()
	}
}

package middleware

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/canberk/labdrop/internal/pkg/apperrors"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	HandleAPIError(c, err)
	return rec
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.ErrInvalidCredentials, 401},
		{apperrors.ErrUnauthenticated, 401},
		{apperrors.ErrDefaultSectionLocked, 403},
		{apperrors.ErrAdminImmutable, 403},
		{apperrors.ErrPasswordMismatch, 400},
		{apperrors.ErrCaptchaFailed, 400},
		{apperrors.ErrInvalidSlot, 400},
		{apperrors.ErrNoConfirmation, 400},
		{apperrors.ErrSectionNotFound, 404},
		{apperrors.ErrStudentNotFound, 404},
		{apperrors.ErrFileNotFound, 404},
		{apperrors.ErrIdentifierTaken, 409},
		{apperrors.ErrSectionAlreadyExists, 409},
		{apperrors.ErrDatabase, 500},
		{fmt.Errorf("surprise"), 500},
	}
	for _, c := range cases {
		rec := respond(t, c.err)
		assert.Equal(t, c.status, rec.Code, "error %v", c.err)
	}
}

func TestHandleAPIError_LoginFailureIsOpaque(t *testing.T) {
	rec := respond(t, apperrors.ErrInvalidCredentials)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "identifier")
}

func TestHandleAPIError_PortalWording(t *testing.T) {
	rec := respond(t, apperrors.ErrPasswordMismatch)
	assert.Contains(t, rec.Body.String(), "The passwords you entered do not match. Please try again.")

	rec = respond(t, apperrors.ErrNoFile)
	assert.Contains(t, rec.Body.String(), "No file chosen. Please choose a file to upload.")

	rec = respond(t, apperrors.ErrNoConfirmation)
	assert.Contains(t, rec.Body.String(), "No confirmation. Please try again.")
}

func TestHandleAPIError_WrappedDatabaseError(t *testing.T) {
	wrapped := fmt.Errorf("%w: connection refused", apperrors.ErrDatabase)
	rec := respond(t, wrapped)
	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, rec.Body.String(), "Database error has occurred")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

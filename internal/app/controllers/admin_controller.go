package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/canberk/labdrop/internal/app/models/dto"
	"github.com/canberk/labdrop/internal/app/services"
	"github.com/canberk/labdrop/internal/middleware"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
)

// AdminController handles section and student management endpoints
type AdminController struct {
	adminService     services.AdminService
	authService      services.AuthService
	workspaceService services.WorkspaceService
	logger           zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	adminService services.AdminService,
	authService services.AuthService,
	workspaceService services.WorkspaceService,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		adminService:     adminService,
		authService:      authService,
		workspaceService: workspaceService,
		logger:           logger,
	}
}

// ListSections returns every section
// @Summary List sections
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse
// @Router /admin/sections [get]
func (c *AdminController) ListSections(ctx *gin.Context) {
	sections, err := c.adminService.ListSections(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      sections,
		Timestamp: time.Now(),
	})
}

// CreateSection registers a new section name
// @Summary Create a section
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSectionRequest true "Section to create"
// @Success 201 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Section already exists"
// @Router /admin/sections [post]
func (c *AdminController) CreateSection(ctx *gin.Context) {
	var req dto.CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Invalid request body"))
		return
	}

	section, err := c.adminService.CreateSection(ctx.Request.Context(), req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("section", section.Name).Msg("Section created")

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      section,
		Timestamp: time.Now(),
	})
}

// DeleteSection removes a section and every student enrolled in it
// @Summary Delete a section and its students
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Section name"
// @Param request body dto.DeleteRequest true "Confirmation"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing confirmation"
// @Failure 403 {object} dto.ErrorResponse "Default section is protected"
// @Router /admin/sections/{name} [delete]
func (c *AdminController) DeleteSection(ctx *gin.Context) {
	name := ctx.Param("name")

	var req dto.DeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrNoConfirmation)
		return
	}

	if err := c.adminService.DeleteSection(ctx.Request.Context(), name, req.Confirmation); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("section", name).Msg("Section deleted")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Section deleted"},
		Timestamp: time.Now(),
	})
}

// ListSectionStudents returns the students enrolled in a section
// @Summary List students in a section
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param name path string true "Section name"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /admin/sections/{name}/students [get]
func (c *AdminController) ListSectionStudents(ctx *gin.Context) {
	name := ctx.Param("name")

	students, err := c.adminService.ListSectionStudents(ctx.Request.Context(), name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      students,
		Timestamp: time.Now(),
	})
}

// GetStudentWorkspace returns any student's workspace listing
// @Summary Inspect a student's workspace
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param identifier path string true "Student identifier"
// @Success 200 {object} dto.APIResponse{data=dto.WorkspaceResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{identifier} [get]
func (c *AdminController) GetStudentWorkspace(ctx *gin.Context) {
	identifier := ctx.Param("identifier")

	ws, err := c.workspaceService.Describe(ctx.Request.Context(), identifier)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      ws,
		Timestamp: time.Now(),
	})
}

// ResetStudentPassword sets a new password on behalf of a student
// @Summary Reset a student's password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param identifier path string true "Student identifier"
// @Param request body dto.PasswordResetRequest true "New password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{identifier}/password [post]
func (c *AdminController) ResetStudentPassword(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.PasswordResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Invalid request body"))
		return
	}
	req.For = ctx.Param("identifier")

	if err := c.authService.ResetPassword(ctx.Request.Context(), identity, req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("identifier", req.For).Msg("Password reset by admin")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Password updated"},
		Timestamp: time.Now(),
	})
}

// DeleteStudent removes a student record, its sessions and its workspace
// @Summary Delete a student
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param identifier path string true "Student identifier"
// @Param request body dto.DeleteRequest true "Confirmation"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin account is protected"
// @Router /admin/students/{identifier} [delete]
func (c *AdminController) DeleteStudent(ctx *gin.Context) {
	identifier := ctx.Param("identifier")

	var req dto.DeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrNoConfirmation)
		return
	}

	if err := c.adminService.DeleteStudent(ctx.Request.Context(), identifier, req.Confirmation); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("identifier", identifier).Msg("Student deleted")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student deleted"},
		Timestamp: time.Now(),
	})
}

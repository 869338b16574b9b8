package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/canberk/labdrop/internal/app/models/dto"
	"github.com/canberk/labdrop/internal/app/services"
	"github.com/canberk/labdrop/internal/middleware"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
)

// WorkspaceController handles the student home view and slot file operations
type WorkspaceController struct {
	workspaceService services.WorkspaceService
}

// NewWorkspaceController creates a new WorkspaceController
func NewWorkspaceController(workspaceService services.WorkspaceService) *WorkspaceController {
	return &WorkspaceController{
		workspaceService: workspaceService,
	}
}

// Home returns the caller's workspace: the three slots and their files
// @Summary Get own workspace
// @Tags workspace
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.WorkspaceResponse}
// @Router /me [get]
func (c *WorkspaceController) Home(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	ws, err := c.workspaceService.Describe(ctx.Request.Context(), identity.Identifier)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      ws,
		Timestamp: time.Now(),
	})
}

// Upload stores a multipart file into one of the caller's slots
// @Summary Upload a file into an assignment slot
// @Tags workspace
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param slot path string true "Slot name (lab8, lab9, project)"
// @Param inputfile formData file true "File to upload"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid slot or missing file"
// @Router /me/uploads/{slot} [post]
func (c *WorkspaceController) Upload(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	slot := ctx.Param("slot")

	fileHeader, err := ctx.FormFile("inputfile")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrNoFile)
		return
	}

	if err := c.workspaceService.Upload(ctx.Request.Context(), identity.Identifier, slot, fileHeader); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "File uploaded"},
		Timestamp: time.Now(),
	})
}

// DeleteFile removes a single named file from one of the caller's slots
// @Summary Delete a file from an assignment slot
// @Tags workspace
// @Produce json
// @Security BearerAuth
// @Param slot path string true "Slot name (lab8, lab9, project)"
// @Param filename path string true "File name"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /me/uploads/{slot}/{filename} [delete]
func (c *WorkspaceController) DeleteFile(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	slot := ctx.Param("slot")
	filename := ctx.Param("filename")

	if err := c.workspaceService.DeleteFile(ctx.Request.Context(), identity.Identifier, slot, filename); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "File deleted"},
		Timestamp: time.Now(),
	})
}

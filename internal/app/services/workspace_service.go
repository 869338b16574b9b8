package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/canberk/labdrop/internal/app/models/dto"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/validation"
	"github.com/canberk/labdrop/internal/pkg/workspace"
)

// WorkspaceService defines the interface for workspace operations
type WorkspaceService interface {
	Describe(ctx context.Context, identifier string) (*dto.WorkspaceResponse, error)
	Upload(ctx context.Context, identifier, slot string, fileHeader *multipart.FileHeader) error
	DeleteFile(ctx context.Context, identifier, slot, filename string) error
}

// workspaceServiceImpl implements the WorkspaceService interface
type workspaceServiceImpl struct {
	workspaces WorkspaceManager
	baseURL    string
	logger     zerolog.Logger
}

// NewWorkspaceService creates a new WorkspaceService. baseURL is the public
// base under which workspace files are served.
func NewWorkspaceService(workspaces WorkspaceManager, baseURL string, logger zerolog.Logger) WorkspaceService {
	return &workspaceServiceImpl{
		workspaces: workspaces,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// Describe returns the slot listings and public link of a student's workspace.
func (s *workspaceServiceImpl) Describe(ctx context.Context, identifier string) (*dto.WorkspaceResponse, error) {
	if !s.workspaces.Exists(identifier) {
		return nil, apperrors.ErrStudentNotFound
	}

	slots, err := s.workspaces.List(identifier)
	if err != nil {
		s.logger.Error().Err(err).Str("identifier", identifier).Msg("Error listing workspace")
		return nil, fmt.Errorf("error listing workspace: %w", err)
	}

	return &dto.WorkspaceResponse{
		Identifier: identifier,
		Link:       s.baseURL + "/student/" + identifier,
		Slots:      slots,
	}, nil
}

// Upload stores an uploaded file into one of the caller's assignment slots.
func (s *workspaceServiceImpl) Upload(ctx context.Context, identifier, slot string, fileHeader *multipart.FileHeader) error {
	if !workspace.IsValidSlot(slot) {
		return apperrors.ErrInvalidSlot
	}

	if fileHeader == nil {
		return apperrors.ErrNoFile
	}

	filename := validation.SanitizeFilename(fileHeader.Filename)
	if filename == "" {
		return apperrors.ErrInvalidFilename
	}

	if err := s.workspaces.SaveFile(fileHeader, identifier, slot, filename); err != nil {
		s.logger.Error().Err(err).Str("identifier", identifier).Str("slot", slot).Msg("Error saving uploaded file")
		return fmt.Errorf("error saving file: %w", err)
	}

	return nil
}

// DeleteFile removes a single named file from one of the caller's slots.
func (s *workspaceServiceImpl) DeleteFile(ctx context.Context, identifier, slot, filename string) error {
	if !workspace.IsValidSlot(slot) {
		return apperrors.ErrInvalidSlot
	}

	clean := validation.SanitizeFilename(filename)
	if clean == "" || clean != filename {
		return apperrors.ErrInvalidFilename
	}

	if err := s.workspaces.DeleteFile(identifier, slot, clean); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.ErrFileNotFound
		}
		s.logger.Error().Err(err).Str("identifier", identifier).Str("slot", slot).Str("filename", clean).Msg("Error deleting file")
		return fmt.Errorf("error deleting file: %w", err)
	}

	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/canberk/labdrop/internal/app/models"
	"github.com/canberk/labdrop/internal/app/models/dto"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
)

// AdminService defines the interface for section and student management
type AdminService interface {
	ListSections(ctx context.Context) ([]*models.Section, error)
	CreateSection(ctx context.Context, name string) (*models.Section, error)
	DeleteSection(ctx context.Context, name, confirmation string) error
	ListSectionStudents(ctx context.Context, sectionName string) ([]*models.Student, error)
	DeleteStudent(ctx context.Context, identifier, confirmation string) error
}

// adminServiceImpl implements the AdminService interface
type adminServiceImpl struct {
	studentRepo    StudentStore
	sectionRepo    SectionStore
	sessionRepo    SessionStore
	workspaces     WorkspaceManager
	defaultSection string
	logger         zerolog.Logger
}

// NewAdminService creates a new AdminService. defaultSection is the
// bootstrap section that is protected from deletion.
func NewAdminService(
	studentRepo StudentStore,
	sectionRepo SectionStore,
	sessionRepo SessionStore,
	workspaces WorkspaceManager,
	defaultSection string,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		studentRepo:    studentRepo,
		sectionRepo:    sectionRepo,
		sessionRepo:    sessionRepo,
		workspaces:     workspaces,
		defaultSection: defaultSection,
		logger:         logger,
	}
}

// ListSections returns all sections
func (s *adminServiceImpl) ListSections(ctx context.Context) ([]*models.Section, error) {
	sections, err := s.sectionRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing sections")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	return sections, nil
}

// CreateSection creates a new section
func (s *adminServiceImpl) CreateSection(ctx context.Context, name string) (*models.Section, error) {
	section := &models.Section{Name: name}

	if err := s.sectionRepo.Create(ctx, section); err != nil {
		if errors.Is(err, apperrors.ErrSectionAlreadyExists) {
			return nil, apperrors.ErrSectionAlreadyExists
		}
		s.logger.Error().Err(err).Str("name", name).Msg("Error creating section")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	return section, nil
}

// ListSectionStudents returns all students in a section
func (s *adminServiceImpl) ListSectionStudents(ctx context.Context, sectionName string) ([]*models.Student, error) {
	exists, err := s.sectionRepo.Exists(ctx, sectionName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}
	if !exists {
		return nil, apperrors.ErrSectionNotFound
	}

	students, err := s.studentRepo.GetBySection(ctx, sectionName)
	if err != nil {
		s.logger.Error().Err(err).Str("section", sectionName).Msg("Error listing section students")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	return students, nil
}

// DeleteSection destroys a section and, one at a time, every non-admin
// student in it: the student record, their sessions, and their workspace
// tree. There is no atomicity across the batch; a mid-loop failure aborts
// the cascade and leaves the students already processed deleted.
func (s *adminServiceImpl) DeleteSection(ctx context.Context, name, confirmation string) error {
	if confirmation != dto.ConfirmationToken {
		return apperrors.ErrNoConfirmation
	}

	if name == s.defaultSection {
		return apperrors.ErrDefaultSectionLocked
	}

	exists, err := s.sectionRepo.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}
	if !exists {
		return apperrors.ErrSectionNotFound
	}

	students, err := s.studentRepo.GetBySection(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Str("section", name).Msg("Error loading students for cascade delete")
		return fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	for _, student := range students {
		if student.IsAdmin() {
			continue
		}
		if err := s.destroyStudent(ctx, student.Identifier); err != nil {
			s.logger.Error().Err(err).Str("identifier", student.Identifier).Str("section", name).Msg("Cascade delete aborted mid-batch")
			return err
		}
	}

	if err := s.sectionRepo.Delete(ctx, name); err != nil {
		s.logger.Error().Err(err).Str("section", name).Msg("Error deleting section record")
		return fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	s.logger.Info().Str("section", name).Int("students", len(students)).Msg("Section deleted")
	return nil
}

// DeleteStudent destroys a single student record and their workspace tree.
// The admin account is protected.
func (s *adminServiceImpl) DeleteStudent(ctx context.Context, identifier, confirmation string) error {
	if confirmation != dto.ConfirmationToken {
		return apperrors.ErrNoConfirmation
	}

	if identifier == models.AdminIdentifier {
		return apperrors.ErrAdminImmutable
	}

	if err := s.destroyStudent(ctx, identifier); err != nil {
		return err
	}

	s.logger.Info().Str("identifier", identifier).Msg("Student deleted")
	return nil
}

// destroyStudent removes a student's sessions, record, and workspace tree,
// in that order: sessions go first so a deleted student cannot keep a live
// login, and the record goes before the tree so a filesystem failure never
// leaves a record pointing at a missing workspace.
func (s *adminServiceImpl) destroyStudent(ctx context.Context, identifier string) error {
	if err := s.sessionRepo.DeleteForIdentifier(ctx, identifier); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	if err := s.studentRepo.Delete(ctx, identifier); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	if err := s.workspaces.Remove(identifier); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	return nil
}

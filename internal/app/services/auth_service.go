package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appauth "github.com/canberk/labdrop/internal/app/auth"
	"github.com/canberk/labdrop/internal/app/models"
	"github.com/canberk/labdrop/internal/app/models/dto"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/auth"
	"github.com/canberk/labdrop/internal/pkg/captcha"
	"github.com/canberk/labdrop/internal/pkg/validation"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest, remoteIP string) (*dto.TokenResponse, error)
	Login(ctx context.Context, req dto.LoginRequest, remoteIP string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, caller appauth.Identity) error
	ResetPassword(ctx context.Context, caller appauth.Identity, req dto.PasswordResetRequest) error
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	studentRepo StudentStore
	sectionRepo SectionStore
	sessionRepo SessionStore
	workspaces  WorkspaceManager
	verifier    captcha.Verifier
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	studentRepo StudentStore,
	sectionRepo SectionStore,
	sessionRepo SessionStore,
	workspaces WorkspaceManager,
	verifier captcha.Verifier,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		studentRepo: studentRepo,
		sectionRepo: sectionRepo,
		sessionRepo: sessionRepo,
		workspaces:  workspaces,
		verifier:    verifier,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Register creates a student account together with its workspace tree and
// binds a session. The gates run in order and each aborts the whole
// operation: captcha, password confirmation, section existence, identifier
// availability (both in the database and on disk).
func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest, remoteIP string) (*dto.TokenResponse, error) {
	if err := s.verifier.Verify(ctx, req.CaptchaToken, remoteIP); err != nil {
		return nil, apperrors.ErrCaptchaFailed
	}

	if req.Password != req.Password2 {
		return nil, apperrors.ErrPasswordMismatch
	}

	if !validation.IsValidIdentifier(req.Identifier) {
		return nil, apperrors.ErrInvalidIdentifier
	}

	exists, err := s.sectionRepo.Exists(ctx, req.SectionName)
	if err != nil {
		s.logger.Error().Err(err).Str("section", req.SectionName).Msg("Error checking section existence")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}
	if !exists {
		return nil, apperrors.ErrSectionNotFound
	}

	// The identifier must be free both as a record and as a directory name.
	taken, err := s.studentRepo.IdentifierExists(ctx, req.Identifier)
	if err != nil {
		s.logger.Error().Err(err).Str("identifier", req.Identifier).Msg("Error checking identifier existence")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}
	if taken || s.workspaces.Exists(req.Identifier) {
		return nil, apperrors.ErrIdentifierTaken
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		Identifier:  req.Identifier,
		Password:    hashed,
		SectionName: req.SectionName,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrIdentifierTaken) {
			return nil, apperrors.ErrIdentifierTaken
		}
		s.logger.Error().Err(err).Str("identifier", req.Identifier).Msg("Error creating student record")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	// Record and workspace must stay in lockstep: a failed tree creation
	// rolls the record back instead of leaving an orphan.
	if err := s.workspaces.Create(req.Identifier); err != nil {
		s.logger.Error().Err(err).Str("identifier", req.Identifier).Msg("Workspace creation failed, removing student record")
		if delErr := s.studentRepo.Delete(ctx, req.Identifier); delErr != nil {
			s.logger.Error().Err(delErr).Str("identifier", req.Identifier).Msg("Compensating student delete failed")
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	return s.bindSession(ctx, student)
}

// Login authenticates a student. All three conditions must hold: the
// identifier resolves, the password matches the stored hash, and the
// captcha passes. A single generic error covers every failure so callers
// cannot tell which condition failed.
func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest, remoteIP string) (*dto.TokenResponse, error) {
	student, err := s.studentRepo.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Str("identifier", req.Identifier).Msg("Error looking up student on login")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	if !auth.CheckPassword(student.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.verifier.Verify(ctx, req.CaptchaToken, remoteIP); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.bindSession(ctx, student)
}

// Logout clears the caller's session binding. The token stays syntactically
// valid but no longer resolves to an identity.
func (s *authServiceImpl) Logout(ctx context.Context, caller appauth.Identity) error {
	err := s.sessionRepo.Delete(ctx, caller.SessionID)
	if err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) {
		s.logger.Error().Err(err).Str("identifier", caller.Identifier).Msg("Error deleting session on logout")
		return fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	return nil
}

// ResetPassword changes the caller's own password, or any student's when
// the caller is the admin and names a target.
func (s *authServiceImpl) ResetPassword(ctx context.Context, caller appauth.Identity, req dto.PasswordResetRequest) error {
	if req.Password != req.Password2 {
		return apperrors.ErrPasswordMismatch
	}

	target := caller.Identifier
	if caller.Admin && req.For != "" {
		target = req.For
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.studentRepo.UpdatePassword(ctx, target, hashed); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return apperrors.ErrStudentNotFound
		}
		s.logger.Error().Err(err).Str("identifier", target).Msg("Error updating password")
		return fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	s.logger.Info().Str("identifier", target).Msg("Password reset")
	return nil
}

// bindSession issues a token for the student and persists the backing
// session row.
func (s *authServiceImpl) bindSession(ctx context.Context, student *models.Student) (*dto.TokenResponse, error) {
	token, sessionID, err := s.jwtService.GenerateToken(student.Identifier, student.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	session := &models.Session{ID: sessionID, Identifier: student.Identifier}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("identifier", student.Identifier).Msg("Error persisting session")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabase, err)
	}

	return &dto.TokenResponse{
		Token:      token,
		Identifier: student.Identifier,
		Admin:      student.IsAdmin(),
		ExpiresIn:  int(s.jwtService.Expiration().Seconds()),
	}, nil
}

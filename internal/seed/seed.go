package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/canberk/labdrop/internal/app/models"
	appRepos "github.com/canberk/labdrop/internal/app/repositories"
	"github.com/canberk/labdrop/internal/config"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/auth"
	"github.com/canberk/labdrop/internal/pkg/workspace"
)

// CreateDefaultData ensures the default section and the admin account exist.
// Both are created on first boot and survive every cascade delete afterwards.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, workspaces *workspace.Manager, lgr zerolog.Logger) error {
	sectionRepo := appRepos.NewSectionRepository(dbPool)
	studentRepo := appRepos.NewStudentRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (section/admin)...")
	var finalErr error

	// --- Default Section --- //
	defaultSection := &appModels.Section{Name: cfg.App.DefaultSection}
	if err := sectionRepo.Create(ctx, defaultSection); err != nil && !errors.Is(err, apperrors.ErrSectionAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default section")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Admin Account --- //
	exists, err := studentRepo.IdentifierExists(ctx, appModels.AdminIdentifier)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin account exists")
		return errors.Join(finalErr, err)
	}
	if exists {
		lgr.Info().Msg("Admin account already exists, skipping creation")
		return finalErr
	}

	lgr.Info().Msg("Creating default admin account...")

	hashedPassword, err := auth.HashPassword(cfg.App.AdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin := &appModels.Student{
		Identifier:  appModels.AdminIdentifier,
		Password:    hashedPassword,
		SectionName: cfg.App.DefaultSection,
	}
	if err := studentRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		return errors.Join(finalErr, err)
	}

	// The admin gets a workspace too, so the home view works for it.
	if err := workspaces.Create(appModels.AdminIdentifier); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin workspace")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default admin account created successfully")
	return finalErr
}

package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canberk/labdrop/internal/app/models"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/dberrors"
	"github.com/canberk/labdrop/internal/pkg/logger"
)

// SectionRepository handles database operations for sections
type SectionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSectionRepository creates a new SectionRepository
func NewSectionRepository(db *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new section
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	sql, args, err := r.sb.Insert("sections").
		Columns("name").
		Values(section.Name).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create section query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrSectionAlreadyExists
		}
		logger.Error().Err(err).Str("name", section.Name).Msg("Error creating section")
		return fmt.Errorf("error creating section: %w", err)
	}

	return nil
}

// GetAll retrieves all sections ordered by name
func (r *SectionRepository) GetAll(ctx context.Context) ([]*models.Section, error) {
	sql, args, err := r.sb.Select("name").
		From("sections").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all sections query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying sections")
		return nil, fmt.Errorf("error querying sections: %w", err)
	}
	defer rows.Close()

	sections := []*models.Section{}
	for rows.Next() {
		section := &models.Section{}
		if err := rows.Scan(&section.Name); err != nil {
			return nil, fmt.Errorf("error scanning section row: %w", err)
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section rows: %w", err)
	}

	return sections, nil
}

// Exists checks whether a section exists
func (r *SectionRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sections WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking section existence: %w", err)
	}

	return exists, nil
}

// Delete removes a section. Callers must destroy or detach the section's
// students first; a remaining reference surfaces as a foreign key error.
func (r *SectionRepository) Delete(ctx context.Context, name string) error {
	sql, args, err := r.sb.Delete("sections").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete section query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("name", name).Msg("Error deleting section")
		return fmt.Errorf("error deleting section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}

	return nil
}

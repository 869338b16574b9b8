package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canberk/labdrop/internal/app/models"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/dberrors"
	"github.com/canberk/labdrop/internal/pkg/logger"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new student record
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("identifier", "password", "section_name").
		Values(student.Identifier, student.Password, student.SectionName).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrIdentifierTaken
		}
		logger.Error().Err(err).Str("identifier", student.Identifier).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByIdentifier retrieves a student by identifier
func (r *StudentRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error) {
	sql, args, err := r.sb.Select("identifier", "password", "section_name").
		From("students").
		Where(squirrel.Eq{"identifier": identifier}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student := &models.Student{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.Identifier, &student.Password, &student.SectionName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("identifier", identifier).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	return student, nil
}

// IdentifierExists checks whether an identifier is already taken
func (r *StudentRepository) IdentifierExists(ctx context.Context, identifier string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE identifier = $1)`, identifier).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking identifier existence: %w", err)
	}

	return exists, nil
}

// GetBySection retrieves all students assigned to a section
func (r *StudentRepository) GetBySection(ctx context.Context, sectionName string) ([]*models.Student, error) {
	sql, args, err := r.sb.Select("identifier", "password", "section_name").
		From("students").
		Where(squirrel.Eq{"section_name": sectionName}).
		OrderBy("identifier ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get students by section query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("section", sectionName).Msg("Error querying students by section")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student := &models.Student{}
		if err := rows.Scan(&student.Identifier, &student.Password, &student.SectionName); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// UpdatePassword replaces a student's stored password hash
func (r *StudentRepository) UpdatePassword(ctx context.Context, identifier, hashedPassword string) error {
	sql, args, err := r.sb.Update("students").
		Set("password", hashedPassword).
		Where(squirrel.Eq{"identifier": identifier}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("identifier", identifier).Msg("Error updating password")
		return fmt.Errorf("error updating password: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student record
func (r *StudentRepository) Delete(ctx context.Context, identifier string) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"identifier": identifier}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("identifier", identifier).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

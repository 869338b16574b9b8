package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canberk/labdrop/internal/app/models"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/logger"
)

// SessionRepository handles database operations for login sessions
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new session row
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	sql, args, err := r.sb.Insert("sessions").
		Columns("id", "identifier", "created_at").
		Values(session.ID, session.Identifier, session.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("identifier", session.Identifier).Msg("Error creating session")
		return fmt.Errorf("error creating session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	sql, args, err := r.sb.Select("id", "identifier", "created_at").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	session := &models.Session{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&session.ID, &session.Identifier, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error getting session: %w", err)
	}

	return session, nil
}

// Delete removes a session row, invalidating its token
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete session query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sessionID", id).Msg("Error deleting session")
		return fmt.Errorf("error deleting session: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}

// DeleteForIdentifier removes every session bound to an identifier. Used
// when a student account is destroyed.
func (r *SessionRepository) DeleteForIdentifier(ctx context.Context, identifier string) error {
	sql, args, err := r.sb.Delete("sessions").
		Where(squirrel.Eq{"identifier": identifier}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete sessions query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("identifier", identifier).Msg("Error deleting sessions for identifier")
		return fmt.Errorf("error deleting sessions: %w", err)
	}

	return nil
}

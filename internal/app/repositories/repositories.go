package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	StudentRepository *StudentRepository
	SectionRepository *SectionRepository
	SessionRepository *SessionRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(db),
		SectionRepository: NewSectionRepository(db),
		SessionRepository: NewSessionRepository(db),
	}
}

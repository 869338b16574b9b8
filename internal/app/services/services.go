package services

import (
	"context"
	"mime/multipart"

	"github.com/canberk/labdrop/internal/app/models"
	"github.com/canberk/labdrop/internal/pkg/workspace"
)

// Services defined in this package:
// - AuthService: registration, login, logout, password reset
// - WorkspaceService: listing, uploading into and deleting from assignment slots
// - AdminService: section and student management, cascading deletion

// StudentStore defines the student persistence operations services depend on
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error)
	IdentifierExists(ctx context.Context, identifier string) (bool, error)
	GetBySection(ctx context.Context, sectionName string) ([]*models.Student, error)
	UpdatePassword(ctx context.Context, identifier, hashedPassword string) error
	Delete(ctx context.Context, identifier string) error
}

// SectionStore defines the section persistence operations services depend on
type SectionStore interface {
	Create(ctx context.Context, section *models.Section) error
	GetAll(ctx context.Context) ([]*models.Section, error)
	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) error
}

// SessionStore defines the session persistence operations services depend on
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteForIdentifier(ctx context.Context, identifier string) error
}

// WorkspaceManager defines the filesystem workspace operations services depend on
type WorkspaceManager interface {
	Exists(identifier string) bool
	Create(identifier string) error
	Remove(identifier string) error
	List(identifier string) ([]workspace.SlotListing, error)
	SaveFile(fileHeader *multipart.FileHeader, identifier, slot, filename string) error
	DeleteFile(identifier, slot, filename string) error
}

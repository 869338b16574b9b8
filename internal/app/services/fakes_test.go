package services

import (
	"context"
	"errors"
	"sort"

	"github.com/canberk/labdrop/internal/app/models"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/workspace"
)

// In-memory store fakes backing the service tests. Each fake keeps its
// records in a map and supports per-call error injection through the err
// fields.

type fakeStudentStore struct {
	students  map[string]*models.Student
	createErr error
	lookupErr error
	deleteErr error
	updateErr error
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: map[string]*models.Student{}}
}

func (f *fakeStudentStore) Create(ctx context.Context, student *models.Student) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.students[student.Identifier]; ok {
		return apperrors.ErrIdentifierTaken
	}
	cp := *student
	f.students[student.Identifier] = &cp
	return nil
}

func (f *fakeStudentStore) GetByIdentifier(ctx context.Context, identifier string) (*models.Student, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	student, ok := f.students[identifier]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *student
	return &cp, nil
}

func (f *fakeStudentStore) IdentifierExists(ctx context.Context, identifier string) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	_, ok := f.students[identifier]
	return ok, nil
}

func (f *fakeStudentStore) GetBySection(ctx context.Context, sectionName string) ([]*models.Student, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var out []*models.Student
	for _, student := range f.students {
		if student.SectionName == sectionName {
			cp := *student
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out, nil
}

func (f *fakeStudentStore) UpdatePassword(ctx context.Context, identifier, hashedPassword string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	student, ok := f.students[identifier]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	student.Password = hashedPassword
	return nil
}

func (f *fakeStudentStore) Delete(ctx context.Context, identifier string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.students[identifier]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, identifier)
	return nil
}

type fakeSectionStore struct {
	sections map[string]bool
	err      error

	// students, when set, enforces the students.section_name foreign key:
	// a section cannot be deleted while a student row still references it.
	students *fakeStudentStore
}

func newFakeSectionStore(names ...string) *fakeSectionStore {
	f := &fakeSectionStore{sections: map[string]bool{}}
	for _, name := range names {
		f.sections[name] = true
	}
	return f
}

func (f *fakeSectionStore) Create(ctx context.Context, section *models.Section) error {
	if f.err != nil {
		return f.err
	}
	if f.sections[section.Name] {
		return apperrors.ErrSectionAlreadyExists
	}
	f.sections[section.Name] = true
	return nil
}

func (f *fakeSectionStore) GetAll(ctx context.Context) ([]*models.Section, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Section
	for name := range f.sections {
		out = append(out, &models.Section{Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSectionStore) Exists(ctx context.Context, name string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.sections[name], nil
}

func (f *fakeSectionStore) Delete(ctx context.Context, name string) error {
	if f.err != nil {
		return f.err
	}
	if !f.sections[name] {
		return apperrors.ErrSectionNotFound
	}
	if f.students != nil {
		for _, student := range f.students.students {
			if student.SectionName == name {
				return errors.New("section is still referenced by students")
			}
		}
	}
	delete(f.sections, name)
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*models.Session
	err      error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.Session{}}
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.Session) error {
	if f.err != nil {
		return f.err
	}
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	session, ok := f.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.sessions[id]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) DeleteForIdentifier(ctx context.Context, identifier string) error {
	if f.err != nil {
		return f.err
	}
	for id, session := range f.sessions {
		if session.Identifier == identifier {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeSessionStore) countFor(identifier string) int {
	n := 0
	for _, session := range f.sessions {
		if session.Identifier == identifier {
			n++
		}
	}
	return n
}

// failingWorkspaces wraps a real manager and lets tests force Create to
// fail, which the registration path must compensate for.
type failingWorkspaces struct {
	*workspace.Manager
	createErr error
}

func (f *failingWorkspaces) Create(identifier string) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.Manager.Create(identifier)
}

var _ WorkspaceManager = (*failingWorkspaces)(nil)
var _ StudentStore = (*fakeStudentStore)(nil)
var _ SectionStore = (*fakeSectionStore)(nil)
var _ SessionStore = (*fakeSessionStore)(nil)

var errBoom = errors.New("boom")

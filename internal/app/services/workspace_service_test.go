package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/workspace"
)

type workspaceFixture struct {
	manager *workspace.Manager
	svc     WorkspaceService
}

func newWorkspaceFixture(t *testing.T) *workspaceFixture {
	t.Helper()

	manager, err := workspace.NewManager(t.TempDir())
	require.NoError(t, err)

	return &workspaceFixture{
		manager: manager,
		svc:     NewWorkspaceService(manager, "http://localhost:8080/", zerolog.Nop()),
	}
}

// uploadHeader builds a real multipart.FileHeader the way gin produces one
// from a form upload.
func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("inputfile", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, header, err := req.FormFile("inputfile")
	require.NoError(t, err)
	return header
}

func TestDescribe(t *testing.T) {
	f := newWorkspaceFixture(t)
	require.NoError(t, f.manager.Create("alice"))
	path := filepath.Join(f.manager.StudentDir("alice"), workspace.SlotLab8, "hw.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	resp, err := f.svc.Describe(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Identifier)
	assert.Equal(t, "http://localhost:8080/student/alice", resp.Link)
	require.Len(t, resp.Slots, 3)
	require.Len(t, resp.Slots[0].Files, 1)
	assert.Equal(t, "hw.txt", resp.Slots[0].Files[0].Name)
}

func TestDescribe_UnknownStudent(t *testing.T) {
	f := newWorkspaceFixture(t)

	_, err := f.svc.Describe(context.Background(), "ghost")
	require.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestUpload(t *testing.T) {
	f := newWorkspaceFixture(t)
	require.NoError(t, f.manager.Create("alice"))

	header := uploadHeader(t, "solution.zip", "zipbytes")
	require.NoError(t, f.svc.Upload(context.Background(), "alice", workspace.SlotProject, header))

	content, err := os.ReadFile(filepath.Join(f.manager.StudentDir("alice"), workspace.SlotProject, "solution.zip"))
	require.NoError(t, err)
	assert.Equal(t, "zipbytes", string(content))
}

func TestUpload_SanitizesClientPath(t *testing.T) {
	f := newWorkspaceFixture(t)
	require.NoError(t, f.manager.Create("alice"))

	header := uploadHeader(t, "../../escape.txt", "x")
	require.NoError(t, f.svc.Upload(context.Background(), "alice", workspace.SlotLab8, header))

	// The file landed inside the slot under its base name only.
	_, err := os.Stat(filepath.Join(f.manager.StudentDir("alice"), workspace.SlotLab8, "escape.txt"))
	require.NoError(t, err)
}

func TestUpload_InvalidSlot(t *testing.T) {
	f := newWorkspaceFixture(t)
	require.NoError(t, f.manager.Create("alice"))

	header := uploadHeader(t, "a.txt", "x")
	err := f.svc.Upload(context.Background(), "alice", "lab10", header)
	require.ErrorIs(t, err, apperrors.ErrInvalidSlot)
}

func TestUpload_MissingFile(t *testing.T) {
	f := newWorkspaceFixture(t)
	require.NoError(t, f.manager.Create("alice"))

	err := f.svc.Upload(context.Background(), "alice", workspace.SlotLab8, nil)
	require.ErrorIs(t, err, apperrors.ErrNoFile)
}

func TestDeleteFile(t *testing.T) {
	f := newWorkspaceFixture(t)
	require.NoError(t, f.manager.Create("alice"))
	path := filepath.Join(f.manager.StudentDir("alice"), workspace.SlotLab9, "old.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, f.svc.DeleteFile(context.Background(), "alice", workspace.SlotLab9, "old.txt"))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestDeleteFile_NotFound(t *testing.T) {
	f := newWorkspaceFixture(t)
	require.NoError(t, f.manager.Create("alice"))

	err := f.svc.DeleteFile(context.Background(), "alice", workspace.SlotLab9, "ghost.txt")
	require.ErrorIs(t, err, apperrors.ErrFileNotFound)
}

func TestDeleteFile_RejectsPathTraversal(t *testing.T) {
	f := newWorkspaceFixture(t)
	require.NoError(t, f.manager.Create("alice"))

	for _, name := range []string{"../secret", "a/b.txt", "..", ""} {
		err := f.svc.DeleteFile(context.Background(), "alice", workspace.SlotLab8, name)
		require.ErrorIs(t, err, apperrors.ErrInvalidFilename, "filename %q", name)
	}
}

func TestDeleteFile_InvalidSlot(t *testing.T) {
	f := newWorkspaceFixture(t)

	err := f.svc.DeleteFile(context.Background(), "alice", "homework", "a.txt")
	require.ErrorIs(t, err, apperrors.ErrInvalidSlot)
}

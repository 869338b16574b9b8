package workspace

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"

	"github.com/canberk/labdrop/internal/pkg/logger"
)

// Slot names are the fixed assignment subdirectories of every workspace.
const (
	SlotLab8    = "lab8"
	SlotLab9    = "lab9"
	SlotProject = "project"
)

// Slots lists the fixed assignment slots in display order.
var Slots = []string{SlotLab8, SlotLab9, SlotProject}

// IsValidSlot reports whether name is one of the fixed assignment slots.
func IsValidSlot(name string) bool {
	return name == SlotLab8 || name == SlotLab9 || name == SlotProject
}

// File describes a single stored file inside a slot.
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// SlotListing describes one slot directory and its files.
type SlotListing struct {
	Slot  string `json:"slot"`
	Files []File `json:"files"`
}

// Manager owns the per-student workspace trees under a single base directory.
type Manager struct {
	basePath string
}

// NewManager creates a Manager rooted at basePath, creating the directory
// if it does not exist.
func NewManager(basePath string) (*Manager, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create workspace root directory")
		return nil, fmt.Errorf("failed to create workspace root %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Workspace root directory ensured")

	return &Manager{basePath: basePath}, nil
}

// BasePath returns the workspace root directory.
func (m *Manager) BasePath() string {
	return m.basePath
}

// StudentDir returns the top-level directory of a student's workspace.
func (m *Manager) StudentDir(identifier string) string {
	return filepath.Join(m.basePath, identifier)
}

// Exists reports whether a workspace directory already exists for identifier.
func (m *Manager) Exists(identifier string) bool {
	info, err := os.Stat(m.StudentDir(identifier))
	return err == nil && info.IsDir()
}

// Create builds the full workspace tree for a student: the top-level
// directory plus one subdirectory per slot. A partially created tree is
// removed before returning an error.
func (m *Manager) Create(identifier string) error {
	dir := m.StudentDir(identifier)

	if err := os.Mkdir(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create workspace directory")
		return fmt.Errorf("failed to create workspace for %s: %w", identifier, err)
	}

	for _, slot := range Slots {
		if err := os.Mkdir(filepath.Join(dir, slot), os.ModePerm); err != nil {
			logger.Error().Err(err).Str("slot", slot).Str("identifier", identifier).Msg("Failed to create slot directory")
			_ = os.RemoveAll(dir)
			return fmt.Errorf("failed to create slot %s for %s: %w", slot, identifier, err)
		}
	}

	logger.Info().Str("identifier", identifier).Msg("Workspace created")
	return nil
}

// Remove recursively deletes a student's workspace tree. Removing a
// workspace that does not exist is not an error.
func (m *Manager) Remove(identifier string) error {
	dir := m.StudentDir(identifier)
	if err := os.RemoveAll(dir); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to remove workspace")
		return fmt.Errorf("failed to remove workspace for %s: %w", identifier, err)
	}

	logger.Info().Str("identifier", identifier).Msg("Workspace removed")
	return nil
}

// List returns the slot listings of a student's workspace in display order.
func (m *Manager) List(identifier string) ([]SlotListing, error) {
	listings := make([]SlotListing, 0, len(Slots))

	for _, slot := range Slots {
		slotDir := filepath.Join(m.StudentDir(identifier), slot)

		entries, err := os.ReadDir(slotDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read slot %s for %s: %w", slot, identifier, err)
		}

		files := make([]File, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, File{Name: entry.Name(), Size: info.Size()})
		}

		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		listings = append(listings, SlotListing{Slot: slot, Files: files})
	}

	return listings, nil
}

// SaveFile writes an uploaded file into a student's slot directory under
// filename. The caller is responsible for slot and filename validation.
func (m *Manager) SaveFile(fileHeader *multipart.FileHeader, identifier, slot, filename string) error {
	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(m.StudentDir(identifier), slot, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write uploaded file content")
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("identifier", identifier).Str("slot", slot).Str("filename", filename).Msg("File saved")
	return nil
}

// DeleteFile removes a single named file from a student's slot directory.
// Returns os.ErrNotExist (wrapped) when the file is missing.
func (m *Manager) DeleteFile(identifier, slot, filename string) error {
	path := filepath.Join(m.StudentDir(identifier), slot, filename)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file %s not found: %w", filename, os.ErrNotExist)
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("identifier", identifier).Str("slot", slot).Str("filename", filename).Msg("File deleted")
	return nil
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lanyardapp/lanyard/pkg/event"
)

// FilesystemEventRepository stores event definitions as YAML files in
// ~/.lanyard/events/. Definitions are the editable, shareable form of an
// event; the SQLite store holds the live records.
type FilesystemEventRepository struct {
	baseDir string
}

// NewFilesystemEventRepository creates a filesystem-based event definition
// repository in the default location.
func NewFilesystemEventRepository() (*FilesystemEventRepository, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return NewFilesystemEventRepositoryWithPath(filepath.Join(homeDir, ".lanyard"))
}

// NewFilesystemEventRepositoryWithPath creates a repository under a custom
// base directory. Useful for testing or custom configurations.
func NewFilesystemEventRepositoryWithPath(baseDir string) (*FilesystemEventRepository, error) {
	eventsDir := filepath.Join(baseDir, "events")

	if err := os.MkdirAll(eventsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create events directory: %w", err)
	}

	return &FilesystemEventRepository{
		baseDir: eventsDir,
	}, nil
}

// Save persists an event definition as a YAML file named after its slug.
// The write is atomic: temp file then rename.
func (r *FilesystemEventRepository) Save(ev *event.Event) error {
	if ev == nil {
		return fmt.Errorf("cannot save nil event")
	}

	data, err := event.Export(ev)
	if err != nil {
		return fmt.Errorf("failed to export event definition: %w", err)
	}

	filePath := r.eventPath(ev.Slug)
	tempPath := filePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write event file: %w", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to save event file: %w", err)
	}

	return nil
}

// Load retrieves an event definition by slug.
func (r *FilesystemEventRepository) Load(slug string) (*event.Event, error) {
	if slug == "" {
		return nil, fmt.Errorf("event slug cannot be empty")
	}

	filePath := r.eventPath(slug)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("event not found: %s", slug)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}

	ev, err := event.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event definition: %w", err)
	}

	return ev, nil
}

// Delete removes an event definition file.
func (r *FilesystemEventRepository) Delete(slug string) error {
	if slug == "" {
		return fmt.Errorf("event slug cannot be empty")
	}

	filePath := r.eventPath(slug)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("event not found: %s", slug)
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete event file: %w", err)
	}

	return nil
}

// List returns all event definitions in the repository. Files that fail to
// parse are skipped.
func (r *FilesystemEventRepository) List() ([]*event.Event, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read events directory: %w", err)
	}

	events := make([]*event.Event, 0)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		slug := strings.TrimSuffix(entry.Name(), ".yaml")

		ev, err := r.Load(slug)
		if err != nil {
			continue
		}

		events = append(events, ev)
	}

	return events, nil
}

// eventPath returns the full filesystem path for an event slug.
func (r *FilesystemEventRepository) eventPath(slug string) string {
	return filepath.Join(r.baseDir, slug+".yaml")
}

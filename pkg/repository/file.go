package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// File implements SettingsStore backed by a YAML snapshot on disk. The
// snapshot is read once at construction; every Update rewrites the whole
// file. A missing or unreadable file yields built-in defaults instead of a
// startup failure.
type File struct {
	mu       sync.RWMutex
	path     string
	settings *model.Settings
}

// NewFile creates a file-backed settings store, loading the snapshot at path
func NewFile(ctx context.Context, path string) (interfaces.SettingsStore, error) {
	if path == "" {
		return nil, goerr.New("settings file path is required")
	}

	settings := model.DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		ctxlog.From(ctx).Info("Settings file not found, starting with defaults",
			"path", path)
	case err != nil:
		ctxlog.From(ctx).Warn("Failed to read settings file, starting with defaults",
			"path", path,
			"error", err)
	default:
		if err := yaml.Unmarshal(data, settings); err != nil {
			ctxlog.From(ctx).Warn("Settings file is corrupt, starting with defaults",
				"path", path,
				"error", err)
			settings = model.DefaultSettings()
		}
		settings.Normalize()
	}

	return &File{path: path, settings: settings}, nil
}

// Settings returns a copy of the current snapshot
func (f *File) Settings() *model.Settings {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings.Clone()
}

// Update mutates the authoritative snapshot and persists it
func (f *File) Update(ctx context.Context, mutate func(s *model.Settings)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	mutate(f.settings)

	data, err := yaml.Marshal(f.settings)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal settings")
	}

	// Write to a sibling temp file first so a crash mid-write never leaves a
	// truncated snapshot behind.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write settings file",
			goerr.V("path", tmp))
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return goerr.Wrap(err, "failed to replace settings file",
			goerr.V("path", f.path))
	}
	return nil
}

// Path returns the absolute location of the snapshot file
func (f *File) Path() string {
	abs, err := filepath.Abs(f.path)
	if err != nil {
		return f.path
	}
	return abs
}

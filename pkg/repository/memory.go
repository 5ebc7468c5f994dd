package repository

import (
	"context"
	"sync"

	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/model"
)

// Memory implements SettingsStore without persistence, for tests
type Memory struct {
	mu       sync.RWMutex
	settings *model.Settings
}

// NewMemory creates a memory-backed settings store with default settings
func NewMemory() interfaces.SettingsStore {
	return &Memory{settings: model.DefaultSettings()}
}

// Settings returns a copy of the current snapshot
func (m *Memory) Settings() *model.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.Clone()
}

// Update mutates the snapshot in place
func (m *Memory) Update(ctx context.Context, mutate func(s *model.Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mutate(m.settings)
	return nil
}

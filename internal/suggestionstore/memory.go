package suggestionstore

import (
	"sync"

	"fretloop-scheduler/internal/models"
)

// Memory is the in-memory Store variant used by tests and any caller that
// does not need the pending suggestion to survive a process restart.
type Memory struct {
	mu      sync.Mutex
	pending *models.Suggestion
}

// NewMemory returns an empty in-memory suggestion store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(s models.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := s
	m.pending = &cp
	return nil
}

func (m *Memory) Load() (*models.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return nil, nil
	}
	cp := *m.pending
	return &cp, nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
	return nil
}

var _ Store = (*Memory)(nil)

package state

import (
	"context"
	"sync"
)

// Mock is an in-memory Interface for tests.
type Mock struct {
	mu      sync.Mutex
	prefs   *Prefs
	history []SaveRecord
	closed  bool
}

// NewMock creates an empty mock store.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetPrefs() (*Prefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs == nil {
		return nil, nil //nolint:nilnil // mirrors Manager on first run
	}
	p := *m.prefs
	return &p, nil
}

func (m *Mock) SavePrefs(p Prefs) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = &p
}

func (m *Mock) RecordSave(_ context.Context, r SaveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.history) + 1)
	m.history = append([]SaveRecord{r}, m.history...)
	return nil
}

func (m *Mock) History(_ context.Context, limit int) ([]SaveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	return append([]SaveRecord(nil), m.history[:limit]...), nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Interface = (*Mock)(nil)

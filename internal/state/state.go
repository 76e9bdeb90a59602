// Package state persists user preferences and the save history in SQLite.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/ipv/internal/logging"
)

const (
	appName      = "ipv"
	dbFileName   = "ipv.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Prefs
}

// Open opens the database in the XDG data directory.
func Open() (*Manager, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("resolve state path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return OpenPath(dbPath)
}

// OpenPath opens the database at path. ":memory:" gives a private
// in-memory database.
func OpenPath(path string) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Manager{db: db}, nil
}

// Close flushes pending preferences and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		m.flush(*pending)
	}
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// GetPrefs returns the stored preferences, or nil on first run.
func (m *Manager) GetPrefs() (*Prefs, error) {
	return getPrefs(m.db)
}

// SavePrefs stores p after a short delay. Bursts of changes, such as
// cycling through methods, collapse into one write.
func (m *Manager) SavePrefs(p Prefs) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &p
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			m.flush(*pending)
		}
	})
}

func (m *Manager) flush(p Prefs) {
	if err := savePrefs(m.db, p); err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("save preferences")
	}
}

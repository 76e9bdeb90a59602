package state

import (
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/ipv/internal/db"
)

// Prefs are the choices restored on the next start.
type Prefs struct {
	Workflow      string // "bw" or "cutout"
	Method        string
	ResultType    string
	LastDir       string
	SidebarHidden bool
}

func getPrefs(db *sql.DB) (*Prefs, error) {
	row := db.QueryRow(`
		SELECT workflow, method, result_type, last_dir, sidebar_hidden
		FROM prefs WHERE id = 1
	`)

	var p Prefs
	var method, resultType, lastDir sql.NullString
	err := row.Scan(&p.Workflow, &method, &resultType, &lastDir, &p.SidebarHidden)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved prefs is valid on first run
	}
	if err != nil {
		return nil, err
	}

	p.Method = dbutil.NullStringValue(method)
	p.ResultType = dbutil.NullStringValue(resultType)
	p.LastDir = dbutil.NullStringValue(lastDir)
	return &p, nil
}

func savePrefs(db *sql.DB, p Prefs) error {
	if p.Workflow == "" {
		p.Workflow = "bw"
	}
	_, err := db.Exec(`
		INSERT INTO prefs (id, workflow, method, result_type, last_dir, sidebar_hidden)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			workflow = excluded.workflow,
			method = excluded.method,
			result_type = excluded.result_type,
			last_dir = excluded.last_dir,
			sidebar_hidden = excluded.sidebar_hidden
	`, p.Workflow, dbutil.NullString(p.Method), dbutil.NullString(p.ResultType),
		dbutil.NullString(p.LastDir), p.SidebarHidden)
	return err
}

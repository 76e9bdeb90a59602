package state

import "context"

// Interface is the state store contract used by the app and CLI.
type Interface interface {
	GetPrefs() (*Prefs, error)
	SavePrefs(p Prefs)
	RecordSave(ctx context.Context, r SaveRecord) error
	History(ctx context.Context, limit int) ([]SaveRecord, error)
	Close() error
}

var _ Interface = (*Manager)(nil)

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document or a saved session state is absent.
var ErrNotFound = errors.New("not found")

// DocumentInfo holds a stored document and when it was last written.
type DocumentInfo struct {
	Name      string
	Content   string
	UpdatedAt time.Time
}

// SessionState is the persisted editor session: the open files in open
// order, the active one, and the showId flag of each open file.
type SessionState struct {
	OpenFiles  []string `yaml:"openFiles" firestore:"openFiles"`
	ActiveFile string   `yaml:"activeFile" firestore:"activeFile"`
	ShowID     []bool   `yaml:"showIdPerFile" firestore:"showIdPerFile"`
}

// DocumentStore abstracts document and session persistence.
// Implementations: FileStore, MemoryStore, SQLiteStore, FirestoreStore,
// and CachedStore on top of any of them.
type DocumentStore interface {
	Get(ctx context.Context, name string) (*DocumentInfo, error)
	Put(ctx context.Context, name, content string) error
	List(ctx context.Context) ([]DocumentInfo, error)
	LoadState(ctx context.Context) (*SessionState, error)
	SaveState(ctx context.Context, state SessionState) error
}

func (s SessionState) clone() SessionState {
	return SessionState{
		OpenFiles:  append([]string(nil), s.OpenFiles...),
		ActiveFile: s.ActiveFile,
		ShowID:     append([]bool(nil), s.ShowID...),
	}
}

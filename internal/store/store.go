// Package store provides persistence for calculator history and session state.
package store

// HistoryEntry is one successful calculation.
type HistoryEntry struct {
	ID        int64
	Formula   string
	Result    string
	Timestamp int64 // Unix milliseconds
}

// Store is the interface for history and session-state persistence.
type Store interface {
	// AddHistory records a calculation. An entry with the same formula and
	// result is refreshed with the new timestamp instead of duplicated.
	AddHistory(e HistoryEntry) (int64, error)
	// History returns entries newest first; limit <= 0 returns all.
	History(limit int) ([]HistoryEntry, error)
	// DeleteHistory removes one entry.
	DeleteHistory(id int64) error
	// ClearHistory removes all entries.
	ClearHistory() error
	// SaveState stores the serialized editor state of a session.
	SaveState(session string, data []byte) error
	// LoadState returns the serialized state of a session, nil if none.
	LoadState(session string) ([]byte, error)
	// Close releases resources.
	Close() error
}

// MetadataStore extends Store with metadata operations.
type MetadataStore interface {
	Store
	GetMetadata(key string) (string, error)
	SetMetadata(key, value string) error
}

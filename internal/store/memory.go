package store

import (
	"sort"
	"sync"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu       sync.RWMutex
	history  []HistoryEntry
	nextID   int64
	sessions map[string][]byte
	metadata map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextID:   1,
		sessions: make(map[string][]byte),
		metadata: make(map[string]string),
	}
}

// AddHistory records a calculation.
func (m *Memory) AddHistory(e HistoryEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.history {
		if m.history[i].Formula == e.Formula && m.history[i].Result == e.Result {
			m.history[i].Timestamp = e.Timestamp
			return m.history[i].ID, nil
		}
	}
	e.ID = m.nextID
	m.nextID++
	m.history = append(m.history, e)
	return e.ID, nil
}

// History returns entries newest first.
func (m *Memory) History(limit int) ([]HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.history) == 0 {
		return nil, nil
	}
	entries := append([]HistoryEntry(nil), m.history...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}
		return entries[i].ID > entries[j].ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// DeleteHistory removes one entry.
func (m *Memory) DeleteHistory(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.history {
		if m.history[i].ID == id {
			m.history = append(m.history[:i], m.history[i+1:]...)
			break
		}
	}
	return nil
}

// ClearHistory removes all entries.
func (m *Memory) ClearHistory() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	return nil
}

// SaveState stores the serialized state of a session.
func (m *Memory) SaveState(session string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session] = append([]byte(nil), data...)
	return nil
}

// LoadState returns the serialized state of a session, nil if none.
func (m *Memory) LoadState(session string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.sessions[session]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}

package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func exerciseHistory(t *testing.T, s Store) {
	t.Helper()

	id1, err := s.AddHistory(HistoryEntry{Formula: "2+3", Result: "5", Timestamp: 100})
	if err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}
	if _, err := s.AddHistory(HistoryEntry{Formula: "2×3", Result: "6", Timestamp: 200}); err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}

	entries, err := s.History(0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Formula != "2×3" || entries[1].Formula != "2+3" {
		t.Errorf("expected newest first, got %q then %q", entries[0].Formula, entries[1].Formula)
	}

	// Same calculation again refreshes instead of duplicating
	id3, err := s.AddHistory(HistoryEntry{Formula: "2+3", Result: "5", Timestamp: 300})
	if err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}
	if id3 != id1 {
		t.Errorf("expected id %d to be reused, got %d", id1, id3)
	}

	entries, err = s.History(1)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry with limit, got %d", len(entries))
	}
	if entries[0].Formula != "2+3" || entries[0].Timestamp != 300 {
		t.Errorf("expected refreshed 2+3 at 300, got %+v", entries[0])
	}

	if err := s.DeleteHistory(id1); err != nil {
		t.Fatalf("DeleteHistory failed: %v", err)
	}
	entries, _ = s.History(0)
	if len(entries) != 1 || entries[0].Result != "6" {
		t.Errorf("expected only 2×3 left, got %+v", entries)
	}

	if err := s.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	entries, _ = s.History(0)
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func exerciseState(t *testing.T, s Store) {
	t.Helper()

	got, err := s.LoadState("main")
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown session, got %q", got)
	}

	if err := s.SaveState("main", []byte(`{"result":"1"}`)); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if err := s.SaveState("main", []byte(`{"result":"2"}`)); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	got, err = s.LoadState("main")
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if string(got) != `{"result":"2"}` {
		t.Errorf("expected overwritten state, got %q", got)
	}

	other, _ := s.LoadState("other")
	if other != nil {
		t.Errorf("sessions should not share state, got %q", other)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	exerciseHistory(t, s)
	exerciseState(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "calc.db"))
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	defer s.Close()

	exerciseHistory(t, s)
	exerciseState(t, s)
}

func TestSQLitePersistence(t *testing.T) {
	// Create temp file
	f, err := os.CreateTemp("", "calc-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	if _, err := s.AddHistory(HistoryEntry{Formula: "√9", Result: "3", Timestamp: 1}); err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}
	if err := s.SaveState("main", []byte("{}")); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	// Close and reopen to verify persistence
	s.Close()

	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to reopen SQLite store: %v", err)
	}
	defer s2.Close()

	entries, err := s2.History(0)
	if err != nil {
		t.Fatalf("History after reopen failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Result != "3" {
		t.Errorf("expected persisted entry, got %+v", entries)
	}
	state, _ := s2.LoadState("main")
	if string(state) != "{}" {
		t.Errorf("expected persisted state, got %q", state)
	}
}

func TestSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "calc.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file at %s: %v", path, err)
	}
}

func TestSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	version, err := s.GetMetadata("schema_version")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("expected schema version %s, got %s", SchemaVersion, version)
	}
	s.Close()

	// A database from a newer build is refused
	db, err := sql.Open(driverName, path)
	if err != nil {
		t.Fatalf("Failed to open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE metadata SET value = '99' WHERE key = 'schema_version'"); err != nil {
		t.Fatalf("Failed to bump version: %v", err)
	}
	db.Close()

	if _, err := NewSQLite(path); err == nil {
		t.Error("expected error for unsupported schema version")
	}
}

func TestMetadata(t *testing.T) {
	for name, s := range map[string]MetadataStore{
		"memory": NewMemory(),
	} {
		t.Run(name, func(t *testing.T) {
			if err := s.SetMetadata("k", "v"); err != nil {
				t.Fatalf("SetMetadata failed: %v", err)
			}
			got, _ := s.GetMetadata("k")
			if got != "v" {
				t.Errorf("expected 'v', got %q", got)
			}
			missing, _ := s.GetMetadata("missing")
			if missing != "" {
				t.Errorf("expected empty for missing key, got %q", missing)
			}
		})
	}
}

package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T, value string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "daybook.db")
	writeValue(t, dbPath, value)
	return dbPath
}

func writeValue(t *testing.T, dbPath, value string) {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TEXT NOT NULL)`); err != nil {
		t.Fatalf("failed to create kv table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES ('journalData', ?, '')
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, value); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
}

func readValue(t *testing.T, dbPath string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	var value string
	if err := db.QueryRow("SELECT value FROM kv WHERE key = 'journalData'").Scan(&value); err != nil {
		t.Fatalf("failed to read value: %v", err)
	}
	return value
}

func stubNow(t *testing.T, start time.Time) func() {
	t.Helper()
	current := start
	orig := nowFunc
	nowFunc = func() time.Time { return current }
	t.Cleanup(func() { nowFunc = orig })
	return func() { current = current.Add(time.Hour) }
}

func TestCreate(t *testing.T) {
	stubNow(t, time.Date(2024, 6, 10, 21, 30, 5, 0, time.Local))
	dbPath := setupTestDB(t, `{"a":1}`)

	mgr := NewManager(dbPath, 3)
	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if info.Name() != "daybook-20240610-213005.db" {
		t.Errorf("backup name = %s", info.Name())
	}
	if filepath.Dir(info.Path) != filepath.Join(filepath.Dir(dbPath), "backups") {
		t.Errorf("backup dir = %s", filepath.Dir(info.Path))
	}
	if got := readValue(t, info.Path); got != `{"a":1}` {
		t.Errorf("backup holds %q", got)
	}
}

func TestCreateSameSecondGetsCounter(t *testing.T) {
	stubNow(t, time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local))
	mgr := NewManager(setupTestDB(t, "x"), 5)

	first, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	if first.Path == second.Path || !strings.HasSuffix(second.Name(), "-1.db") {
		t.Errorf("names = %s, %s", first.Name(), second.Name())
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("List() returned %d backups, want 2", len(list))
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"), 3)
	if _, err := mgr.Create(); err == nil {
		t.Error("Create on a missing database should fail")
	}
}

func TestRotation(t *testing.T) {
	advance := stubNow(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local))
	mgr := NewManager(setupTestDB(t, "x"), 3)

	for i := 0; i < 5; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i+1, err)
		}
		advance()
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("kept %d backups, want 3", len(list))
	}
	if list[0].Name() != "daybook-20240601-130000.db" || list[2].Name() != "daybook-20240601-110000.db" {
		t.Errorf("kept %s..%s, want newest three", list[0].Name(), list[2].Name())
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "daybook.db"), 3)
	if list, err := mgr.List(); err != nil || len(list) != 0 {
		t.Fatalf("List() without dir = %v, %v", list, err)
	}

	os.MkdirAll(mgr.Dir(), 0700)
	for _, name := range []string{"notes.txt", "daybook-garbage.db", "daybook-20240601-0900.db"} {
		os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600)
	}
	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %+v, want none", list)
	}
}

func TestRestore(t *testing.T) {
	advance := stubNow(t, time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local))
	dbPath := setupTestDB(t, "before")
	mgr := NewManager(dbPath, 5)

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	advance()
	writeValue(t, dbPath, "after")

	safety, err := mgr.Restore(snapshot.Path)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := readValue(t, dbPath); got != "before" {
		t.Errorf("restored value = %q, want before", got)
	}
	if got := readValue(t, safety.Path); got != "after" {
		t.Errorf("safety backup holds %q, want after", got)
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath := setupTestDB(t, "keep")
	mgr := NewManager(dbPath, 5)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	os.WriteFile(bogus, []byte("not sqlite"), 0600)

	if _, err := mgr.Restore(bogus); err == nil {
		t.Fatal("Restore of a non-database should fail")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatal("Restore of a missing file should fail")
	}
	if got := readValue(t, dbPath); got != "keep" {
		t.Errorf("database changed to %q", got)
	}
}

func TestResolve(t *testing.T) {
	stubNow(t, time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local))
	mgr := NewManager(setupTestDB(t, "x"), 5)
	info, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	if got, err := mgr.Resolve(info.Name()); err != nil || got != info.Path {
		t.Errorf("Resolve(name) = %q, %v", got, err)
	}
	if got, err := mgr.Resolve(info.Path); err != nil || got != info.Path {
		t.Errorf("Resolve(path) = %q, %v", got, err)
	}
	if _, err := mgr.Resolve("daybook-19990101-000000.db"); err == nil {
		t.Error("Resolve of unknown backup should fail")
	}
}

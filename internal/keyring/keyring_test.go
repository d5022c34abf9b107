package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetGetDelete(t *testing.T) {
	gokeyring.MockInit()
	entry := DSN()

	connStr := "postgres://me@localhost:5432/journal?sslmode=disable"
	if err := entry.Set(connStr); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := entry.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != connStr {
		t.Errorf("Get = %q, want %q", got, connStr)
	}

	if err := entry.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := entry.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestSetRejectsBlank(t *testing.T) {
	gokeyring.MockInit()
	if err := DSN().Set("   "); err == nil {
		t.Error("Set with blank secret should fail")
	}
}

func TestDeleteMissing(t *testing.T) {
	gokeyring.MockInit()
	entry := Entry{Service: "daybook-test", User: "nobody"}
	if err := entry.Delete(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete on missing entry = %v, want ErrNotFound", err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should report available")
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	t.Cleanup(gokeyring.MockInit)

	if _, err := DSN().Get(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get = %v, want ErrKeyringUnavailable", err)
	}
	if IsAvailable() {
		t.Error("IsAvailable should be false when keyring errors")
	}
}

package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/mitchellh/go-ps"
)

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

func stubProcesses(t *testing.T, self int, alive map[int]string) {
	t.Helper()
	origFind, origPid := findProcessFunc, getpidFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if name, ok := alive[pid]; ok {
			return fakeProcess{pid: pid, name: name}, nil
		}
		return nil, nil
	}
	getpidFunc = func() int { return self }
	t.Cleanup(func() { findProcessFunc, getpidFunc = origFind, origPid })
}

func TestAcquireAndRelease(t *testing.T) {
	stubProcesses(t, 100, nil)
	dir := t.TempDir()

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	content, _ := os.ReadFile(filepath.Join(dir, "daybook.lock"))
	if string(content) != "100" {
		t.Errorf("lockfile = %q, want 100", content)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "daybook.lock")); !os.IsNotExist(err) {
		t.Error("lockfile should be removed")
	}
}

func TestAcquireRefusesLiveOwner(t *testing.T) {
	stubProcesses(t, 100, map[int]string{200: "daybook"})
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "daybook.lock"), []byte("200\n"), 0600)

	_, err := Acquire(dir)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("Acquire = %v, want ErrAlreadyRunning", err)
	}
	if !strings.Contains(err.Error(), "200") {
		t.Errorf("error should name the owner pid: %v", err)
	}
}

func TestAcquireTakesOverStaleLock(t *testing.T) {
	stubProcesses(t, 100, nil)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "daybook.lock"), []byte("300"), 0600)

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire over stale lock failed: %v", err)
	}
	defer l.Release()
}

func TestAcquireIgnoresGarbage(t *testing.T) {
	stubProcesses(t, 100, nil)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "daybook.lock"), []byte("not a pid"), 0600)

	if _, err := Acquire(dir); err != nil {
		t.Fatalf("Acquire with malformed lockfile failed: %v", err)
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	stubProcesses(t, 100, nil)
	dir := t.TempDir()
	l, err := Acquire(dir)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "daybook.lock"), []byte("999"), 0600)

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "daybook.lock")); err != nil {
		t.Error("Release removed a lockfile owned by another process")
	}
}

func TestAcquireLeavesLiveOwnersFileAlone(t *testing.T) {
	stubProcesses(t, 100, map[int]string{200: "daybook"})
	dir := t.TempDir()
	path := filepath.Join(dir, "daybook.lock")
	os.WriteFile(path, []byte("200"), 0600)

	if _, err := Acquire(dir); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("Acquire = %v, want ErrAlreadyRunning", err)
	}
	content, _ := os.ReadFile(path)
	if string(content) != "200" {
		t.Errorf("lockfile = %q, the live owner's pid must survive", content)
	}
}

func TestAcquireSamePidIsReentrant(t *testing.T) {
	stubProcesses(t, 100, map[int]string{100: "daybook"})
	dir := t.TempDir()
	if _, err := Acquire(dir); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if _, err := Acquire(dir); err != nil {
		t.Fatalf("second Acquire by the same pid failed: %v", err)
	}
}

func TestConcurrentAcquireHasOneWinner(t *testing.T) {
	const contenders = 16
	alive := make(map[int]string, contenders)
	for pid := 1000; pid < 1000+contenders; pid++ {
		alive[pid] = "daybook"
	}
	stubProcesses(t, 0, alive)
	dir := t.TempDir()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []int
	)
	start := make(chan struct{})
	for pid := 1000; pid < 1000+contenders; pid++ {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			<-start
			if _, err := acquire(dir, pid); err == nil {
				mu.Lock()
				winners = append(winners, pid)
				mu.Unlock()
			} else if !errors.Is(err, ErrAlreadyRunning) {
				t.Errorf("acquire(%d) = %v", pid, err)
			}
		}(pid)
	}
	close(start)
	wg.Wait()

	if len(winners) != 1 {
		t.Fatalf("winners = %v, want exactly one", winners)
	}
	content, _ := os.ReadFile(filepath.Join(dir, "daybook.lock"))
	if string(content) != strconv.Itoa(winners[0]) {
		t.Errorf("lockfile = %q, want winner %d", content, winners[0])
	}
}

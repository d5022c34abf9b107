package journal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/daybook/internal/calendar"
	apperrors "github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

// failingKV fails reads or writes for the listed keys.
type failingKV struct {
	*storage.MemoryStore
	failGet map[string]bool
	failSet map[string]bool
}

func newFailingKV() *failingKV {
	return &failingKV{
		MemoryStore: storage.NewMemoryStore(),
		failGet:     map[string]bool{},
		failSet:     map[string]bool{},
	}
}

func (f *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet[key] {
		return "", false, errors.New("disk on fire")
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet[key] {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

type signalRecorder struct {
	signals []Signal
}

func (r *signalRecorder) Notify(s Signal) { r.signals = append(r.signals, s) }

func (r *signalRecorder) last() Signal {
	if len(r.signals) == 0 {
		return Signal(-1)
	}
	return r.signals[len(r.signals)-1]
}

func newTestJournal(t *testing.T, today string, opts ...Option) (*Journal, *storage.MemoryStore, *FixedClock) {
	t.Helper()
	kv := storage.NewMemoryStore()
	clock := &FixedClock{Date: calendar.MustParse(today)}
	j := New(kv, clock, opts...)
	if err := j.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return j, kv, clock
}

func mustGet(t *testing.T, kv storage.KV, key string) string {
	t.Helper()
	value, ok, err := kv.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("Get(%q) = %v, %v", key, ok, err)
	}
	return value
}

func TestNewStartsOnToday(t *testing.T) {
	j, _, _ := newTestJournal(t, "2024-06-10")
	if got := j.CurrentDate().String(); got != "2024-06-10" {
		t.Errorf("CurrentDate() = %s, want 2024-06-10", got)
	}
	if !j.LastViewedDate().IsZero() {
		t.Error("LastViewedDate should start unset")
	}
}

func TestLoadFallsBackPerKey(t *testing.T) {
	ctx := context.Background()
	kv := newFailingKV()
	kv.MemoryStore.Set(ctx, "taskData", `[{"id":"t1","title":"kept","priority":"high","dueDate":"2024-06-10"}]`)
	kv.MemoryStore.Set(ctx, "scheduleData", `{not json`)
	kv.MemoryStore.Set(ctx, "challengeData", `[{"id":"c1","name":"run","startDate":"2024-06-01","achievements":["2024-06-02"]}]`)
	kv.failGet["journalData"] = true

	j := New(kv, &FixedClock{Date: calendar.MustParse("2024-06-10")})
	if err := j.Load(ctx); err != nil {
		t.Fatalf("Load should not fail on read errors: %v", err)
	}

	if len(j.Tasks()) != 1 || j.Tasks()[0].Title != "kept" {
		t.Errorf("Tasks() = %+v, want the stored task", j.Tasks())
	}
	if len(j.Schedules()) != 0 {
		t.Errorf("malformed schedules should fall back to empty, got %+v", j.Schedules())
	}
	if len(j.Challenges()) != 1 {
		t.Errorf("Challenges() = %+v", j.Challenges())
	}
	if len(j.SavedDates()) != 0 {
		t.Error("unreadable journal should fall back to empty")
	}
}

func TestLoadMigratesNestedTasks(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	kv.Set(ctx, "journalData", `{"2024-06-01":{"meditation":{"scripture":"Ps 23","godsPresence":"calm"},"journeyItems":[],
		"tasks":[{"id":"a","title":"from entry","priority":"하"}]}}`)
	kv.Set(ctx, "taskData", `[{"id":"a","title":"stale"},{"id":"b","title":"other"}]`)

	j := New(kv, &FixedClock{Date: calendar.MustParse("2024-06-10")})
	if err := j.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tasks := j.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("Tasks() = %+v, want 2 after dedupe", tasks)
	}
	if tasks[0].ID != "a" || tasks[0].Title != "from entry" || tasks[0].Priority != models.PriorityLow {
		t.Errorf("migrated task = %+v", tasks[0])
	}
	if tasks[0].DueDate != calendar.MustParse("2024-06-01") {
		t.Errorf("migrated DueDate = %s", tasks[0].DueDate)
	}

	if stored := mustGet(t, kv, "journalData"); strings.Contains(stored, "tasks") || strings.Contains(stored, "scripture") {
		t.Errorf("journalData not rewritten: %s", stored)
	}
	if stored := mustGet(t, kv, "taskData"); !strings.Contains(stored, "from entry") {
		t.Errorf("taskData not rewritten: %s", stored)
	}

	again := New(kv, &FixedClock{Date: calendar.MustParse("2024-06-10")})
	if err := again.Load(ctx); err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if len(again.Tasks()) != 2 {
		t.Errorf("second Load changed tasks: %+v", again.Tasks())
	}
}

func TestLoadReportsMigrationWriteFailure(t *testing.T) {
	ctx := context.Background()
	kv := newFailingKV()
	kv.MemoryStore.Set(ctx, "journalData", `{"2024-06-01":{"tasks":[{"id":"a","title":"x"}]}}`)
	kv.failSet["taskData"] = true

	j := New(kv, &FixedClock{Date: calendar.MustParse("2024-06-10")})
	err := j.Load(ctx)
	var werr *apperrors.StorageWriteError
	if !errors.As(err, &werr) || werr.Key != "taskData" {
		t.Fatalf("Load error = %v, want StorageWriteError for taskData", err)
	}
	if len(j.Tasks()) != 1 {
		t.Error("in-memory migration should survive the write failure")
	}
}

func TestSaveWritesAndSignals(t *testing.T) {
	rec := &signalRecorder{}
	j, kv, _ := newTestJournal(t, "2024-06-10", WithNotifier(rec))
	ctx := context.Background()

	j.SetMeditation("grateful")
	j.AddTask("write")
	j.AddSchedule("standup")

	if err := j.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if rec.last() != SignalSaved {
		t.Errorf("signal = %v, want saved", rec.last())
	}
	if stored := mustGet(t, kv, "journalData"); !strings.Contains(stored, `"2024-06-10"`) || !strings.Contains(stored, "grateful") {
		t.Errorf("journalData = %s", stored)
	}
	if stored := mustGet(t, kv, "taskData"); !strings.Contains(stored, `"write"`) {
		t.Errorf("taskData = %s", stored)
	}
	if stored := mustGet(t, kv, "scheduleData"); !strings.Contains(stored, `"standup"`) {
		t.Errorf("scheduleData = %s", stored)
	}

	reloaded := New(kv, &FixedClock{Date: calendar.MustParse("2024-06-10")})
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.CurrentEntry().Meditation.GodsPresence != "grateful" {
		t.Error("meditation did not survive a reload")
	}
	if len(reloaded.Tasks()) != 1 || len(reloaded.Schedules()) != 1 {
		t.Errorf("reloaded tasks=%d schedules=%d", len(reloaded.Tasks()), len(reloaded.Schedules()))
	}
}

func TestSaveEmptyEntryIsDeleted(t *testing.T) {
	rec := &signalRecorder{}
	j, kv, _ := newTestJournal(t, "2024-06-10", WithNotifier(rec))
	ctx := context.Background()

	j.SetMeditation("something")
	if err := j.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	j.SetMeditation("   ")
	j.AddJourneyItem("", "scope only", "")
	if err := j.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if rec.last() != SignalEmptyDeleted {
		t.Errorf("signal = %v, want empty-deleted", rec.last())
	}
	if stored := mustGet(t, kv, "journalData"); stored != "{}" {
		t.Errorf("journalData = %s, want {}", stored)
	}
}

func TestSaveWriteFailureKeepsState(t *testing.T) {
	rec := &signalRecorder{}
	kv := newFailingKV()
	kv.failSet["scheduleData"] = true
	j := New(kv, &FixedClock{Date: calendar.MustParse("2024-06-10")}, WithNotifier(rec))
	j.SetMeditation("keep me")

	err := j.Save(context.Background())
	var werr *apperrors.StorageWriteError
	if !errors.As(err, &werr) || werr.Key != "scheduleData" {
		t.Fatalf("Save error = %v, want StorageWriteError for scheduleData", err)
	}
	if len(rec.signals) != 0 {
		t.Errorf("no signal expected on failure, got %v", rec.signals)
	}
	if j.CurrentEntry().Meditation.GodsPresence != "keep me" {
		t.Error("failed save lost the in-memory entry")
	}
}

func TestSignalString(t *testing.T) {
	if SignalSaved.String() != "saved" || SignalChallengeLimitReached.String() != "challenge-limit-reached" {
		t.Error("unexpected signal names")
	}
}

func TestSystemClockUsesLocation(t *testing.T) {
	today := SystemClock{}.Today()
	if today.IsZero() {
		t.Error("SystemClock returned zero date")
	}
}

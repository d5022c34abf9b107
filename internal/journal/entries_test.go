package journal

import (
	"errors"
	"testing"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/models"
)

func TestEntryReadHasNoSideEffect(t *testing.T) {
	j, _, _ := newTestJournal(t, "2024-06-10")
	date := calendar.MustParse("2024-05-01")

	entry := j.Entry(date)
	if !entry.IsEmpty() || entry.JourneyItems == nil {
		t.Errorf("default entry = %+v", entry)
	}
	entry.Meditation.GodsPresence = "mutated copy"

	if _, ok := j.entries[date]; ok {
		t.Error("Entry must not insert into the store")
	}
}

func TestPutEntryCopies(t *testing.T) {
	j, _, _ := newTestJournal(t, "2024-06-10")
	date := calendar.MustParse("2024-06-10")

	entry := models.JournalEntry{JourneyItems: []models.JourneyItem{{ID: "1", Title: "walk"}}}
	j.PutEntry(date, entry)
	entry.JourneyItems[0].Title = "changed"

	if got := j.Entry(date).JourneyItems[0].Title; got != "walk" {
		t.Errorf("stored title = %q, want walk", got)
	}
}

func TestPruneIfEmpty(t *testing.T) {
	j, _, _ := newTestJournal(t, "2024-06-10")
	full := calendar.MustParse("2024-06-01")
	blank := calendar.MustParse("2024-06-02")

	j.PutEntry(full, models.JournalEntry{Meditation: models.Meditation{GodsPresence: "x"}})
	j.PutEntry(blank, models.JournalEntry{JourneyItems: []models.JourneyItem{{ID: "1", Title: "  ", Scope: "s"}}})

	if j.PruneIfEmpty(full) {
		t.Error("PruneIfEmpty removed a non-empty entry")
	}
	if !j.PruneIfEmpty(blank) {
		t.Error("PruneIfEmpty kept an empty entry")
	}
	if _, ok := j.entries[blank]; ok {
		t.Error("blank entry still stored")
	}
	if !j.PruneIfEmpty(calendar.MustParse("2020-01-01")) {
		t.Error("a date without an entry counts as pruned")
	}
}

func TestSavedDatesDescending(t *testing.T) {
	j, _, _ := newTestJournal(t, "2024-06-10")
	for _, d := range []string{"2024-05-30", "2024-06-03", "2023-12-31"} {
		j.PutEntry(calendar.MustParse(d), models.JournalEntry{Meditation: models.Meditation{GodsPresence: d}})
	}
	j.PutEntry(calendar.MustParse("2024-06-05"), models.NewJournalEntry())

	got := j.SavedDates()
	want := []string{"2024-06-03", "2024-05-30", "2023-12-31"}
	if len(got) != len(want) {
		t.Fatalf("SavedDates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("SavedDates()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestJourneyItemLifecycle(t *testing.T) {
	j, _, _ := newTestJournal(t, "2024-06-10")

	item := j.AddJourneyItem(" Read Romans ", "ch 1-2", "https://example.com")
	if item.ID == "" || item.Title != "Read Romans" {
		t.Fatalf("AddJourneyItem = %+v", item)
	}

	if err := j.ToggleJourneyItem(item.ID); err != nil {
		t.Fatalf("ToggleJourneyItem failed: %v", err)
	}
	if !j.CurrentEntry().JourneyItems[0].Completed {
		t.Error("item not completed after toggle")
	}

	item.Scope = "ch 3"
	if err := j.UpdateJourneyItem(item); err != nil {
		t.Fatalf("UpdateJourneyItem failed: %v", err)
	}
	if got := j.CurrentEntry().JourneyItems[0]; got.Scope != "ch 3" || got.Completed {
		t.Errorf("updated item = %+v", got)
	}

	if err := j.DeleteJourneyItem(item.ID); err != nil {
		t.Fatalf("DeleteJourneyItem failed: %v", err)
	}
	if len(j.CurrentEntry().JourneyItems) != 0 {
		t.Error("item still present after delete")
	}
	if err := j.DeleteJourneyItem(item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

package journal

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/models"
)

// Entry returns the entry for date, or a blank one when none exists.
// Reading never inserts anything.
func (j *Journal) Entry(date calendar.Date) models.JournalEntry {
	if entry, ok := j.entries[date]; ok {
		return entry.Clone()
	}
	return models.NewJournalEntry()
}

// CurrentEntry is the entry for the date being viewed.
func (j *Journal) CurrentEntry() models.JournalEntry {
	return j.Entry(j.currentDate)
}

// PutEntry replaces the entry for date.
func (j *Journal) PutEntry(date calendar.Date, entry models.JournalEntry) {
	if date.IsZero() {
		return
	}
	entry = entry.Clone()
	j.entries[date] = entry
}

// PruneIfEmpty deletes the entry for date when it has no content. It
// reports whether date is left without an entry for that reason, which
// includes a date that never had one.
func (j *Journal) PruneIfEmpty(date calendar.Date) bool {
	entry, ok := j.entries[date]
	if !ok {
		return true
	}
	if !entry.IsEmpty() {
		return false
	}
	delete(j.entries, date)
	return true
}

// SavedDates lists dates with non-empty entries, most recent first.
func (j *Journal) SavedDates() []calendar.Date {
	dates := make([]calendar.Date, 0, len(j.entries))
	for date, entry := range j.entries {
		if !entry.IsEmpty() {
			dates = append(dates, date)
		}
	}
	sort.Slice(dates, func(a, b int) bool { return dates[a].After(dates[b]) })
	return dates
}

func (j *Journal) SetMeditation(text string) {
	entry := j.CurrentEntry()
	entry.Meditation.GodsPresence = text
	j.PutEntry(j.currentDate, entry)
}

// AddJourneyItem appends an item to the current entry.
func (j *Journal) AddJourneyItem(title, scope, link string) models.JourneyItem {
	item := models.JourneyItem{
		ID:    uuid.NewString(),
		Title: strings.TrimSpace(title),
		Scope: scope,
		Link:  link,
	}
	entry := j.CurrentEntry()
	entry.JourneyItems = append(entry.JourneyItems, item)
	j.PutEntry(j.currentDate, entry)
	return item
}

func (j *Journal) UpdateJourneyItem(item models.JourneyItem) error {
	return j.editJourneyItem(item.ID, func(items []models.JourneyItem, i int) []models.JourneyItem {
		items[i] = item
		return items
	})
}

func (j *Journal) DeleteJourneyItem(id string) error {
	return j.editJourneyItem(id, func(items []models.JourneyItem, i int) []models.JourneyItem {
		return append(items[:i], items[i+1:]...)
	})
}

func (j *Journal) ToggleJourneyItem(id string) error {
	return j.editJourneyItem(id, func(items []models.JourneyItem, i int) []models.JourneyItem {
		items[i].Completed = !items[i].Completed
		return items
	})
}

func (j *Journal) editJourneyItem(id string, edit func([]models.JourneyItem, int) []models.JourneyItem) error {
	entry := j.CurrentEntry()
	for i, item := range entry.JourneyItems {
		if item.ID == id {
			entry.JourneyItems = edit(entry.JourneyItems, i)
			j.PutEntry(j.currentDate, entry)
			return nil
		}
	}
	return ErrNotFound
}

package models

import (
	"strings"

	"github.com/julianstephens/daybook/internal/calendar"
)

type JourneyItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Scope     string `json:"scope"`
	Link      string `json:"link"`
	Completed bool   `json:"completed"`
}

type Meditation struct {
	GodsPresence string `json:"godsPresence"`
}

// IsEmpty reports whether every meditation field is blank.
func (m Meditation) IsEmpty() bool {
	return strings.TrimSpace(m.GodsPresence) == ""
}

type JournalEntry struct {
	Meditation   Meditation    `json:"meditation"`
	JourneyItems []JourneyItem `json:"journeyItems"`
}

// NewJournalEntry returns the default entry for a date that has none.
func NewJournalEntry() JournalEntry {
	return JournalEntry{JourneyItems: []JourneyItem{}}
}

// IsEmpty reports whether the entry has no meditation text and no titled journey item.
func (e JournalEntry) IsEmpty() bool {
	if !e.Meditation.IsEmpty() {
		return false
	}
	for _, item := range e.JourneyItems {
		if strings.TrimSpace(item.Title) != "" {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no slice storage with e.
func (e JournalEntry) Clone() JournalEntry {
	items := make([]JourneyItem, len(e.JourneyItems))
	copy(items, e.JourneyItems)
	return JournalEntry{Meditation: e.Meditation, JourneyItems: items}
}

// JournalData holds one entry per calendar date.
type JournalData map[calendar.Date]JournalEntry

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/models"
)

// Encode marshals v as the JSON value stored under a key.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode unmarshals a stored value. A blank or null value leaves dst untouched.
func Decode[T any](raw string, dst *T) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return json.Unmarshal([]byte(trimmed), dst)
}

// flexString accepts ids that older versions wrote as numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// legacyTask is a task nested inside a journal entry by earlier versions.
type legacyTask struct {
	ID        flexString      `json:"id"`
	Title     string          `json:"title"`
	Priority  models.Priority `json:"priority"`
	Memo      string          `json:"memo"`
	Link      string          `json:"link"`
	Completed bool            `json:"completed"`
}

// storedEntry is the union of every entry shape ever written. Extra
// meditation fields from older versions are dropped by decoding into
// models.Meditation.
type storedEntry struct {
	Meditation   models.Meditation    `json:"meditation"`
	JourneyItems []models.JourneyItem `json:"journeyItems"`
	Tasks        []legacyTask         `json:"tasks,omitempty"`
}

// JournalDecoding is the canonical journal plus anything lifted out of it.
type JournalDecoding struct {
	Journal models.JournalData
	// MigratedTasks were nested in entries and now belong in the task list.
	MigratedTasks []models.Task
	// SkippedKeys are map keys that were not valid dates.
	SkippedKeys []string
}

// Migrated reports whether the stored journal had nested tasks.
func (d JournalDecoding) Migrated() bool {
	return len(d.MigratedTasks) > 0
}

// DecodeJournal upcasts any stored journal shape to the current one.
// Dates are visited in ascending order so migrated tasks come out in a
// stable order.
func DecodeJournal(raw string) (JournalDecoding, error) {
	out := JournalDecoding{Journal: models.JournalData{}}

	stored := map[string]storedEntry{}
	if err := Decode(raw, &stored); err != nil {
		return out, err
	}

	keys := make([]string, 0, len(stored))
	for k := range stored {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		date, err := calendar.Parse(key)
		if err != nil || date.IsZero() {
			out.SkippedKeys = append(out.SkippedKeys, key)
			continue
		}
		entry := stored[key]
		for _, lt := range entry.Tasks {
			out.MigratedTasks = append(out.MigratedTasks, lt.upcast(date))
		}
		items := entry.JourneyItems
		if items == nil {
			items = []models.JourneyItem{}
		}
		out.Journal[date] = models.JournalEntry{Meditation: entry.Meditation, JourneyItems: items}
	}
	return out, nil
}

func (lt legacyTask) upcast(date calendar.Date) models.Task {
	task := models.Task{
		ID:        string(lt.ID),
		Title:     lt.Title,
		Priority:  lt.Priority,
		Memo:      lt.Memo,
		Completed: lt.Completed,
		DueDate:   date,
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Memo == "" {
		task.Memo = lt.Link
	}
	return task
}

// EncodeJournal writes entries keyed by date, with nil item lists stored as [].
func EncodeJournal(data models.JournalData) (string, error) {
	out := make(map[calendar.Date]models.JournalEntry, len(data))
	for date, entry := range data {
		if entry.JourneyItems == nil {
			entry.JourneyItems = []models.JourneyItem{}
		}
		out[date] = entry
	}
	return Encode(out)
}

// DecodeTasks reads the task list. Legacy priority labels are normalized by models.Priority.
func DecodeTasks(raw string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := Decode(raw, &tasks); err != nil {
		return []models.Task{}, err
	}
	return tasks, nil
}

// MergeTasks appends extra to tasks and removes duplicate ids. Each id keeps
// the position of its first occurrence and the value of its last.
func MergeTasks(tasks, extra []models.Task) []models.Task {
	all := append(append([]models.Task{}, tasks...), extra...)
	index := make(map[string]int, len(all))
	merged := make([]models.Task, 0, len(all))
	for _, t := range all {
		if i, ok := index[t.ID]; ok {
			merged[i] = t
			continue
		}
		index[t.ID] = len(merged)
		merged = append(merged, t)
	}
	return merged
}

// DecodeReviewedDates reads the reviewed set. Invalid dates fail the whole value.
func DecodeReviewedDates(raw string) (map[calendar.Date]struct{}, error) {
	var dates []calendar.Date
	if err := Decode(raw, &dates); err != nil {
		return map[calendar.Date]struct{}{}, err
	}
	set := make(map[calendar.Date]struct{}, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			set[d] = struct{}{}
		}
	}
	return set, nil
}

// EncodeReviewedDates writes the reviewed set as an ascending array.
func EncodeReviewedDates(set map[calendar.Date]struct{}) (string, error) {
	dates := make([]calendar.Date, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return Encode(dates)
}

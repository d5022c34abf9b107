package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// legacyPriorities maps the labels written by earlier versions of the app.
var legacyPriorities = map[string]Priority{
	"상": PriorityHigh,
	"중": PriorityMedium,
	"하": PriorityLow,
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting. Unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// ParsePriority accepts the canonical names, their first letter, or a legacy label.
func ParsePriority(s string) (Priority, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "high", "h":
		return PriorityHigh, nil
	case "medium", "med", "m", "":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	}
	if p, ok := legacyPriorities[v]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// UnmarshalText normalizes legacy labels and keeps unknown values as-is so
// they survive a round trip.
func (p *Priority) UnmarshalText(text []byte) error {
	if legacy, ok := legacyPriorities[string(text)]; ok {
		*p = legacy
		return nil
	}
	*p = Priority(text)
	return nil
}

type Task struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Priority  Priority      `json:"priority"`
	Memo      string        `json:"memo"`
	Completed bool          `json:"completed"`
	DueDate   calendar.Date `json:"dueDate"`
	DueTime   string        `json:"dueTime"` // HH:MM, optional
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: task", ErrMissingID)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if err := ValidateClock(t.DueTime); err != nil {
		return err
	}
	return nil
}

// DueAt combines the due date and time into an instant used for ordering.
// A missing or malformed time counts as midnight.
func (t Task) DueAt() time.Time {
	at := t.DueDate.Time()
	if t.DueTime == "" {
		return at
	}
	clock, err := time.Parse(constants.TimeFormat, t.DueTime)
	if err != nil {
		return at
	}
	return at.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
}

// ValidateClock checks an optional HH:MM value.
func ValidateClock(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(constants.TimeFormat, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return nil
}

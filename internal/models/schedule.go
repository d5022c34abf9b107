package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/calendar"
)

type Frequency string

const (
	FrequencyNone    Frequency = "none"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	default:
		return false
	}
}

// WeekdayTag is the two-letter weekday code stored in recurrence rules.
type WeekdayTag string

const (
	Sunday    WeekdayTag = "SU"
	Monday    WeekdayTag = "MO"
	Tuesday   WeekdayTag = "TU"
	Wednesday WeekdayTag = "WE"
	Thursday  WeekdayTag = "TH"
	Friday    WeekdayTag = "FR"
	Saturday  WeekdayTag = "SA"
)

// weekdayTags is indexed by time.Weekday.
var weekdayTags = [7]WeekdayTag{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// TagFor returns the tag for a weekday.
func TagFor(wd time.Weekday) WeekdayTag {
	return weekdayTags[wd]
}

func (w WeekdayTag) IsValid() bool {
	for _, tag := range weekdayTags {
		if tag == w {
			return true
		}
	}
	return false
}

// ParseWeekdays parses a comma-separated list of weekdays given as tags,
// English names, or numbers (0=Sunday, 6=Saturday).
func ParseWeekdays(s string) ([]WeekdayTag, error) {
	dayMap := map[string]time.Weekday{
		"su": time.Sunday, "sun": time.Sunday, "sunday": time.Sunday,
		"mo": time.Monday, "mon": time.Monday, "monday": time.Monday,
		"tu": time.Tuesday, "tue": time.Tuesday, "tuesday": time.Tuesday,
		"we": time.Wednesday, "wed": time.Wednesday, "wednesday": time.Wednesday,
		"th": time.Thursday, "thu": time.Thursday, "thursday": time.Thursday,
		"fr": time.Friday, "fri": time.Friday, "friday": time.Friday,
		"sa": time.Saturday, "sat": time.Saturday, "saturday": time.Saturday,
	}

	var tags []WeekdayTag
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if wd, ok := dayMap[part]; ok {
			tags = append(tags, TagFor(wd))
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, part)
		}
		tags = append(tags, TagFor(time.Weekday(num)))
	}
	return tags, nil
}

type RecurrenceRule struct {
	Frequency  Frequency    `json:"frequency"`
	DaysOfWeek []WeekdayTag `json:"daysOfWeek,omitempty"`
}

// Effective returns the frequency to evaluate. A missing frequency means none.
func (r RecurrenceRule) Effective() Frequency {
	if r.Frequency == "" {
		return FrequencyNone
	}
	return r.Frequency
}

// WithFrequency switches the frequency. Weekday selections only survive on weekly rules.
func (r RecurrenceRule) WithFrequency(f Frequency) RecurrenceRule {
	r.Frequency = f
	if f != FrequencyWeekly {
		r.DaysOfWeek = nil
	}
	return r
}

// HasDay reports whether tag is in the rule's weekday set.
func (r RecurrenceRule) HasDay(tag WeekdayTag) bool {
	for _, d := range r.DaysOfWeek {
		if d == tag {
			return true
		}
	}
	return false
}

// ToggleDay adds tag to the weekday set or removes it if present.
func (r RecurrenceRule) ToggleDay(tag WeekdayTag) RecurrenceRule {
	days := make([]WeekdayTag, 0, len(r.DaysOfWeek)+1)
	found := false
	for _, d := range r.DaysOfWeek {
		if d == tag {
			found = true
			continue
		}
		days = append(days, d)
	}
	if !found {
		days = append(days, tag)
	}
	r.DaysOfWeek = days
	return r
}

func (r RecurrenceRule) Validate() error {
	if !r.Effective().IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.Frequency)
	}
	for _, d := range r.DaysOfWeek {
		if !d.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidWeekday, d)
		}
	}
	return nil
}

// String formats the rule for display.
func (r RecurrenceRule) String() string {
	switch r.Effective() {
	case FrequencyWeekly:
		if len(r.DaysOfWeek) > 0 {
			days := make([]string, len(r.DaysOfWeek))
			for i, d := range r.DaysOfWeek {
				days[i] = string(d)
			}
			return "weekly on " + strings.Join(days, ",")
		}
		return "weekly"
	case FrequencyNone:
		return "once"
	default:
		return string(r.Frequency)
	}
}

type ScheduleItem struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	StartDate  calendar.Date  `json:"startDate"`
	StartTime  string         `json:"startTime"`
	EndDate    calendar.Date  `json:"endDate"`
	EndTime    string         `json:"endTime"`
	Location   string         `json:"location"`
	Memo       string         `json:"memo"`
	Link       string         `json:"link"`
	Completed  bool           `json:"completed"`
	Recurrence RecurrenceRule `json:"recurrence"`
}

func (s ScheduleItem) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: schedule", ErrMissingID)
	}
	if err := s.Recurrence.Validate(); err != nil {
		return err
	}
	if err := ValidateClock(s.StartTime); err != nil {
		return err
	}
	if err := ValidateClock(s.EndTime); err != nil {
		return err
	}
	if !s.EndDate.IsZero() && s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("%w: %s < %s", ErrInvalidRange, s.EndDate, s.StartDate)
	}
	return nil
}

package models

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/calendar"
)

type Challenge struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	StartDate    calendar.Date   `json:"startDate"`
	EndDate      calendar.Date   `json:"endDate"`
	Time         string          `json:"time"`
	Goal         string          `json:"goal"`
	Achievements []calendar.Date `json:"achievements"`
}

func (c Challenge) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: challenge", ErrMissingID)
	}
	if !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("%w: %s < %s", ErrInvalidRange, c.EndDate, c.StartDate)
	}
	return nil
}

// IsAchieved reports whether the challenge was marked done on d.
func (c Challenge) IsAchieved(d calendar.Date) bool {
	for _, a := range c.Achievements {
		if a == d {
			return true
		}
	}
	return false
}

// ToggleAchievement removes d from the achievements if present, otherwise adds it.
func (c *Challenge) ToggleAchievement(d calendar.Date) {
	for i, a := range c.Achievements {
		if a == d {
			c.Achievements = append(c.Achievements[:i:i], c.Achievements[i+1:]...)
			return
		}
	}
	c.Achievements = append(c.Achievements, d)
}

// AchievementRate returns the percentage of days in [start, min(today, end)]
// that were achieved, rounded half up. It is 0 when the challenge has no
// start date or has not started yet.
func (c Challenge) AchievementRate(today calendar.Date) int {
	if c.StartDate.IsZero() || c.StartDate.After(today) {
		return 0
	}

	end := today
	if !c.EndDate.IsZero() && c.EndDate.Before(today) {
		end = c.EndDate
	}
	if end.Before(c.StartDate) {
		return 0
	}

	total := calendar.DaysBetween(c.StartDate, end) + 1
	if total <= 0 {
		return 0
	}

	seen := make(map[calendar.Date]struct{}, len(c.Achievements))
	for _, a := range c.Achievements {
		if a.Before(c.StartDate) || a.After(end) {
			continue
		}
		seen[a] = struct{}{}
	}

	// round(achieved/total*100) in integer arithmetic
	return (len(seen)*200 + total) / (2 * total)
}

// Reset clears the challenge so it can be reused for a new goal starting today.
func (c *Challenge) Reset(today calendar.Date) {
	c.Name = ""
	c.Goal = ""
	c.Time = ""
	c.StartDate = today
	c.EndDate = calendar.Date{}
	c.Achievements = []calendar.Date{}
}

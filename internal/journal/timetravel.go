package journal

import (
	"context"
	"fmt"
	"sort"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
)

// GoTo views date and remembers the date left behind. A zero date means today.
func (j *Journal) GoTo(date calendar.Date) {
	if date.IsZero() {
		date = j.clock.Today()
	}
	j.lastViewedDate = j.currentDate
	j.currentDate = date
}

// JumpBack views the date daysAgo days before today. Only review intervals are accepted.
func (j *Journal) JumpBack(daysAgo int) error {
	if !constants.IsReviewInterval(daysAgo) {
		return fmt.Errorf("%w: %d", ErrInvalidOffset, daysAgo)
	}
	j.GoTo(j.clock.Today().AddDays(-daysAgo))
	return nil
}

// ReturnToToday views today again. Coming back from exactly a review
// interval ago marks the visited date as reviewed, which is written at once.
func (j *Journal) ReturnToToday(ctx context.Context) error {
	today := j.clock.Today()
	var err error
	if j.currentDate != today && !j.lastViewedDate.IsZero() {
		diff := calendar.DaysBetween(j.currentDate, today)
		if constants.IsReviewInterval(diff) {
			if _, seen := j.reviewed[j.currentDate]; !seen {
				j.reviewed[j.currentDate] = struct{}{}
				err = j.persistReviewed(ctx)
			}
		}
	}
	j.currentDate = today
	j.lastViewedDate = calendar.Date{}
	return err
}

// LastViewedDate is the date viewed before the last GoTo, zero when unset.
func (j *Journal) LastViewedDate() calendar.Date {
	return j.lastViewedDate
}

func (j *Journal) IsReviewed(date calendar.Date) bool {
	_, ok := j.reviewed[date]
	return ok
}

// ReviewedDates lists reviewed dates in ascending order.
func (j *Journal) ReviewedDates() []calendar.Date {
	dates := make([]calendar.Date, 0, len(j.reviewed))
	for d := range j.reviewed {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })
	return dates
}

// ReviewTarget is one slot of the time-travel bar.
type ReviewTarget struct {
	DaysAgo  int
	Date     calendar.Date
	Reviewed bool
	Current  bool
}

func (j *Journal) ReviewTargets() []ReviewTarget {
	today := j.clock.Today()
	targets := make([]ReviewTarget, 0, len(constants.ReviewIntervals))
	for _, days := range constants.ReviewIntervals {
		date := today.AddDays(-days)
		targets = append(targets, ReviewTarget{
			DaysAgo:  days,
			Date:     date,
			Reviewed: j.IsReviewed(date),
			Current:  date == j.currentDate,
		})
	}
	return targets
}

// Package journal holds the in-memory state of the daybook and every
// operation on it. State is read once from a storage.KV and written back
// per collection.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
	apperrors "github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

var (
	ErrNotFound       = errors.New("journal: item not found")
	ErrChallengeLimit = errors.New("journal: challenge limit reached")
	ErrInvalidOffset  = errors.New("journal: offset is not a review interval")
)

// Clock supplies today's date. It is the only place the journal reads wall time.
type Clock interface {
	Today() calendar.Date
}

// SystemClock reads the wall clock in Location, or local time when nil.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() calendar.Date {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return calendar.FromTime(time.Now().In(loc))
}

// FixedClock always reports Date.
type FixedClock struct {
	Date calendar.Date
}

func (c *FixedClock) Today() calendar.Date { return c.Date }

type Signal int

const (
	SignalSaved Signal = iota
	SignalEmptyDeleted
	SignalChallengeLimitReached
)

func (s Signal) String() string {
	switch s {
	case SignalSaved:
		return "saved"
	case SignalEmptyDeleted:
		return "empty-deleted"
	case SignalChallengeLimitReached:
		return "challenge-limit-reached"
	default:
		return "unknown"
	}
}

// Notifier receives user-facing outcomes.
type Notifier interface {
	Notify(Signal)
}

type NotifierFunc func(Signal)

func (f NotifierFunc) Notify(s Signal) { f(s) }

// Confirmer answers yes/no questions before destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

type Journal struct {
	kv        storage.KV
	clock     Clock
	notifier  Notifier
	confirmer Confirmer

	entries    models.JournalData
	tasks      []models.Task
	schedules  []models.ScheduleItem
	challenges []models.Challenge
	reviewed   map[calendar.Date]struct{}

	currentDate    calendar.Date
	lastViewedDate calendar.Date // zero when unset
}

type Option func(*Journal)

func WithNotifier(n Notifier) Option {
	return func(j *Journal) { j.notifier = n }
}

func WithConfirmer(c Confirmer) Option {
	return func(j *Journal) { j.confirmer = c }
}

// New returns an empty journal positioned on today. Call Load to read kv.
func New(kv storage.KV, clock Clock, opts ...Option) *Journal {
	if clock == nil {
		clock = SystemClock{}
	}
	j := &Journal{
		kv:          kv,
		clock:       clock,
		entries:     models.JournalData{},
		tasks:       []models.Task{},
		schedules:   []models.ScheduleItem{},
		challenges:  []models.Challenge{},
		reviewed:    map[calendar.Date]struct{}{},
		currentDate: clock.Today(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) notify(s Signal) {
	if j.notifier != nil {
		j.notifier.Notify(s)
	}
}

func (j *Journal) Today() calendar.Date {
	return j.clock.Today()
}

func (j *Journal) CurrentDate() calendar.Date {
	return j.currentDate
}

// Load replaces the in-memory state with what kv holds. A key that cannot
// be read or decoded is logged and left empty. Nested tasks from older
// versions are moved to the task list and both keys are rewritten; the
// returned error only reports failures of that rewrite.
func (j *Journal) Load(ctx context.Context) error {
	entries := models.JournalData{}
	var migrated []models.Task
	if raw, ok := j.read(ctx, constants.KeyJournalData); ok {
		decoded, err := storage.DecodeJournal(raw)
		if err != nil {
			j.readFailed(constants.KeyJournalData, err)
		} else {
			entries = decoded.Journal
			migrated = decoded.MigratedTasks
			if len(decoded.SkippedKeys) > 0 {
				logger.Warn("Skipped journal entries with invalid dates", "keys", decoded.SkippedKeys)
			}
		}
	}

	tasks := []models.Task{}
	if raw, ok := j.read(ctx, constants.KeyTaskData); ok {
		decoded, err := storage.DecodeTasks(raw)
		if err != nil {
			j.readFailed(constants.KeyTaskData, err)
		} else {
			tasks = decoded
		}
	}

	schedules := []models.ScheduleItem{}
	if raw, ok := j.read(ctx, constants.KeyScheduleData); ok {
		if err := storage.Decode(raw, &schedules); err != nil {
			j.readFailed(constants.KeyScheduleData, err)
			schedules = []models.ScheduleItem{}
		}
	}

	challenges := []models.Challenge{}
	if raw, ok := j.read(ctx, constants.KeyChallengeData); ok {
		if err := storage.Decode(raw, &challenges); err != nil {
			j.readFailed(constants.KeyChallengeData, err)
			challenges = []models.Challenge{}
		}
	}

	reviewed := map[calendar.Date]struct{}{}
	if raw, ok := j.read(ctx, constants.KeyReviewedDates); ok {
		decoded, err := storage.DecodeReviewedDates(raw)
		if err != nil {
			j.readFailed(constants.KeyReviewedDates, err)
		} else {
			reviewed = decoded
		}
	}

	j.entries = entries
	j.tasks = tasks
	j.schedules = schedules
	j.challenges = challenges
	j.reviewed = reviewed

	if len(migrated) == 0 {
		return nil
	}

	j.tasks = storage.MergeTasks(j.tasks, migrated)
	logger.Info("Migrated nested tasks out of journal entries", "count", len(migrated))
	return errors.Join(j.persistTasks(ctx), j.persistJournal(ctx))
}

func (j *Journal) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := j.kv.Get(ctx, key)
	if err != nil {
		j.readFailed(key, err)
		return "", false
	}
	return raw, ok
}

func (j *Journal) readFailed(key string, err error) {
	logger.Error("Falling back to empty collection", "error", &apperrors.StorageReadError{Key: key, Err: err})
}

func (j *Journal) write(ctx context.Context, key, value string, encErr error) error {
	err := encErr
	if err == nil {
		err = j.kv.Set(ctx, key, value)
	}
	if err != nil {
		werr := &apperrors.StorageWriteError{Key: key, Err: err}
		logger.Error("Failed to persist collection", "error", werr)
		return werr
	}
	return nil
}

func (j *Journal) persistJournal(ctx context.Context) error {
	value, err := storage.EncodeJournal(j.entries)
	return j.write(ctx, constants.KeyJournalData, value, err)
}

func (j *Journal) persistTasks(ctx context.Context) error {
	value, err := storage.Encode(j.tasks)
	return j.write(ctx, constants.KeyTaskData, value, err)
}

func (j *Journal) persistSchedules(ctx context.Context) error {
	value, err := storage.Encode(j.schedules)
	return j.write(ctx, constants.KeyScheduleData, value, err)
}

func (j *Journal) persistChallenges(ctx context.Context) error {
	value, err := storage.Encode(j.challenges)
	return j.write(ctx, constants.KeyChallengeData, value, err)
}

func (j *Journal) persistReviewed(ctx context.Context) error {
	value, err := storage.EncodeReviewedDates(j.reviewed)
	return j.write(ctx, constants.KeyReviewedDates, value, err)
}

// Save writes tasks and schedules, drops the current date's entry if it is
// empty, then writes the journal. The notifier hears SignalEmptyDeleted or
// SignalSaved on success.
func (j *Journal) Save(ctx context.Context) error {
	if err := j.persistTasks(ctx); err != nil {
		return err
	}
	if err := j.persistSchedules(ctx); err != nil {
		return err
	}
	pruned := j.PruneIfEmpty(j.currentDate)
	if err := j.persistJournal(ctx); err != nil {
		return err
	}
	if pruned {
		j.notify(SignalEmptyDeleted)
	} else {
		j.notify(SignalSaved)
	}
	return nil
}

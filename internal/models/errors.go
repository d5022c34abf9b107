package models

import "errors"

var (
	ErrInvalidPriority  = errors.New("models: invalid priority")
	ErrInvalidFrequency = errors.New("models: invalid recurrence frequency")
	ErrInvalidWeekday   = errors.New("models: invalid weekday")
	ErrInvalidTime      = errors.New("models: invalid time")
	ErrInvalidDate      = errors.New("models: invalid date")
	ErrInvalidRange     = errors.New("models: end date before start date")
	ErrMissingID        = errors.New("models: id is required")
)

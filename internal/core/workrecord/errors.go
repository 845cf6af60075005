package workrecord

import "errors"

var (
	ErrInvalidID            = errors.New("workrecord: invalid id")
	ErrInvalidEmployeeID    = errors.New("workrecord: invalid employee id")
	ErrInvalidHours         = errors.New("workrecord: hours must be greater than 0 and at most 24")
	ErrInvalidHourlyRate    = errors.New("workrecord: invalid hourly rate")
	ErrIncompleteTimeRange  = errors.New("workrecord: start and end time must be given together")
	ErrHoursMismatch        = errors.New("workrecord: hours do not match start and end time")
	ErrNoDates              = errors.New("workrecord: at least one date is required")
	ErrInvalidRange         = errors.New("workrecord: start date must not be after end date")
	ErrWorkRecordNotFound   = errors.New("workrecord: not found")
	ErrWorkRecordIDConflict = errors.New("workrecord: id already exists")
	ErrEmployeeNotFound     = errors.New("workrecord: employee not found")
)

package employee

import "errors"

var (
	ErrInvalidID          = errors.New("employee: invalid id")
	ErrInvalidName        = errors.New("employee: invalid name")
	ErrInvalidHourlyRate  = errors.New("employee: invalid hourly rate")
	ErrEmployeeNotFound   = errors.New("employee: not found")
	ErrEmployeeIDConflict = errors.New("employee: id already exists")
)

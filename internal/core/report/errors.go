package report

import "errors"

var (
	ErrInvalidRangePreset = errors.New("report: unknown range preset")
	ErrEmployeeNotFound   = errors.New("report: employee not found")
	ErrInvalidEmployeeID  = errors.New("report: invalid employee id")
)

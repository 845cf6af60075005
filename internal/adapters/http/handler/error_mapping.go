package handler

import (
	"errors"
	"net/http"

	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/employee"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/report"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
)

func toHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidHourlyRate),
		errors.Is(err, workrecord.ErrInvalidID),
		errors.Is(err, workrecord.ErrInvalidEmployeeID),
		errors.Is(err, workrecord.ErrInvalidHours),
		errors.Is(err, workrecord.ErrInvalidHourlyRate),
		errors.Is(err, workrecord.ErrIncompleteTimeRange),
		errors.Is(err, workrecord.ErrHoursMismatch),
		errors.Is(err, workrecord.ErrNoDates),
		errors.Is(err, workrecord.ErrInvalidRange),
		errors.Is(err, report.ErrInvalidRangePreset),
		errors.Is(err, report.ErrInvalidEmployeeID),
		errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidClock),
		errors.Is(err, calendar.ErrInvalidMonth):
		return http.StatusBadRequest
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, workrecord.ErrEmployeeNotFound),
		errors.Is(err, workrecord.ErrWorkRecordNotFound),
		errors.Is(err, report.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, employee.ErrEmployeeIDConflict),
		errors.Is(err, workrecord.ErrWorkRecordIDConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

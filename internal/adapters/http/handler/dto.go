package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/employee"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/report"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
)

// optionalString は JSON にキーが存在したかどうかを保持します。null はクリアを意味します。
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type createEmployeeRequest struct {
	Name              string   `json:"name"`
	Location          *string  `json:"location"`
	DefaultHourlyRate *float64 `json:"default_hourly_rate"`
	Notes             *string  `json:"notes"`
}

type updateEmployeeRequest struct {
	Name              *string        `json:"name"`
	Location          optionalString `json:"location"`
	DefaultHourlyRate *float64       `json:"default_hourly_rate"`
	Notes             optionalString `json:"notes"`
}

type saveWorkRecordRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
	HourlyRate float64 `json:"hourly_rate"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	Notes      *string `json:"notes"`
}

type batchSaveWorkRecordsRequest struct {
	EmployeeID string   `json:"employee_id"`
	Dates      []string `json:"dates"`
	Hours      float64  `json:"hours"`
	HourlyRate float64  `json:"hourly_rate"`
	Notes      *string  `json:"notes"`
}

type statisticsRequest struct {
	EmployeeID string   `json:"employee_id"`
	Dates      []string `json:"dates"`
}

type employeeResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Location          *string   `json:"location"`
	DefaultHourlyRate float64   `json:"default_hourly_rate"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	WeeklyHours       *float64  `json:"weekly_hours,omitempty"`
	MonthlyHours      *float64  `json:"monthly_hours,omitempty"`
}

type workRecordResponse struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employee_id"`
	Date       calendar.Date `json:"date"`
	Hours      float64       `json:"hours"`
	HourlyRate float64       `json:"hourly_rate"`
	StartTime  *string       `json:"start_time"`
	EndTime    *string       `json:"end_time"`
	Notes      *string       `json:"notes"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type monthRecordsResponse struct {
	Employee employeeResponse     `json:"employee"`
	Records  []workRecordResponse `json:"records"`
}

type calendarResponse struct {
	Employee employeeResponse     `json:"employee"`
	Year     int                  `json:"year"`
	Month    int                  `json:"month"`
	Title    string               `json:"title"`
	Cells    []calendar.Cell      `json:"cells"`
	Records  []workRecordResponse `json:"records"`
	Totals   report.Statistics    `json:"totals"`
}

type batchSaveResponse struct {
	Saved   int                  `json:"saved"`
	Records []workRecordResponse `json:"records"`
}

type hoursResponse struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Hours float64 `json:"hours"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:                e.ID,
		Name:              e.Name,
		Location:          e.Location,
		DefaultHourlyRate: e.DefaultHourlyRate,
		Notes:             e.Notes,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func toOverviewResponse(o report.EmployeeOverview) employeeResponse {
	res := toEmployeeResponse(o.Employee)
	weekly, monthly := o.WeeklyHours, o.MonthlyHours
	res.WeeklyHours = &weekly
	res.MonthlyHours = &monthly
	return res
}

func toWorkRecordResponse(r *workrecord.WorkRecord) workRecordResponse {
	return workRecordResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		Hours:      r.Hours,
		HourlyRate: r.HourlyRate,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toWorkRecordResponses(records []*workrecord.WorkRecord) []workRecordResponse {
	out := make([]workRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toWorkRecordResponse(r))
	}
	return out
}

package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/employee"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/report"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
)

// EmployeeHandler は従業員 API の HTTP 実装です。
type EmployeeHandler struct {
	employees employee.UseCase
	records   workrecord.UseCase
	reports   report.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(employees employee.UseCase, records workrecord.UseCase, reports report.UseCase) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, records: records, reports: reports}
}

// Register はルートを登録します。
func (h *EmployeeHandler) Register(r gin.IRouter) {
	r.GET("/employees", h.ListEmployees)
	r.POST("/employees", h.CreateEmployee)
	r.GET("/employees/:id", h.GetEmployee)
	r.PUT("/employees/:id", h.UpdateEmployee)
	r.DELETE("/employees/:id", h.DeleteEmployee)
	r.GET("/employees/:id/records", h.ListMonthRecords)
	r.GET("/employees/:id/calendar", h.Calendar)
}

// ListEmployees は今週・今月の勤務時間付きで従業員を返します。
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	overview, err := h.reports.Overview(c.Request.Context(), report.OverviewInput{Query: c.Query("q")})
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]employeeResponse, 0, len(overview))
	for _, o := range overview {
		res = append(res, toOverviewResponse(o))
	}
	respondOK(c, res)
}

// CreateEmployee は従業員を登録します。
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid json")
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.DefaultHourlyRate == nil {
		respondBadRequest(c, "name and default_hourly_rate are required")
		return
	}

	created, err := h.employees.CreateEmployee(c.Request.Context(), employee.CreateEmployeeInput{
		Name:              req.Name,
		Location:          req.Location,
		DefaultHourlyRate: *req.DefaultHourlyRate,
		Notes:             req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", "/api/employees/"+created.ID)
	respondCreated(c, toEmployeeResponse(created), "employee created")
}

// GetEmployee は従業員を返します。
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	found, err := h.employees.GetEmployee(c.Request.Context(), employee.GetEmployeeInput{ID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, toEmployeeResponse(found))
}

// UpdateEmployee は指定されたフィールドのみ更新します。
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid json")
		return
	}

	updated, err := h.employees.UpdateEmployee(c.Request.Context(), employee.UpdateEmployeeInput{
		ID:                c.Param("id"),
		Name:              req.Name,
		Location:          req.Location.Value,
		LocationSet:       req.Location.Set,
		DefaultHourlyRate: req.DefaultHourlyRate,
		Notes:             req.Notes.Value,
		NotesSet:          req.Notes.Set,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, toEmployeeResponse(updated))
}

// DeleteEmployee は従業員と勤務記録を削除します。
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employees.DeleteEmployee(c.Request.Context(), employee.DeleteEmployeeInput{ID: c.Param("id")}); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "employee deleted")
}

// ListMonthRecords は従業員の指定月の勤務記録を返します。
func (h *EmployeeHandler) ListMonthRecords(c *gin.Context) {
	year, month, ok := yearMonthQuery(c)
	if !ok {
		return
	}

	emp, err := h.employees.GetEmployee(c.Request.Context(), employee.GetEmployeeInput{ID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}

	records, err := h.records.ListMonthRecords(c.Request.Context(), workrecord.ListMonthRecordsInput{
		EmployeeID: emp.ID,
		Year:       year,
		Month:      month,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, monthRecordsResponse{
		Employee: toEmployeeResponse(emp),
		Records:  toWorkRecordResponses(records),
	})
}

// Calendar は祝日と勤務記録を注記した月カレンダーを返します。
func (h *EmployeeHandler) Calendar(c *gin.Context) {
	year, month, ok := yearMonthQuery(c)
	if !ok {
		return
	}

	cal, err := h.reports.CalendarMonth(c.Request.Context(), report.CalendarMonthInput{
		EmployeeID: c.Param("id"),
		Year:       year,
		Month:      month,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, calendarResponse{
		Employee: toEmployeeResponse(cal.Employee),
		Year:     cal.Year,
		Month:    int(cal.Month),
		Title:    calendar.MonthTitle(cal.Year, cal.Month),
		Cells:    cal.Cells,
		Records:  toWorkRecordResponses(cal.Records),
		Totals:   cal.Totals,
	})
}

// yearMonthQuery は year と month (1-12) を読み取ります。未指定の場合は 0 を返します。
func yearMonthQuery(c *gin.Context) (int, time.Month, bool) {
	rawYear, rawMonth := c.Query("year"), c.Query("month")
	if rawYear == "" && rawMonth == "" {
		return 0, 0, true
	}

	year, err := strconv.Atoi(rawYear)
	if err != nil || year <= 0 {
		respondBadRequest(c, "year must be a positive integer")
		return 0, 0, false
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		respondBadRequest(c, "month must be between 1 and 12")
		return 0, 0, false
	}
	return year, time.Month(month), true
}

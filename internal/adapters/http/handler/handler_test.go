package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/employee"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/report"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var fixedTime = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeEmployees struct {
	create func(ctx context.Context, in employee.CreateEmployeeInput) (*employee.Employee, error)
	get    func(ctx context.Context, in employee.GetEmployeeInput) (*employee.Employee, error)
	update func(ctx context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error)
	delete func(ctx context.Context, in employee.DeleteEmployeeInput) error
}

func (f *fakeEmployees) CreateEmployee(ctx context.Context, in employee.CreateEmployeeInput) (*employee.Employee, error) {
	return f.create(ctx, in)
}

func (f *fakeEmployees) GetEmployee(ctx context.Context, in employee.GetEmployeeInput) (*employee.Employee, error) {
	return f.get(ctx, in)
}

func (f *fakeEmployees) ListEmployees(context.Context) ([]*employee.Employee, error) {
	return nil, errors.New("not used")
}

func (f *fakeEmployees) UpdateEmployee(ctx context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error) {
	return f.update(ctx, in)
}

func (f *fakeEmployees) DeleteEmployee(ctx context.Context, in employee.DeleteEmployeeInput) error {
	return f.delete(ctx, in)
}

type fakeRecords struct {
	save   func(ctx context.Context, in workrecord.SaveWorkRecordInput) (*workrecord.WorkRecord, error)
	batch  func(ctx context.Context, in workrecord.BatchSaveWorkRecordsInput) ([]*workrecord.WorkRecord, error)
	delete func(ctx context.Context, in workrecord.DeleteWorkRecordInput) error
	month  func(ctx context.Context, in workrecord.ListMonthRecordsInput) ([]*workrecord.WorkRecord, error)
}

func (f *fakeRecords) SaveWorkRecord(ctx context.Context, in workrecord.SaveWorkRecordInput) (*workrecord.WorkRecord, error) {
	return f.save(ctx, in)
}

func (f *fakeRecords) BatchSaveWorkRecords(ctx context.Context, in workrecord.BatchSaveWorkRecordsInput) ([]*workrecord.WorkRecord, error) {
	return f.batch(ctx, in)
}

func (f *fakeRecords) DeleteWorkRecord(ctx context.Context, in workrecord.DeleteWorkRecordInput) error {
	return f.delete(ctx, in)
}

func (f *fakeRecords) ListMonthRecords(ctx context.Context, in workrecord.ListMonthRecordsInput) ([]*workrecord.WorkRecord, error) {
	return f.month(ctx, in)
}

func (f *fakeRecords) ListRange(context.Context, workrecord.ListRangeInput) ([]*workrecord.WorkRecord, error) {
	return nil, errors.New("not used")
}

func (f *fakeRecords) FindByDates(context.Context, workrecord.FindByDatesInput) ([]*workrecord.WorkRecord, error) {
	return nil, errors.New("not used")
}

type fakeReports struct {
	calendarMonth func(ctx context.Context, in report.CalendarMonthInput) (*report.CalendarMonth, error)
	statistics    func(ctx context.Context, in report.StatisticsInput) (report.Statistics, error)
	summary       func(ctx context.Context, in report.SummaryInput) (*report.Summary, error)
	overview      func(ctx context.Context, in report.OverviewInput) ([]report.EmployeeOverview, error)
}

func (f *fakeReports) CalendarMonth(ctx context.Context, in report.CalendarMonthInput) (*report.CalendarMonth, error) {
	return f.calendarMonth(ctx, in)
}

func (f *fakeReports) Statistics(ctx context.Context, in report.StatisticsInput) (report.Statistics, error) {
	return f.statistics(ctx, in)
}

func (f *fakeReports) Summary(ctx context.Context, in report.SummaryInput) (*report.Summary, error) {
	return f.summary(ctx, in)
}

func (f *fakeReports) Overview(ctx context.Context, in report.OverviewInput) ([]report.EmployeeOverview, error) {
	return f.overview(ctx, in)
}

func (f *fakeReports) Holidays(int) []calendar.Holiday {
	return nil
}

type fakeHolidays struct {
	gotYear int
}

func (f *fakeHolidays) Holidays(year int) []calendar.Holiday {
	f.gotYear = year
	if year == 0 {
		year = 2024
	}
	return calendar.HolidayList(year)
}

type fakeExporter struct{}

const fakeExportContentType = "application/x-test-summary"

func (fakeExporter) ContentType() string {
	return fakeExportContentType
}

func (fakeExporter) FileName(s *report.Summary) string {
	return fmt.Sprintf("summary_%s_%s.xlsx", s.Start, s.End)
}

func (fakeExporter) WriteSummary(w io.Writer, s *report.Summary) error {
	_, err := fmt.Fprintf(w, "rows=%d", len(s.Employees))
	return err
}

type testDeps struct {
	employees *fakeEmployees
	records   *fakeRecords
	reports   *fakeReports
	holidays  *fakeHolidays
}

func newTestRouter(t *testing.T, deps testDeps) *gin.Engine {
	t.Helper()
	if deps.employees == nil {
		deps.employees = &fakeEmployees{}
	}
	if deps.records == nil {
		deps.records = &fakeRecords{}
	}
	if deps.reports == nil {
		deps.reports = &fakeReports{}
	}
	if deps.holidays == nil {
		deps.holidays = &fakeHolidays{}
	}
	return NewRouter(
		RouterConfig{CORSOrigins: []string{"http://localhost:3000"}},
		NewEmployeeHandler(deps.employees, deps.records, deps.reports),
		NewWorkRecordHandler(deps.records, deps.reports, fakeExporter{}),
		NewReferenceHandler(deps.holidays),
	)
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env testEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, env
}

func sampleEmployee() *employee.Employee {
	return &employee.Employee{
		ID:                "11111111-1111-1111-1111-111111111111",
		Name:              "Alice",
		DefaultHourlyRate: 20,
		CreatedAt:         fixedTime,
		UpdatedAt:         fixedTime,
	}
}

func sampleRecord() *workrecord.WorkRecord {
	return &workrecord.WorkRecord{
		ID:         "r1",
		EmployeeID: sampleEmployee().ID,
		Date:       calendar.NewDate(2024, time.March, 1),
		Hours:      8,
		HourlyRate: 20,
		CreatedAt:  fixedTime,
		UpdatedAt:  fixedTime,
	}
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Parallel()

	var got employee.CreateEmployeeInput
	r := newTestRouter(t, testDeps{employees: &fakeEmployees{
		create: func(_ context.Context, in employee.CreateEmployeeInput) (*employee.Employee, error) {
			got = in
			return sampleEmployee(), nil
		},
	}})

	rec, env := doRequest(t, r, http.MethodPost, "/api/employees", `{"name":"Alice","default_hourly_rate":20,"location":"Queens"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !env.Success || env.Message != "employee created" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/employees/"+sampleEmployee().ID {
		t.Fatalf("unexpected Location header: %s", loc)
	}
	if got.Name != "Alice" || got.DefaultHourlyRate != 20 || got.Location == nil || *got.Location != "Queens" {
		t.Fatalf("unexpected input: %+v", got)
	}

	var body employeeResponse
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if body.ID != sampleEmployee().ID || body.WeeklyHours != nil {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestEmployeeHandler_CreateValidation(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, testDeps{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"name":`},
		{"missing name", `{"default_hourly_rate":20}`},
		{"missing rate", `{"name":"Alice"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, r, http.MethodPost, "/api/employees", tt.body)
			if rec.Code != http.StatusBadRequest || env.Success {
				t.Fatalf("expected 400, got %d (%+v)", rec.Code, env)
			}
		})
	}
}

func TestEmployeeHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", fmt.Errorf("x: %w", employee.ErrEmployeeNotFound), http.StatusNotFound, "x: " + employee.ErrEmployeeNotFound.Error()},
		{"invalid id", employee.ErrInvalidID, http.StatusBadRequest, employee.ErrInvalidID.Error()},
		{"conflict", employee.ErrEmployeeIDConflict, http.StatusConflict, employee.ErrEmployeeIDConflict.Error()},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, testDeps{employees: &fakeEmployees{
				get: func(context.Context, employee.GetEmployeeInput) (*employee.Employee, error) {
					return nil, tt.err
				},
			}})
			rec, env := doRequest(t, r, http.MethodGet, "/api/employees/x", "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if env.Success || env.Message != tt.message {
				t.Fatalf("unexpected envelope: %+v", env)
			}
		})
	}
}

func TestEmployeeHandler_UpdateDistinguishesNullFromMissing(t *testing.T) {
	t.Parallel()

	var got employee.UpdateEmployeeInput
	r := newTestRouter(t, testDeps{employees: &fakeEmployees{
		update: func(_ context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error) {
			got = in
			return sampleEmployee(), nil
		},
	}})

	rec, _ := doRequest(t, r, http.MethodPut, "/api/employees/abc", `{"location":null,"default_hourly_rate":25}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.ID != "abc" || !got.LocationSet || got.Location != nil {
		t.Fatalf("expected location cleared: %+v", got)
	}
	if got.NotesSet || got.Name != nil {
		t.Fatalf("expected untouched fields: %+v", got)
	}
	if got.DefaultHourlyRate == nil || *got.DefaultHourlyRate != 25 {
		t.Fatalf("unexpected rate: %+v", got.DefaultHourlyRate)
	}
}

func TestEmployeeHandler_DeleteAndList(t *testing.T) {
	t.Parallel()

	var deleted string
	var query string
	r := newTestRouter(t, testDeps{
		employees: &fakeEmployees{
			delete: func(_ context.Context, in employee.DeleteEmployeeInput) error {
				deleted = in.ID
				return nil
			},
		},
		reports: &fakeReports{
			overview: func(_ context.Context, in report.OverviewInput) ([]report.EmployeeOverview, error) {
				query = in.Query
				return []report.EmployeeOverview{{Employee: sampleEmployee(), WeeklyHours: 8, MonthlyHours: 24}}, nil
			},
		},
	})

	rec, env := doRequest(t, r, http.MethodDelete, "/api/employees/abc", "")
	if rec.Code != http.StatusOK || deleted != "abc" || env.Message != "employee deleted" {
		t.Fatalf("unexpected delete result: %d %s %+v", rec.Code, deleted, env)
	}

	rec, env = doRequest(t, r, http.MethodGet, "/api/employees?q=ali", "")
	if rec.Code != http.StatusOK || query != "ali" {
		t.Fatalf("unexpected list result: %d %q", rec.Code, query)
	}
	var list []employeeResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].WeeklyHours == nil || *list[0].WeeklyHours != 8 || *list[0].MonthlyHours != 24 {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestEmployeeHandler_MonthRecords(t *testing.T) {
	t.Parallel()

	var got workrecord.ListMonthRecordsInput
	r := newTestRouter(t, testDeps{
		employees: &fakeEmployees{
			get: func(context.Context, employee.GetEmployeeInput) (*employee.Employee, error) {
				return sampleEmployee(), nil
			},
		},
		records: &fakeRecords{
			month: func(_ context.Context, in workrecord.ListMonthRecordsInput) ([]*workrecord.WorkRecord, error) {
				got = in
				return []*workrecord.WorkRecord{sampleRecord()}, nil
			},
		},
	})

	rec, env := doRequest(t, r, http.MethodGet, "/api/employees/x/records?year=2024&month=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got.Year != 2024 || got.Month != time.March || got.EmployeeID != sampleEmployee().ID {
		t.Fatalf("unexpected input: %+v", got)
	}
	var body monthRecordsResponse
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(body.Records) != 1 || body.Records[0].Date.String() != "2024-03-01" {
		t.Fatalf("unexpected records: %+v", body.Records)
	}

	for _, path := range []string{
		"/api/employees/x/records?year=2024&month=13",
		"/api/employees/x/records?year=abc&month=3",
		"/api/employees/x/records?month=3",
	} {
		if rec, _ := doRequest(t, r, http.MethodGet, path, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestEmployeeHandler_Calendar(t *testing.T) {
	t.Parallel()

	var got report.CalendarMonthInput
	r := newTestRouter(t, testDeps{reports: &fakeReports{
		calendarMonth: func(_ context.Context, in report.CalendarMonthInput) (*report.CalendarMonth, error) {
			got = in
			cells, err := calendar.BuildMonthGrid(2024, time.March, map[string]float64{"2024-03-01": 8})
			if err != nil {
				return nil, err
			}
			return &report.CalendarMonth{
				Employee: sampleEmployee(),
				Year:     2024,
				Month:    time.March,
				Records:  []*workrecord.WorkRecord{sampleRecord()},
				Cells:    cells,
				Totals:   report.Statistics{TotalHours: 8},
			}, nil
		},
	}})

	rec, env := doRequest(t, r, http.MethodGet, "/api/employees/x/calendar", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.EmployeeID != "x" || got.Year != 0 || got.Month != 0 {
		t.Fatalf("expected current month request, got %+v", got)
	}

	var body struct {
		Title string `json:"title"`
		Month int    `json:"month"`
		Cells []struct {
			Date      string  `json:"date"`
			HasRecord bool    `json:"has_record"`
			Hours     float64 `json:"hours"`
		} `json:"cells"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if body.Title != "2024年3月" || body.Month != 3 || len(body.Cells) != 42 {
		t.Fatalf("unexpected calendar: %s %d %d", body.Title, body.Month, len(body.Cells))
	}
	if body.Cells[5].Date != "2024-03-01" || !body.Cells[5].HasRecord || body.Cells[5].Hours != 8 {
		t.Fatalf("unexpected first day cell: %+v", body.Cells[5])
	}
}

func TestWorkRecordHandler_Save(t *testing.T) {
	t.Parallel()

	var got workrecord.SaveWorkRecordInput
	r := newTestRouter(t, testDeps{records: &fakeRecords{
		save: func(_ context.Context, in workrecord.SaveWorkRecordInput) (*workrecord.WorkRecord, error) {
			got = in
			if in.Hours == 5 {
				return nil, workrecord.ErrHoursMismatch
			}
			return sampleRecord(), nil
		},
	}})

	rec, env := doRequest(t, r, http.MethodPost, "/api/work-records",
		`{"employee_id":"e1","date":"2024-03-01","start_time":"22:00","end_time":"06:00"}`)
	if rec.Code != http.StatusCreated || !env.Success {
		t.Fatalf("expected 201, got %d (%+v)", rec.Code, env)
	}
	if got.StartTime == nil || *got.StartTime != "22:00" || got.EndTime == nil || *got.EndTime != "06:00" {
		t.Fatalf("unexpected input: %+v", got)
	}

	rec, env = doRequest(t, r, http.MethodPost, "/api/work-records",
		`{"employee_id":"e1","date":"2024-03-01","hours":5,"start_time":"22:00","end_time":"06:00"}`)
	if rec.Code != http.StatusBadRequest || env.Message != workrecord.ErrHoursMismatch.Error() {
		t.Fatalf("expected mismatch 400, got %d (%+v)", rec.Code, env)
	}

	rec, _ = doRequest(t, r, http.MethodPost, "/api/work-records", `{"date":"2024-03-01"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing employee, got %d", rec.Code)
	}
}

func TestWorkRecordHandler_BatchAndDelete(t *testing.T) {
	t.Parallel()

	var deleted string
	r := newTestRouter(t, testDeps{records: &fakeRecords{
		batch: func(_ context.Context, in workrecord.BatchSaveWorkRecordsInput) ([]*workrecord.WorkRecord, error) {
			if len(in.Dates) == 0 {
				return nil, workrecord.ErrNoDates
			}
			out := make([]*workrecord.WorkRecord, 0, len(in.Dates))
			for range in.Dates {
				out = append(out, sampleRecord())
			}
			return out, nil
		},
		delete: func(_ context.Context, in workrecord.DeleteWorkRecordInput) error {
			deleted = in.ID
			if in.ID == "missing" {
				return workrecord.ErrWorkRecordNotFound
			}
			return nil
		},
	}})

	rec, env := doRequest(t, r, http.MethodPost, "/api/work-records/batch",
		`{"employee_id":"e1","dates":["2024-03-01","2024-03-02"],"hours":8}`)
	if rec.Code != http.StatusCreated || env.Message != "2 work records saved" {
		t.Fatalf("unexpected batch result: %d (%+v)", rec.Code, env)
	}
	var body batchSaveResponse
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if body.Saved != 2 || len(body.Records) != 2 {
		t.Fatalf("unexpected batch body: %+v", body)
	}

	if rec, _ := doRequest(t, r, http.MethodPost, "/api/work-records/batch", `{"employee_id":"e1","dates":[]}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty dates, got %d", rec.Code)
	}

	if rec, _ := doRequest(t, r, http.MethodDelete, "/api/work-records/r1", ""); rec.Code != http.StatusOK || deleted != "r1" {
		t.Fatalf("unexpected delete: %d %s", rec.Code, deleted)
	}
	if rec, _ := doRequest(t, r, http.MethodDelete, "/api/work-records/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWorkRecordHandler_StatisticsAndSummary(t *testing.T) {
	t.Parallel()

	var gotStats report.StatisticsInput
	var gotSummary report.SummaryInput
	r := newTestRouter(t, testDeps{reports: &fakeReports{
		statistics: func(_ context.Context, in report.StatisticsInput) (report.Statistics, error) {
			gotStats = in
			return report.Statistics{TotalHours: 16, ValidDays: 2, TotalDaysSelected: 3}, nil
		},
		summary: func(_ context.Context, in report.SummaryInput) (*report.Summary, error) {
			gotSummary = in
			if in.Preset == "bogus" {
				return nil, report.ErrInvalidRangePreset
			}
			return &report.Summary{
				Start:     calendar.NewDate(2024, time.March, 1),
				End:       calendar.NewDate(2024, time.March, 15),
				Employees: []report.EmployeeSummary{{EmployeeID: "e1", Name: "Alice"}},
			}, nil
		},
	}})

	rec, env := doRequest(t, r, http.MethodPost, "/api/work-records/statistics",
		`{"employee_id":"e1","dates":["2024-03-01","2024-03-02","2024-03-03"]}`)
	if rec.Code != http.StatusOK || gotStats.EmployeeID != "e1" || len(gotStats.Dates) != 3 {
		t.Fatalf("unexpected statistics call: %d %+v", rec.Code, gotStats)
	}
	var stats map[string]float64
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats["total_hours"] != 16 || stats["valid_days"] != 2 || stats["total_days"] != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	rec, _ = doRequest(t, r, http.MethodGet, "/api/work-records/summary?range=lastMonth2", "")
	if rec.Code != http.StatusOK || gotSummary.Preset != "lastMonth2" {
		t.Fatalf("unexpected summary call: %d %+v", rec.Code, gotSummary)
	}

	rec, _ = doRequest(t, r, http.MethodGet, "/api/work-records/summary?start=2024-03-01&end=2024-03-15", "")
	if rec.Code != http.StatusOK || gotSummary.Start != "2024-03-01" || gotSummary.End != "2024-03-15" {
		t.Fatalf("unexpected summary call: %d %+v", rec.Code, gotSummary)
	}

	if rec, _ := doRequest(t, r, http.MethodGet, "/api/work-records/summary?range=bogus", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad preset, got %d", rec.Code)
	}
}

func TestWorkRecordHandler_ExportSummary(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, testDeps{reports: &fakeReports{
		summary: func(context.Context, report.SummaryInput) (*report.Summary, error) {
			return &report.Summary{
				Start:     calendar.NewDate(2024, time.March, 1),
				End:       calendar.NewDate(2024, time.March, 15),
				Employees: []report.EmployeeSummary{{EmployeeID: "e1"}, {EmployeeID: "e2"}},
			}, nil
		},
	}})

	rec, _ := doRequest(t, r, http.MethodGet, "/api/work-records/summary/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != fakeExportContentType {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="summary_2024-03-01_2024-03-15.xlsx"` {
		t.Fatalf("unexpected disposition: %s", cd)
	}
	if body := rec.Body.String(); body != "rows=2" {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReferenceHandler(t *testing.T) {
	t.Parallel()

	holidays := &fakeHolidays{}
	r := newTestRouter(t, testDeps{holidays: holidays})

	rec, env := doRequest(t, r, http.MethodGet, "/api/holidays?year=2025", "")
	if rec.Code != http.StatusOK || holidays.gotYear != 2025 {
		t.Fatalf("unexpected holidays call: %d %d", rec.Code, holidays.gotYear)
	}
	var list []calendar.Holiday
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode holidays: %v", err)
	}
	if len(list) != 11 || list[0].Date.String() != "2025-01-01" {
		t.Fatalf("unexpected holidays: %+v", list)
	}

	if rec, _ := doRequest(t, r, http.MethodGet, "/api/holidays?year=-1", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec, env = doRequest(t, r, http.MethodGet, "/api/hours?start=22:00&end=06:00", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var hours hoursResponse
	if err := json.Unmarshal(env.Data, &hours); err != nil {
		t.Fatalf("decode hours: %v", err)
	}
	if hours.Hours != 8 {
		t.Fatalf("expected 8 hours overnight, got %v", hours.Hours)
	}

	if rec, _ := doRequest(t, r, http.MethodGet, "/api/hours?start=25:00&end=06:00", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed clock, got %d", rec.Code)
	}
	if rec, _ := doRequest(t, r, http.MethodGet, "/api/hours?start=09:00", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing end, got %d", rec.Code)
	}
}

func TestRouter_HealthzAndRequestID(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, testDeps{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz: %d %s", rec.Code, rec.Body.String())
	}
	if _, err := ulid.ParseStrict(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("expected ULID request id, got %q", rec.Header().Get(RequestIDHeader))
	}

	incoming := ulid.Make().String()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != incoming {
		t.Fatalf("expected propagated request id %s, got %s", incoming, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-ulid")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not-a-ulid" || got == "" {
		t.Fatalf("expected regenerated request id, got %q", got)
	}

	rec, env := doRequest(t, r, http.MethodGet, "/api/unknown", "")
	if rec.Code != http.StatusNotFound || env.Success {
		t.Fatalf("expected 404 envelope, got %d (%+v)", rec.Code, env)
	}
}

func TestRouter_IgnoresForwardedFor(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRouter(RouterConfig{Logger: zap.New(core)})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if n := logs.FilterMessage("failed to disable trusted proxies").Len(); n != 0 {
		t.Fatalf("expected no trusted proxy warning, got %d", n)
	}
	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 access log entry, got %d", len(entries))
	}
	if ip := entries[0].ContextMap()["client_ip"]; ip != "192.0.2.1" {
		t.Fatalf("expected client_ip from remote address, got %v", ip)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, testDeps{})

	req := httptest.NewRequest(http.MethodOptions, "/api/employees", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin: %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/employees", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown origin, got %d", rec.Code)
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, testDeps{employees: &fakeEmployees{
		get: func(context.Context, employee.GetEmployeeInput) (*employee.Employee, error) {
			panic("boom")
		},
	}})

	rec, env := doRequest(t, r, http.MethodGet, "/api/employees/x", "")
	if rec.Code != http.StatusInternalServerError || env.Success || env.Message != "internal server error" {
		t.Fatalf("unexpected panic response: %d (%+v)", rec.Code, env)
	}
}

func TestOptionalString(t *testing.T) {
	t.Parallel()

	var req updateEmployeeRequest
	if err := json.NewDecoder(bytes.NewBufferString(`{"notes":"hi"}`)).Decode(&req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !req.Notes.Set || req.Notes.Value == nil || *req.Notes.Value != "hi" {
		t.Fatalf("unexpected notes: %+v", req.Notes)
	}
	if req.Location.Set {
		t.Fatalf("expected location unset: %+v", req.Location)
	}
}

package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/report"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
)

// SummaryExporter は期間集計をファイルに書き出します。
type SummaryExporter interface {
	ContentType() string
	FileName(s *report.Summary) string
	WriteSummary(w io.Writer, s *report.Summary) error
}

// WorkRecordHandler は勤務記録 API の HTTP 実装です。
type WorkRecordHandler struct {
	records  workrecord.UseCase
	reports  report.UseCase
	exporter SummaryExporter
}

// NewWorkRecordHandler は WorkRecordHandler を生成します。exporter が nil の場合はエクスポートを提供しません。
func NewWorkRecordHandler(records workrecord.UseCase, reports report.UseCase, exporter SummaryExporter) *WorkRecordHandler {
	return &WorkRecordHandler{records: records, reports: reports, exporter: exporter}
}

// Register はルートを登録します。
func (h *WorkRecordHandler) Register(r gin.IRouter) {
	g := r.Group("/work-records")
	g.POST("", h.SaveWorkRecord)
	g.POST("/batch", h.BatchSaveWorkRecords)
	g.POST("/statistics", h.Statistics)
	g.GET("/summary", h.Summary)
	if h.exporter != nil {
		g.GET("/summary/export", h.ExportSummary)
	}
	g.DELETE("/:id", h.DeleteWorkRecord)
}

// SaveWorkRecord は勤務記録を作成または上書きします。
func (h *WorkRecordHandler) SaveWorkRecord(c *gin.Context) {
	var req saveWorkRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid json")
		return
	}
	if req.EmployeeID == "" || req.Date == "" {
		respondBadRequest(c, "employee_id and date are required")
		return
	}

	saved, err := h.records.SaveWorkRecord(c.Request.Context(), workrecord.SaveWorkRecordInput{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Hours:      req.Hours,
		HourlyRate: req.HourlyRate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, toWorkRecordResponse(saved), "work record saved")
}

// BatchSaveWorkRecords は同じ時間で複数日をまとめて保存します。
func (h *WorkRecordHandler) BatchSaveWorkRecords(c *gin.Context) {
	var req batchSaveWorkRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid json")
		return
	}

	saved, err := h.records.BatchSaveWorkRecords(c.Request.Context(), workrecord.BatchSaveWorkRecordsInput{
		EmployeeID: req.EmployeeID,
		Dates:      req.Dates,
		Hours:      req.Hours,
		HourlyRate: req.HourlyRate,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, batchSaveResponse{
		Saved:   len(saved),
		Records: toWorkRecordResponses(saved),
	}, fmt.Sprintf("%d work records saved", len(saved)))
}

// DeleteWorkRecord は勤務記録を削除します。
func (h *WorkRecordHandler) DeleteWorkRecord(c *gin.Context) {
	if err := h.records.DeleteWorkRecord(c.Request.Context(), workrecord.DeleteWorkRecordInput{ID: c.Param("id")}); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "work record deleted")
}

// Statistics は選択された日付集合の統計を返します。
func (h *WorkRecordHandler) Statistics(c *gin.Context) {
	var req statisticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid json")
		return
	}

	stats, err := h.reports.Statistics(c.Request.Context(), report.StatisticsInput{
		EmployeeID: req.EmployeeID,
		Dates:      req.Dates,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

// Summary は期間内の全従業員集計を返します。
func (h *WorkRecordHandler) Summary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context(), summaryInput(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}

// ExportSummary は期間内の全従業員集計を xlsx で返します。
func (h *WorkRecordHandler) ExportSummary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context(), summaryInput(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteSummary(&buf, summary); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exporter.FileName(summary)))
	c.Data(http.StatusOK, h.exporter.ContentType(), buf.Bytes())
}

func summaryInput(c *gin.Context) report.SummaryInput {
	return report.SummaryInput{
		Start:  c.Query("start"),
		End:    c.Query("end"),
		Preset: c.Query("range"),
	}
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
)

// HolidayProvider は年ごとの祝日表を提供します。
type HolidayProvider interface {
	Holidays(year int) []calendar.Holiday
}

// ReferenceHandler は祝日表や時間計算など記録を伴わない API を提供します。
type ReferenceHandler struct {
	holidays HolidayProvider
}

// NewReferenceHandler は ReferenceHandler を生成します。
func NewReferenceHandler(holidays HolidayProvider) *ReferenceHandler {
	return &ReferenceHandler{holidays: holidays}
}

// Register はルートを登録します。
func (h *ReferenceHandler) Register(r gin.IRouter) {
	r.GET("/holidays", h.Holidays)
	r.GET("/hours", h.Hours)
}

// Holidays は指定年の祝日を日付順に返します。year 省略時は今年です。
func (h *ReferenceHandler) Holidays(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondBadRequest(c, "year must be a positive integer")
			return
		}
		year = parsed
	}
	respondOK(c, h.holidays.Holidays(year))
}

// Hours は開始・終了時刻から勤務時間を計算します。日付をまたぐ範囲にも対応します。
func (h *ReferenceHandler) Hours(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		respondBadRequest(c, "start and end are required")
		return
	}

	hours, err := calendar.ComputeHours(start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, hoursResponse{Start: start, End: end, Hours: hours})
}

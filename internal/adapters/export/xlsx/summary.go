// Package xlsx は集計結果を Excel ブックとして書き出します。
package xlsx

import (
	"fmt"
	"io"

	"github.com/ogurasousui/timesheet-clean-arch/internal/core/report"
	"github.com/xuri/excelize/v2"
)

// ContentType は xlsx の MIME タイプです。
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var summaryHeader = []any{"従業員", "勤務地", "既定時給", "勤務日数", "総時間", "総給与"}

// SummaryExporter は期間集計を 1 シートのブックとして書き出します。
type SummaryExporter struct{}

// NewSummaryExporter は SummaryExporter を生成します。
func NewSummaryExporter() *SummaryExporter {
	return &SummaryExporter{}
}

// ContentType はブックの MIME タイプを返します。
func (e *SummaryExporter) ContentType() string {
	return ContentType
}

// FileName は集計期間からダウンロード用のファイル名を組み立てます。
func (e *SummaryExporter) FileName(s *report.Summary) string {
	return fmt.Sprintf("summary_%s_%s.xlsx", s.Start, s.End)
}

// WriteSummary は従業員ごとに 1 行、最後に合計行を書き込みます。
func (e *SummaryExporter) WriteSummary(w io.Writer, s *report.Summary) (err error) {
	if s == nil {
		return fmt.Errorf("xlsx: summary is nil")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sheet := fmt.Sprintf("%s〜%s", s.Start, s.End)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}

	row := 2
	for _, emp := range s.Employees {
		location := ""
		if emp.Location != nil {
			location = *emp.Location
		}
		values := []any{emp.Name, location, emp.DefaultRate, emp.WorkDays, emp.TotalHours, emp.TotalSalary}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	total := []any{"合計", "", "", s.TotalDays, s.TotalHours, s.TotalSalary}
	if err := setRow(f, sheet, row, total); err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: total style: %w", err)
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: total row %d: %w", row, err)
	}
	last, err := excelize.CoordinatesToCellName(len(summaryHeader), row)
	if err != nil {
		return fmt.Errorf("xlsx: total row %d: %w", row, err)
	}
	if err := f.SetCellStyle(sheet, first, last, totalStyle); err != nil {
		return fmt.Errorf("xlsx: total style: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "B", 18); err != nil {
		return fmt.Errorf("xlsx: column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "C", "F", 12); err != nil {
		return fmt.Errorf("xlsx: column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: row %d: %w", row, err)
	}
	return nil
}

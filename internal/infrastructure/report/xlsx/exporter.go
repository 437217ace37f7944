package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/healthfirst/homecare/internal/core/domain"
)

const (
	SummarySheet = "Tổng quan"
	MonthlySheet = "Theo tháng"
)

// Exporter renders the admin report as an Excel workbook with a summary
// sheet and a per-month sheet.
type Exporter struct{}

func NewExporter() *Exporter { return &Exporter{} }

func (*Exporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (*Exporter) FileExtension() string { return "xlsx" }

func (*Exporter) Export(w io.Writer, report domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	summary := [][]any{
		{"Chỉ số", "Giá trị"},
		{"Tổng người dùng", report.TotalUsers},
		{"Tổng đánh giá", report.TotalAssessments},
		{"Tổng liên hệ", report.TotalContacts},
		{"Thời điểm tạo", report.GeneratedAt.Format("02/01/2006 15:04")},
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", header); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 24); err != nil {
		return fmt.Errorf("size summary: %w", err)
	}

	if _, err := f.NewSheet(MonthlySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	monthly := [][]any{{"Tháng", "Người dùng mới", "Đánh giá"}}
	for _, m := range report.Months {
		monthly = append(monthly, []any{m.Month, m.Users, m.Assessments})
	}
	if err := writeRows(f, MonthlySheet, monthly); err != nil {
		return err
	}
	if err := f.SetCellStyle(MonthlySheet, "A1", "C1", header); err != nil {
		return fmt.Errorf("style monthly: %w", err)
	}
	if err := f.SetColWidth(MonthlySheet, "A", "C", 18); err != nil {
		return fmt.Errorf("size monthly: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, r+1, err)
		}
	}
	return nil
}

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"focusloop/internal/core/history"
)

const (
	barMaxWidth = 110.0
	rowHeight   = 7.0
)

// Report is the input of a statistics export.
type Report struct {
	Period      history.Period
	Summary     history.Summary
	Series      []history.DailyFocus
	GeneratedAt time.Time
}

// WritePDF renders the summary figures and one bar per day to w.
func WritePDF(w io.Writer, report Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("FocusLoop statistics", false)
	pdf.SetCreationDate(report.GeneratedAt)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Focus Report: %s", report.Period.Label()))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Generated "+report.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	summaryRows := [][2]string{
		{"Total focus", fmt.Sprintf("%.1f min", report.Summary.TotalFocusMinutes)},
		{"Focus sessions", fmt.Sprintf("%d", report.Summary.FocusSessions)},
		{"Total break", fmt.Sprintf("%.1f min", report.Summary.TotalBreakMinutes)},
	}
	for _, row := range summaryRows {
		pdf.CellFormat(50, rowHeight, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, rowHeight, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Daily focus")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)

	peak := 0.0
	for _, day := range report.Series {
		if day.FocusMinutes > peak {
			peak = day.FocusMinutes
		}
	}

	pdf.SetFillColor(79, 70, 229)
	for _, day := range report.Series {
		pdf.CellFormat(30, rowHeight, day.Date, "", 0, "L", false, 0, "")
		width := 0.0
		if peak > 0 {
			width = barMaxWidth * day.FocusMinutes / peak
		}
		x, y := pdf.GetXY()
		if width > 0 {
			pdf.Rect(x, y+1, width, rowHeight-2, "F")
		}
		pdf.SetX(x + barMaxWidth + 4)
		pdf.CellFormat(0, rowHeight, fmt.Sprintf("%.1f min", day.FocusMinutes), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Source provides the statistics of a period.
type Source interface {
	Summarize(period history.Period) history.Summary
	DailySeries(period history.Period) []history.DailyFocus
}

// Build collects the figures of period from source.
func Build(source Source, period history.Period, now time.Time) Report {
	return Report{
		Period:      period,
		Summary:     source.Summarize(period),
		Series:      source.DailySeries(period),
		GeneratedAt: now,
	}
}

package stats

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"focusloop/internal/core/history"
	"focusloop/internal/report"
)

// Window shows focus statistics for a selectable period.
type Window struct {
	window  fyne.Window
	source  report.Source
	clock   clockwork.Clock
	logger  zerolog.Logger
	period  history.Period
	focus   *widget.Label
	count   *widget.Label
	breaks  *widget.Label
	bars    *fyne.Container
	periods *widget.Select
}

// New creates the statistics window.
func New(app fyne.App, source report.Source, clock clockwork.Clock, logger zerolog.Logger) *Window {
	window := app.NewWindow("FocusLoop Statistics")

	stats := &Window{
		window: window,
		source: source,
		clock:  clock,
		logger: logger,
		period: history.PeriodToday,
		focus:  widget.NewLabel(""),
		count:  widget.NewLabel(""),
		breaks: widget.NewLabel(""),
		bars:   container.NewVBox(),
	}

	labels := make([]string, 0, len(history.Periods))
	for _, period := range history.Periods {
		labels = append(labels, period.Label())
	}
	stats.periods = widget.NewSelect(labels, func(selected string) {
		for _, period := range history.Periods {
			if period.Label() == selected {
				stats.period = period
			}
		}
		stats.Refresh()
	})

	summary := widget.NewForm(
		widget.NewFormItem("Total focus", stats.focus),
		widget.NewFormItem("Focus sessions", stats.count),
		widget.NewFormItem("Total break", stats.breaks),
	)
	exportButton := widget.NewButton("Export PDF", stats.export)

	header := container.NewBorder(nil, nil, nil, exportButton, stats.periods)
	body := container.NewVBox(
		summary,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Daily focus", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	window.SetContent(container.NewBorder(container.NewVBox(header, body), nil, nil, nil,
		container.NewVScroll(stats.bars)))
	window.SetCloseIntercept(func() {
		window.Hide()
	})
	window.Resize(fyne.NewSize(460, 520))

	stats.periods.SetSelected(stats.period.Label())
	return stats
}

// Show refreshes and displays the window.
func (stats *Window) Show() {
	stats.Refresh()
	stats.window.Show()
	stats.window.RequestFocus()
}

// Refresh recomputes the figures for the selected period.
func (stats *Window) Refresh() {
	summary := stats.source.Summarize(stats.period)
	stats.focus.SetText(FormatMinutes(summary.TotalFocusMinutes))
	stats.count.SetText(fmt.Sprintf("%d", summary.FocusSessions))
	stats.breaks.SetText(FormatMinutes(summary.TotalBreakMinutes))

	series := stats.source.DailySeries(stats.period)
	peak := PeakMinutes(series)
	stats.bars.RemoveAll()
	for _, day := range series {
		minutes := day.FocusMinutes
		bar := widget.NewProgressBar()
		bar.Max = peak
		bar.SetValue(minutes)
		bar.TextFormatter = func() string {
			return FormatMinutes(minutes)
		}
		stats.bars.Add(container.NewBorder(nil, nil, widget.NewLabel(day.Date), nil, bar))
	}
	stats.bars.Refresh()
}

func (stats *Window) export() {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, stats.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		built := report.Build(stats.source, stats.period, stats.clock.Now())
		if err := report.WritePDF(writer, built); err != nil {
			stats.logger.Warn().Err(err).Msg("statistics export failed")
			dialog.ShowError(err, stats.window)
			return
		}
		stats.logger.Info().Str("path", writer.URI().Path()).Msg("statistics exported")
	}, stats.window)
	save.SetFileName(fmt.Sprintf("focusloop-%s-%s.pdf", stats.period, stats.clock.Now().Format(time.DateOnly)))
	save.Show()
}

// FormatMinutes renders a one-decimal minute figure.
func FormatMinutes(minutes float64) string {
	return fmt.Sprintf("%.1f min", minutes)
}

// PeakMinutes is the scale of the daily bars. It is never zero so empty
// periods render as empty bars.
func PeakMinutes(series []history.DailyFocus) float64 {
	peak := 1.0
	for _, day := range series {
		if day.FocusMinutes > peak {
			peak = day.FocusMinutes
		}
	}
	return peak
}

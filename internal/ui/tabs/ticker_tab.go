package tabs

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/nivschuman/ElectionLifecycle/internal/lifecycle"
)

type StatisticsSource interface {
	GetStatistics() lifecycle.TickerStatistics
}

type TickerTab struct {
	source StatisticsSource

	widget fyne.CanvasObject

	totalTicksLabel   *widget.Label
	signalsFiredLabel *widget.Label
	lastTickLabel     *widget.Label
	lastDurationLabel *widget.Label
	failedPassesLabel *widget.Label

	stopTicker chan bool
	stopOnce   sync.Once
}

func NewTickerTab(source StatisticsSource) *TickerTab {
	t := &TickerTab{
		source:     source,
		stopTicker: make(chan bool),
	}

	t.widget = t.buildUI()
	t.startUpdating()

	return t
}

func (t *TickerTab) buildUI() fyne.CanvasObject {
	t.totalTicksLabel = widget.NewLabel("0")
	t.signalsFiredLabel = widget.NewLabel("0")
	t.lastTickLabel = widget.NewLabel("N/A")
	t.lastDurationLabel = widget.NewLabel("0s")
	t.failedPassesLabel = widget.NewLabel("0")

	grid := container.NewGridWithColumns(2,
		widget.NewLabel("Total Ticks:"), t.totalTicksLabel,
		widget.NewLabel("Boundary Signals Fired:"), t.signalsFiredLabel,
		widget.NewLabel("Last Tick:"), t.lastTickLabel,
		widget.NewLabel("Last Tick Duration:"), t.lastDurationLabel,
		widget.NewLabel("Incomplete Passes:"), t.failedPassesLabel,
	)

	return container.NewVBox(
		widget.NewLabelWithStyle("Boundary Ticker", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		grid,
	)
}

func (t *TickerTab) startUpdating() {
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats := t.source.GetStatistics()
				fyne.Do(func() {
					t.updateUI(stats)
				})
			case <-t.stopTicker:
				return
			}
		}
	}()
}

func (t *TickerTab) updateUI(stats lifecycle.TickerStatistics) {
	t.totalTicksLabel.SetText(fmt.Sprintf("%d", stats.TotalTicks))
	t.signalsFiredLabel.SetText(fmt.Sprintf("%d", stats.SignalsFired))
	t.lastDurationLabel.SetText(stats.LastTickTime.String())
	t.failedPassesLabel.SetText(fmt.Sprintf("%d", stats.FailedPasses))

	if stats.LastTickAt.IsZero() {
		t.lastTickLabel.SetText("N/A")
	} else {
		t.lastTickLabel.SetText(stats.LastTickAt.Format("15:04:05"))
	}
}

func (t *TickerTab) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopTicker)
	})
}

func (t *TickerTab) GetWidget() fyne.CanvasObject {
	return t.widget
}

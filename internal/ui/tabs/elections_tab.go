package tabs

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/google/logger"

	"github.com/nivschuman/ElectionLifecycle/internal/lifecycle"
	"github.com/nivschuman/ElectionLifecycle/internal/winners"
)

// ElectionsTab lists every election with a live countdown and the operator actions
// that are valid in its current state.
type ElectionsTab struct {
	machine *lifecycle.StateMachine
	engine  *winners.Engine
	window  fyne.Window

	widget      fyne.CanvasObject
	electionBox *fyne.Container

	rows       []electionRow
	rowWidgets map[string]*electionWidgets
	rendered   bool

	refreshInterval time.Duration
	stopTicker      chan bool
	stopOnce        sync.Once
}

type electionWidgets struct {
	statusLabel    *widget.Label
	countdownLabel *widget.Label
	positionLabels []*widget.Label
}

func NewElectionsTab(machine *lifecycle.StateMachine, engine *winners.Engine, window fyne.Window, refreshInterval time.Duration) *ElectionsTab {
	t := &ElectionsTab{
		machine:         machine,
		engine:          engine,
		window:          window,
		rowWidgets:      make(map[string]*electionWidgets),
		refreshInterval: refreshInterval,
		stopTicker:      make(chan bool),
	}

	t.widget = t.buildUI()
	t.reload()
	t.startUpdating()

	return t
}

func (t *ElectionsTab) buildUI() fyne.CanvasObject {
	t.electionBox = container.NewVBox()

	refreshBtn := widget.NewButton("Refresh", t.reload)
	refreshBtn.Importance = widget.LowImportance

	content := container.NewVBox(
		widget.NewLabelWithStyle("Elections", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(refreshBtn),
		t.electionBox,
	)

	return container.NewVScroll(container.NewPadded(content))
}

func (t *ElectionsTab) startUpdating() {
	go func() {
		ticker := time.NewTicker(t.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rows, err := t.loadRows()
				if err != nil {
					logger.Warningf("|Dashboard| Failed to load elections: %v", err)
					continue
				}

				fyne.Do(func() {
					t.render(rows)
				})
			case <-t.stopTicker:
				return
			}
		}
	}()
}

func (t *ElectionsTab) loadRows() ([]electionRow, error) {
	views, err := t.machine.GetViews()
	if err != nil {
		return nil, err
	}

	rows := make([]electionRow, 0, len(views))
	for _, view := range views {
		rows = append(rows, newElectionRow(view))
	}
	return rows, nil
}

// reload runs on the UI goroutine.
func (t *ElectionsTab) reload() {
	rows, err := t.loadRows()
	if err != nil {
		dialog.ShowError(err, t.window)
		return
	}
	t.render(rows)
}

// render updates the labels in place while the layout is unchanged and rebuilds it otherwise.
func (t *ElectionsTab) render(rows []electionRow) {
	if t.rendered && sameElections(t.rows, rows) {
		for _, row := range rows {
			widgets := t.rowWidgets[row.electionId]
			widgets.statusLabel.SetText(row.status)
			widgets.countdownLabel.SetText(row.countdown)
			for i, position := range row.positions {
				widgets.positionLabels[i].SetText(position.text)
			}
		}
		t.rows = rows
		return
	}

	t.rows = rows
	t.rendered = true
	t.rowWidgets = make(map[string]*electionWidgets, len(rows))
	t.electionBox.Objects = nil

	for _, row := range rows {
		t.electionBox.Add(t.buildElection(row))
	}

	if len(rows) == 0 {
		t.electionBox.Add(widget.NewLabel("No elections yet"))
	}

	t.electionBox.Refresh()
}

func (t *ElectionsTab) buildElection(row electionRow) fyne.CanvasObject {
	widgets := &electionWidgets{
		statusLabel:    widget.NewLabel(row.status),
		countdownLabel: widget.NewLabel(row.countdown),
	}
	t.rowWidgets[row.electionId] = widgets

	header := container.NewHBox(
		widget.NewLabelWithStyle(row.title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widgets.statusLabel,
		widgets.countdownLabel,
	)

	if row.canEnd {
		electionId := row.electionId
		endBtn := widget.NewButton("End Election", func() {
			t.confirmEnd(electionId, row.title)
		})
		endBtn.Importance = widget.DangerImportance
		header.Add(endBtn)
	}

	positionsBox := container.NewVBox()
	for _, position := range row.positions {
		label := widget.NewLabel(position.text)
		widgets.positionLabels = append(widgets.positionLabels, label)

		line := container.NewHBox(label)
		if position.canDeclare {
			electionId, positionId := row.electionId, position.positionId
			line.Add(widget.NewButton("Declare Winner", func() {
				t.declareWinner(electionId, positionId)
			}))
		}
		positionsBox.Add(line)
	}

	return widget.NewCard("", "", container.NewVBox(header, positionsBox))
}

func (t *ElectionsTab) confirmEnd(electionId string, title string) {
	dialog.ShowConfirm("End Election", "End "+title+" now? Voting closes immediately.", func(confirmed bool) {
		if !confirmed {
			return
		}

		if _, err := t.machine.End(electionId); err != nil {
			dialog.ShowError(err, t.window)
		}
		t.reload()
	}, t.window)
}

func (t *ElectionsTab) declareWinner(electionId string, positionId string) {
	winner, err := t.engine.DeclareWinner(electionId, positionId)
	if err != nil {
		dialog.ShowError(err, t.window)
	} else {
		dialog.ShowInformation("Winner Declared", winner.Name+" won with the most votes", t.window)
	}
	t.reload()
}

func (t *ElectionsTab) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopTicker)
	})
}

func (t *ElectionsTab) GetWidget() fyne.CanvasObject {
	return t.widget
}

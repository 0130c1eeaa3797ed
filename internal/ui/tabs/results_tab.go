package tabs

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/google/logger"

	"github.com/nivschuman/ElectionLifecycle/internal/registry"
	"github.com/nivschuman/ElectionLifecycle/internal/winners"
)

// ResultsTab shows the standings of one election, refreshed on demand.
type ResultsTab struct {
	registry *registry.Registry
	engine   *winners.Engine

	widget         fyne.CanvasObject
	electionSelect *widget.Select
	resultsBox     *fyne.Container

	electionIds map[string]string
}

func NewResultsTab(registry *registry.Registry, engine *winners.Engine) *ResultsTab {
	t := &ResultsTab{
		registry:    registry,
		engine:      engine,
		electionIds: make(map[string]string),
	}
	t.widget = t.buildUI()
	t.refreshElections()
	return t
}

func (t *ResultsTab) buildUI() fyne.CanvasObject {
	t.resultsBox = container.NewVBox()
	t.electionSelect = widget.NewSelect(nil, func(selected string) {
		t.refreshResults()
	})
	t.electionSelect.PlaceHolder = "Select an election"

	refreshBtn := widget.NewButton("Refresh Results", func() {
		t.refreshElections()
		t.refreshResults()
	})

	content := container.NewVBox(
		widget.NewLabelWithStyle("Results", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(refreshBtn, t.electionSelect),
		t.resultsBox,
	)

	return container.NewPadded(content)
}

func (t *ResultsTab) refreshElections() {
	elections, err := t.registry.ListElections()
	if err != nil {
		logger.Warningf("|Dashboard| Failed to load elections: %v", err)
		return
	}

	options := make([]string, 0, len(elections))
	t.electionIds = make(map[string]string, len(elections))
	for _, election := range elections {
		option := fmt.Sprintf("%s (%s)", election.Name, election.Id[:8])
		options = append(options, option)
		t.electionIds[option] = election.Id
	}

	t.electionSelect.SetOptions(options)
}

func (t *ResultsTab) refreshResults() {
	t.resultsBox.Objects = nil
	defer t.resultsBox.Refresh()

	electionId, ok := t.electionIds[t.electionSelect.Selected]
	if !ok {
		return
	}

	positions, err := t.engine.Results(electionId)
	if err != nil {
		logger.Warningf("|Dashboard| Failed to load results of %s: %v", electionId, err)
		t.resultsBox.Add(widget.NewLabel("Failed to load results"))
		return
	}

	for _, position := range positions {
		t.resultsBox.Add(widget.NewLabelWithStyle(position.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		for _, candidate := range position.Candidates {
			line := fmt.Sprintf("%s: %d", candidate.Name, candidate.VoteCount)
			if candidate.IsWinner {
				line += " (winner)"
			}
			t.resultsBox.Add(widget.NewLabel(line))
		}
	}
}

func (t *ResultsTab) Stop() {}

func (t *ResultsTab) GetWidget() fyne.CanvasObject {
	return t.widget
}

package tabs

import (
	"fmt"

	models "github.com/nivschuman/ElectionLifecycle/internal/models"
)

// electionRow is the text shown for one election on the dashboard.
type electionRow struct {
	electionId string
	title      string
	status     string
	countdown  string
	canEnd     bool
	positions  []positionRow
}

type positionRow struct {
	positionId string
	text       string
	canDeclare bool
}

func newElectionRow(view *models.ElectionView) electionRow {
	election := view.Election

	row := electionRow{
		electionId: election.Id,
		title:      election.Name,
		status:     string(view.EffectiveStatus),
		countdown:  countdownText(view.TimeLeft),
		canEnd:     view.EffectiveStatus == models.StatusActive,
	}

	if election.Category != "" {
		row.title = fmt.Sprintf("%s (%s)", election.Name, election.Category)
	}

	if election.AutoDeclareEnabled {
		row.status += ", auto declare"
	}

	for _, position := range view.Positions {
		row.positions = append(row.positions, newPositionRow(position, view.EffectiveStatus))
	}

	return row
}

func newPositionRow(position *models.Position, status models.ElectionStatus) positionRow {
	text := fmt.Sprintf("%s: %d candidates", position.Name, len(position.Candidates))
	if winner := position.Winner(); winner != nil {
		text = fmt.Sprintf("%s: won by %s with %d votes", position.Name, winner.Name, winner.VoteCount)
	}

	return positionRow{
		positionId: position.Id,
		text:       text,
		canDeclare: status == models.StatusEnded && !position.HasWinner() && len(position.Candidates) > 0,
	}
}

func countdownText(timeLeft models.TimeLeft) string {
	switch timeLeft.Phase {
	case models.PhaseUntilStart:
		return "Starts in " + timeLeft.String()
	case models.PhaseUntilEnd:
		return "Ends in " + timeLeft.String()
	default:
		return "No countdown"
	}
}

// sameElections reports whether two refreshes show the same elections and positions,
// in which case only the labels need updating.
func sameElections(a []electionRow, b []electionRow) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i].electionId != b[i].electionId || a[i].canEnd != b[i].canEnd || len(a[i].positions) != len(b[i].positions) {
			return false
		}

		for j := range a[i].positions {
			if a[i].positions[j].positionId != b[i].positions[j].positionId || a[i].positions[j].canDeclare != b[i].positions[j].canDeclare {
				return false
			}
		}
	}

	return true
}

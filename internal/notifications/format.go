package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/nivschuman/ElectionLifecycle/internal/events"
)

func Subject(event events.Event) string {
	switch event.Kind {
	case events.ElectionScheduled:
		return fmt.Sprintf("Election %q scheduled", event.ElectionName)
	case events.ElectionStarted:
		return fmt.Sprintf("Election %q has started", event.ElectionName)
	case events.ElectionEnded:
		return fmt.Sprintf("Election %q has ended", event.ElectionName)
	case events.WinnerDeclared:
		return fmt.Sprintf("Winner declared for %s", event.PositionName)
	default:
		return string(event.Kind)
	}
}

func Body(event events.Event) string {
	var b strings.Builder

	b.WriteString(Subject(event))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Election: %s (%s)\n", event.ElectionName, event.ElectionId)

	if event.Kind == events.WinnerDeclared {
		fmt.Fprintf(&b, "Position: %s (%s)\n", event.PositionName, event.PositionId)
		fmt.Fprintf(&b, "Winner: %s (%s)\n", event.CandidateName, event.CandidateId)
	}

	fmt.Fprintf(&b, "At: %s\n", event.At.UTC().Format(time.RFC3339))
	return b.String()
}

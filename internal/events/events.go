package events

import (
	"fmt"
	"time"
)

type EventKind string

const (
	ElectionScheduled EventKind = "election.scheduled"
	ElectionStarted   EventKind = "election.started"
	ElectionEnded     EventKind = "election.ended"
	WinnerDeclared    EventKind = "winner.declared"
)

type Event struct {
	Kind          EventKind
	ElectionId    string
	ElectionName  string
	PositionId    string
	PositionName  string
	CandidateId   string
	CandidateName string
	At            time.Time
}

func (event Event) String() string {
	switch event.Kind {
	case WinnerDeclared:
		return fmt.Sprintf("%s: %s won %s in %s", event.Kind, event.CandidateName, event.PositionName, event.ElectionName)
	default:
		return fmt.Sprintf("%s: %s", event.Kind, event.ElectionName)
	}
}

// Publisher is what election operations need from the bus.
type Publisher interface {
	Publish(events ...Event)
}

package events

import (
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/google/logger"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("elections-test", false, false, io.Discard)
	os.Exit(m.Run())
}

func TestBusDeliversToEveryHandler(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	received := map[string][]EventKind{}
	record := func(name string) EventHandler {
		return func(event Event) error {
			mu.Lock()
			defer mu.Unlock()
			received[name] = append(received[name], event.Kind)
			return nil
		}
	}

	bus.AddHandler(record("mail"))
	bus.AddHandler(record("telegram"))

	bus.Publish(Event{Kind: ElectionStarted, ElectionId: "e1"}, Event{Kind: ElectionEnded, ElectionId: "e1"})
	bus.Wait()

	require.ElementsMatch(t, []EventKind{ElectionStarted, ElectionEnded}, received["mail"])
	require.ElementsMatch(t, []EventKind{ElectionStarted, ElectionEnded}, received["telegram"])
}

func TestBusSurvivesFailingHandlers(t *testing.T) {
	bus := NewBus()

	delivered := make(chan Event, 1)
	bus.AddHandler(func(event Event) error {
		return errors.New("smtp down")
	})
	bus.AddHandler(func(event Event) error {
		panic("broken handler")
	})
	bus.AddHandler(func(event Event) error {
		delivered <- event
		return nil
	})

	require.NotPanics(t, func() {
		bus.Publish(Event{Kind: WinnerDeclared, ElectionId: "e1", CandidateId: "c1"})
		bus.Wait()
	})

	event := <-delivered
	require.Equal(t, "c1", event.CandidateId)
}

func TestRecorderOfKind(t *testing.T) {
	recorder := NewRecorder()
	recorder.Publish(Event{Kind: ElectionStarted}, Event{Kind: WinnerDeclared}, Event{Kind: WinnerDeclared})

	require.Len(t, recorder.OfKind(WinnerDeclared), 2)
	require.Len(t, recorder.Events(), 3)

	recorder.Reset()
	require.Empty(t, recorder.Events())
}

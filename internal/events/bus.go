package events

import (
	"sync"

	"github.com/google/logger"
)

type EventHandler func(event Event) error

// Bus delivers events to handlers on their own goroutines. Delivery is fire and forget,
// a failing or panicking handler is logged and never reaches the publisher.
type Bus struct {
	handlers    []EventHandler
	handlersMux sync.Mutex

	wg sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{}
}

func (bus *Bus) AddHandler(handler EventHandler) {
	bus.handlersMux.Lock()
	defer bus.handlersMux.Unlock()
	bus.handlers = append(bus.handlers, handler)
}

func (bus *Bus) Publish(events ...Event) {
	bus.handlersMux.Lock()
	handlers := make([]EventHandler, len(bus.handlers))
	copy(handlers, bus.handlers)
	bus.handlersMux.Unlock()

	for _, event := range events {
		for _, handler := range handlers {
			bus.wg.Add(1)
			go bus.deliver(handler, event)
		}
	}
}

// Wait blocks until every delivery started so far has returned.
func (bus *Bus) Wait() {
	bus.wg.Wait()
}

func (bus *Bus) deliver(handler EventHandler, event Event) {
	defer bus.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("|Events| Handler panicked on %s: %v", event.Kind, r)
		}
	}()

	if err := handler(event); err != nil {
		logger.Warningf("|Events| Failed to deliver %s for election %s: %v", event.Kind, event.ElectionId, err)
	}
}

// Recorder keeps published events in memory, it is used where no bus is wired and in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (recorder *Recorder) Publish(events ...Event) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.events = append(recorder.events, events...)
}

func (recorder *Recorder) Events() []Event {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]Event(nil), recorder.events...)
}

func (recorder *Recorder) OfKind(kind EventKind) []Event {
	var matching []Event
	for _, event := range recorder.Events() {
		if event.Kind == kind {
			matching = append(matching, event)
		}
	}
	return matching
}

func (recorder *Recorder) Reset() {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.events = nil
}

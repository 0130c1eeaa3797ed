package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/logger"
)

type TickerStatistics struct {
	TotalTicks   int64
	SignalsFired int64
	LastTickAt   time.Time
	LastTickTime time.Duration
	FailedPasses int64
}

// Ticker runs the boundary check of the state machine on a fixed interval.
type Ticker struct {
	machine  *StateMachine
	interval time.Duration

	totalTicks     atomic.Int64
	signalsFired   atomic.Int64
	failures       atomic.Int64
	lastTickAt     atomic.Int64
	lastTickTimeNs atomic.Int64

	stopChannel chan bool
	stopOnce    sync.Once
}

func NewTicker(machine *StateMachine, interval time.Duration) *Ticker {
	return &Ticker{
		machine:     machine,
		interval:    interval,
		stopChannel: make(chan bool),
	}
}

func (ticker *Ticker) StartTicker(wg *sync.WaitGroup) {
	wg.Add(1)

	go func() {
		defer wg.Done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			select {
			case <-ticker.stopChannel:
				cancel()
			case <-ctx.Done():
			}
		}()

		ticker.Run(ctx)
	}()
}

// Run ticks until ctx is done or the ticker is stopped.
func (ticker *Ticker) Run(ctx context.Context) {
	logger.Infof("|Ticker| Started ticker with interval %s", ticker.interval)
	defer logger.Info("|Ticker| Stopped ticker")

	timer := time.NewTicker(ticker.interval)
	defer timer.Stop()

	for {
		ticker.TickOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.stopChannel:
			return
		case <-timer.C:
		}
	}
}

// TickOnce runs a single pass bounded by the tick interval.
func (ticker *Ticker) TickOnce(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, ticker.interval)
	defer cancel()

	startTime := time.Now()
	fired, err := ticker.machine.TickAll(passCtx)
	duration := time.Since(startTime)

	ticker.totalTicks.Add(1)
	ticker.signalsFired.Add(int64(fired))
	ticker.lastTickAt.Store(startTime.UnixNano())
	ticker.lastTickTimeNs.Store(int64(duration))

	if err != nil {
		ticker.failures.Add(1)
		logger.Warningf("|Ticker| Tick pass did not complete in %s: %v", duration, err)
	}
}

func (ticker *Ticker) StopTicker() {
	ticker.stopOnce.Do(func() {
		close(ticker.stopChannel)
	})
}

func (ticker *Ticker) GetStatistics() TickerStatistics {
	var lastTickAt time.Time
	if at := ticker.lastTickAt.Load(); at != 0 {
		lastTickAt = time.Unix(0, at)
	}

	return TickerStatistics{
		TotalTicks:   ticker.totalTicks.Load(),
		SignalsFired: ticker.signalsFired.Load(),
		LastTickAt:   lastTickAt,
		LastTickTime: time.Duration(ticker.lastTickTimeNs.Load()),
		FailedPasses: ticker.failures.Load(),
	}
}

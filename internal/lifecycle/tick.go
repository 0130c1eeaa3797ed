package lifecycle

import (
	"context"
	"time"

	"github.com/google/logger"

	repositories "github.com/nivschuman/ElectionLifecycle/internal/database/repositories"
	"github.com/nivschuman/ElectionLifecycle/internal/events"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
)

// Tick checks one election against the clock. It refreshes the persisted status,
// fires the start signal once the start is within the threshold and handles the end
// boundary, including auto declaration. Every boundary fires at most once per schedule.
func (machine *StateMachine) Tick(electionId string) ([]events.Event, error) {
	unlock := machine.locks.Lock(electionId)
	defer unlock()

	now := machine.clock.Now()

	var published []events.Event
	err := machine.repos.Transaction(func(txRepos *repositories.Repositories) error {
		election, err := txRepos.Elections.GetElection(electionId)
		if err != nil {
			return repositories.TranslateError(err, "election", electionId)
		}

		published, err = machine.tickInTx(txRepos, election, now)
		return err
	})

	if err != nil {
		return nil, repositories.TranslateError(err, "election", electionId)
	}

	machine.publisher.Publish(published...)
	return published, nil
}

func (machine *StateMachine) tickInTx(txRepos *repositories.Repositories, election *models.Election, now time.Time) ([]events.Event, error) {
	if !election.IsScheduled() {
		return nil, nil
	}

	status := election.EffectiveStatus(now)
	if status == models.StatusEnded {
		return endInTx(txRepos, election, now)
	}

	if status != election.Status {
		if err := txRepos.Elections.UpdateStatus(election.Id, status); err != nil {
			return nil, err
		}
	}

	if election.StartTime.Sub(now) > machine.threshold {
		return nil, nil
	}

	first, err := txRepos.Markers.MarkFired(election.Id, repositories.BoundaryStart, now)
	if err != nil || !first {
		return nil, err
	}

	return []events.Event{{
		Kind:         events.ElectionStarted,
		ElectionId:   election.Id,
		ElectionName: election.Name,
		At:           now,
	}}, nil
}

// TickAll ticks every election that still has a boundary ahead of it. It stops early
// when ctx is done so a slow pass never runs into the next one.
func (machine *StateMachine) TickAll(ctx context.Context) (int, error) {
	elections, err := machine.repos.Elections.GetWatchedElections()
	if err != nil {
		return 0, repositories.TranslateError(err, "election", "")
	}

	fired := 0
	for _, election := range elections {
		if err := ctx.Err(); err != nil {
			return fired, err
		}

		published, err := machine.Tick(election.Id)
		if err != nil {
			logger.Warningf("|Ticker| Failed to tick election %s: %v", election.Id, err)
			continue
		}

		fired += len(published)
	}

	return fired, nil
}

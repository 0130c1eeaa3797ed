package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/logger"

	"github.com/nivschuman/ElectionLifecycle/internal/clock"
	repositories "github.com/nivschuman/ElectionLifecycle/internal/database/repositories"
	"github.com/nivschuman/ElectionLifecycle/internal/events"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	structures "github.com/nivschuman/ElectionLifecycle/internal/structures"
	"github.com/nivschuman/ElectionLifecycle/internal/winners"
)

const MinimumCandidates = 2

// StateMachine drives elections through scheduled, active and ended.
type StateMachine struct {
	repos     *repositories.Repositories
	clock     clock.Clock
	locks     *structures.LockMap
	publisher events.Publisher
	threshold time.Duration
}

func NewStateMachine(repos *repositories.Repositories, clk clock.Clock, locks *structures.LockMap, publisher events.Publisher, threshold time.Duration) *StateMachine {
	return &StateMachine{
		repos:     repos,
		clock:     clk,
		locks:     locks,
		publisher: publisher,
		threshold: threshold,
	}
}

// Start schedules an election that is scheduled or ended. The election becomes active
// by itself once its start time passes.
func (machine *StateMachine) Start(electionId string, startTime string, endTime string) (*models.Election, error) {
	return machine.schedule(electionId, startTime, endTime, func(status models.ElectionStatus) bool {
		return status != models.StatusActive
	})
}

// Restart writes a new schedule for an ended election. Declared winners are kept.
func (machine *StateMachine) Restart(electionId string, startTime string, endTime string) (*models.Election, error) {
	return machine.schedule(electionId, startTime, endTime, func(status models.ElectionStatus) bool {
		return status == models.StatusEnded
	})
}

func (machine *StateMachine) schedule(electionId string, startTime string, endTime string, allowed func(status models.ElectionStatus) bool) (*models.Election, error) {
	unlock := machine.locks.Lock(electionId)
	defer unlock()

	now := machine.clock.Now()

	if err := machine.settleEnd(electionId, now); err != nil {
		return nil, err
	}

	var scheduled *models.Election
	err := machine.repos.Transaction(func(txRepos *repositories.Repositories) error {
		election, err := txRepos.Elections.GetElection(electionId)
		if err != nil {
			return repositories.TranslateError(err, "election", electionId)
		}

		if status := election.EffectiveStatus(now); !allowed(status) {
			return models.NewInvalidStateError(fmt.Sprintf("cannot schedule an election that is %s", status), electionId)
		}

		if err := checkCandidateAdequacy(txRepos, electionId); err != nil {
			return err
		}

		start, end, err := ParseSchedule(startTime, endTime)
		if err != nil {
			return err
		}

		if err := txRepos.Elections.UpdateSchedule(electionId, start, end, models.StatusScheduled); err != nil {
			return err
		}

		if err := txRepos.Markers.ClearMarkers(electionId); err != nil {
			return err
		}

		scheduled, err = txRepos.Elections.GetElection(electionId)
		return err
	})

	if err != nil {
		return nil, repositories.TranslateError(err, "election", electionId)
	}

	logger.Infof("|Lifecycle| Scheduled election %s from %s to %s", scheduled.Name, scheduled.StartTime.Format(time.RFC3339), scheduled.EndTime.Format(time.RFC3339))
	machine.publisher.Publish(events.Event{
		Kind:         events.ElectionScheduled,
		ElectionId:   scheduled.Id,
		ElectionName: scheduled.Name,
		At:           now,
	})

	return scheduled, nil
}

// settleEnd runs the end transition of an election whose end time passed before
// the ticker reached it, so a new schedule never swallows the old end.
func (machine *StateMachine) settleEnd(electionId string, now time.Time) error {
	var published []events.Event
	err := machine.repos.Transaction(func(txRepos *repositories.Repositories) error {
		election, err := txRepos.Elections.GetElection(electionId)
		if err != nil {
			return repositories.TranslateError(err, "election", electionId)
		}

		if election.Status == models.StatusEnded || election.EffectiveStatus(now) != models.StatusEnded {
			return nil
		}

		published, err = endInTx(txRepos, election, now)
		return err
	})

	if err != nil {
		return repositories.TranslateError(err, "election", electionId)
	}

	if len(published) > 0 {
		logger.Infof("|Lifecycle| Settled the end of election %s before rescheduling", electionId)
		machine.publisher.Publish(published...)
	}
	return nil
}

func checkCandidateAdequacy(txRepos *repositories.Repositories, electionId string) error {
	positions, err := txRepos.Positions.GetPositions(electionId)
	if err != nil {
		return err
	}

	if len(positions) == 0 {
		return models.NewInsufficientCandidatesError("create at least one position first")
	}

	var names []string
	var ids []string
	for _, position := range positions {
		if len(position.Candidates) < MinimumCandidates {
			names = append(names, position.Name)
			ids = append(ids, position.Id)
		}
	}

	if len(ids) > 0 {
		message := fmt.Sprintf("every position needs at least %d candidates: %s", MinimumCandidates, strings.Join(names, ", "))
		return models.NewInsufficientCandidatesError(message, ids...)
	}

	return nil
}

// End closes an active election immediately, regardless of its end time.
func (machine *StateMachine) End(electionId string) (*models.Election, error) {
	unlock := machine.locks.Lock(electionId)
	defer unlock()

	now := machine.clock.Now()

	var ended *models.Election
	var published []events.Event
	err := machine.repos.Transaction(func(txRepos *repositories.Repositories) error {
		election, err := txRepos.Elections.GetElection(electionId)
		if err != nil {
			return repositories.TranslateError(err, "election", electionId)
		}

		if status := election.EffectiveStatus(now); status != models.StatusActive {
			return models.NewInvalidStateError(fmt.Sprintf("only an active election can be ended, it is %s", status), electionId)
		}

		published, err = endInTx(txRepos, election, now)
		if err != nil {
			return err
		}

		ended, err = txRepos.Elections.GetElection(electionId)
		return err
	})

	if err != nil {
		return nil, repositories.TranslateError(err, "election", electionId)
	}

	logger.Infof("|Lifecycle| Ended election %s", ended.Name)
	machine.publisher.Publish(published...)
	return ended, nil
}

// endInTx persists the ended status, records the end boundary and runs auto declaration.
// Nothing is returned to publish when the end boundary had already fired.
func endInTx(txRepos *repositories.Repositories, election *models.Election, now time.Time) ([]events.Event, error) {
	if election.Status != models.StatusEnded {
		if err := txRepos.Elections.UpdateStatus(election.Id, models.StatusEnded); err != nil {
			return nil, err
		}
		election.Status = models.StatusEnded
	}

	first, err := txRepos.Markers.MarkFired(election.Id, repositories.BoundaryEnd, now)
	if err != nil || !first {
		return nil, err
	}

	published := []events.Event{{
		Kind:         events.ElectionEnded,
		ElectionId:   election.Id,
		ElectionName: election.Name,
		At:           now,
	}}

	if !election.AutoDeclareEnabled {
		return published, nil
	}

	declared, err := winners.DeclareAll(txRepos, election, now)
	if err != nil {
		return nil, err
	}

	return append(published, declared...), nil
}

func (machine *StateMachine) GetEffectiveStatus(electionId string) (models.ElectionStatus, error) {
	election, err := machine.repos.Elections.GetElection(electionId)
	if err != nil {
		return "", repositories.TranslateError(err, "election", electionId)
	}
	return election.EffectiveStatus(machine.clock.Now()), nil
}

func (machine *StateMachine) GetTimeLeft(electionId string) (models.TimeLeft, error) {
	election, err := machine.repos.Elections.GetElection(electionId)
	if err != nil {
		return models.TimeLeft{}, repositories.TranslateError(err, "election", electionId)
	}
	return models.ComputeTimeLeft(machine.clock.Now(), election), nil
}

// GetView reads the election, its positions and its countdown at a single instant.
func (machine *StateMachine) GetView(electionId string) (*models.ElectionView, error) {
	election, err := machine.repos.Elections.GetElection(electionId)
	if err != nil {
		return nil, repositories.TranslateError(err, "election", electionId)
	}

	positions, err := machine.repos.Positions.GetPositions(electionId)
	if err != nil {
		return nil, repositories.TranslateError(err, "position", "")
	}

	now := machine.clock.Now()
	return &models.ElectionView{
		Election:        election,
		EffectiveStatus: election.EffectiveStatus(now),
		TimeLeft:        models.ComputeTimeLeft(now, election),
		Positions:       positions,
	}, nil
}

// GetViews returns the view of every election, newest first.
func (machine *StateMachine) GetViews() ([]*models.ElectionView, error) {
	elections, err := machine.repos.Elections.GetElections()
	if err != nil {
		return nil, repositories.TranslateError(err, "election", "")
	}

	views := make([]*models.ElectionView, 0, len(elections))
	for _, election := range elections {
		view, err := machine.GetView(election.Id)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

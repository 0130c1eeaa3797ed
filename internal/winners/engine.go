package winners

import (
	"errors"
	"time"

	"github.com/google/logger"

	"github.com/nivschuman/ElectionLifecycle/internal/clock"
	repositories "github.com/nivschuman/ElectionLifecycle/internal/database/repositories"
	"github.com/nivschuman/ElectionLifecycle/internal/events"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	structures "github.com/nivschuman/ElectionLifecycle/internal/structures"
)

// Engine declares position winners from the tallied vote counts.
type Engine struct {
	repos     *repositories.Repositories
	clock     clock.Clock
	locks     *structures.LockMap
	publisher events.Publisher
}

func NewEngine(repos *repositories.Repositories, clk clock.Clock, locks *structures.LockMap, publisher events.Publisher) *Engine {
	return &Engine{repos: repos, clock: clk, locks: locks, publisher: publisher}
}

// DeclareWinner is the manual declaration. It needs an election whose effective
// status is ended and a position that has no winner yet.
func (engine *Engine) DeclareWinner(electionId string, positionId string) (*models.Candidate, error) {
	unlock := engine.locks.Lock(electionId)
	defer unlock()

	now := engine.clock.Now()

	var winner *models.Candidate
	var event events.Event
	err := engine.repos.Transaction(func(txRepos *repositories.Repositories) error {
		election, err := txRepos.Elections.GetElection(electionId)
		if err != nil {
			return repositories.TranslateError(err, "election", electionId)
		}

		position, err := txRepos.Positions.GetPosition(positionId)
		if err != nil {
			return repositories.TranslateError(err, "position", positionId)
		}

		if position.ElectionId != electionId {
			return models.NewNotFoundError("position", positionId)
		}

		if position.HasWinner() {
			return models.NewInvariantViolation("the position already has a declared winner", positionId, position.Winner().Id)
		}

		if status := election.EffectiveStatus(now); status != models.StatusEnded {
			return models.NewInvalidStateError("winners can only be declared once the election has ended", electionId)
		}

		winner, event, err = declare(txRepos, election, position, now)
		return err
	})

	if err != nil {
		return nil, repositories.TranslateError(err, "candidate", "")
	}

	engine.publisher.Publish(event)
	return winner, nil
}

// DeclareAll declares a winner for every undecided position of the election inside
// the caller's transaction. Positions without candidates are skipped. The returned
// events must only be published after the transaction commits.
func DeclareAll(txRepos *repositories.Repositories, election *models.Election, now time.Time) ([]events.Event, error) {
	positions, err := txRepos.Positions.GetPositions(election.Id)
	if err != nil {
		return nil, err
	}

	declared := make([]events.Event, 0, len(positions))
	for _, position := range positions {
		if position.HasWinner() {
			continue
		}

		if len(position.Candidates) == 0 {
			logger.Warningf("|Winners| Position %s of election %s has no candidates, skipping", position.Name, election.Id)
			continue
		}

		_, event, err := declare(txRepos, election, position, now)
		if err != nil {
			return nil, err
		}

		declared = append(declared, event)
	}

	return declared, nil
}

func declare(txRepos *repositories.Repositories, election *models.Election, position *models.Position, now time.Time) (*models.Candidate, events.Event, error) {
	winner := SelectWinner(position.Candidates)
	if winner == nil {
		return nil, events.Event{}, models.NewInvariantViolation("the position has no candidates to declare", position.Id)
	}

	err := txRepos.Candidates.MarkWinner(winner.Id)
	if errors.Is(err, repositories.ErrWinnerExists) {
		return nil, events.Event{}, models.NewInvariantViolation("the position already has a declared winner", position.Id)
	}

	if err != nil {
		return nil, events.Event{}, err
	}

	winner.IsWinner = true
	logger.Infof("|Winners| Declared %s winner of %s in election %s with %d votes", winner.Name, position.Name, election.Name, winner.VoteCount)

	return winner, events.Event{
		Kind:          events.WinnerDeclared,
		ElectionId:    election.Id,
		ElectionName:  election.Name,
		PositionId:    position.Id,
		PositionName:  position.Name,
		CandidateId:   winner.Id,
		CandidateName: winner.Name,
		At:            now,
	}, nil
}

// Results returns every position of the election with its candidates in standing order.
func (engine *Engine) Results(electionId string) ([]*models.Position, error) {
	if _, err := engine.repos.Elections.GetElection(electionId); err != nil {
		return nil, repositories.TranslateError(err, "election", electionId)
	}

	positions, err := engine.repos.Positions.GetPositions(electionId)
	if err != nil {
		return nil, repositories.TranslateError(err, "position", "")
	}

	for _, position := range positions {
		position.Candidates = Standings(position.Candidates)
	}

	return positions, nil
}

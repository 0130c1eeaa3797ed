package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nivschuman/ElectionLifecycle/internal/clock"
	repositories "github.com/nivschuman/ElectionLifecycle/internal/database/repositories"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	structures "github.com/nivschuman/ElectionLifecycle/internal/structures"
)

// Store owns the positions of each election and the candidates of each position.
type Store struct {
	repos *repositories.Repositories
	clock clock.Clock
	locks *structures.LockMap
}

func NewStore(repos *repositories.Repositories, clk clock.Clock, locks *structures.LockMap) *Store {
	return &Store{repos: repos, clock: clk, locks: locks}
}

func (store *Store) AddPosition(electionId string, name string) (*models.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "position name is required")
	}

	unlock := store.locks.Lock(electionId)
	defer unlock()

	position := &models.Position{
		Id:         uuid.NewString(),
		ElectionId: electionId,
		Name:       name,
	}

	err := store.repos.Transaction(func(txRepos *repositories.Repositories) error {
		election, err := txRepos.Elections.GetElection(electionId)
		if err != nil {
			return repositories.TranslateError(err, "election", electionId)
		}

		if election.EffectiveStatus(store.clock.Now()) != models.StatusScheduled {
			return models.NewInvalidStateError("positions can only be added while the election is scheduled", electionId)
		}

		existing, err := txRepos.Positions.FindPositionByName(electionId, name)
		if err != nil {
			return err
		}

		if existing != nil {
			return models.NewDuplicatePositionError(name, existing.Id)
		}

		return txRepos.Positions.InsertPosition(position)
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, models.NewDuplicatePositionError(name, "")
	}

	if err != nil {
		return nil, repositories.TranslateError(err, "position", position.Id)
	}

	position.Candidates = []*models.Candidate{}
	logger.Infof("|Store| Added position %s to election %s", position.Name, electionId)
	return position, nil
}

// DeletePosition refuses to remove the last position of an election or a position with a winner.
func (store *Store) DeletePosition(electionId string, positionId string) error {
	unlock := store.locks.Lock(electionId)
	defer unlock()

	err := store.repos.Transaction(func(txRepos *repositories.Repositories) error {
		position, err := txRepos.Positions.GetPosition(positionId)
		if err != nil {
			return repositories.TranslateError(err, "position", positionId)
		}

		if position.ElectionId != electionId {
			return models.NewNotFoundError("position", positionId)
		}

		if position.HasWinner() {
			return models.NewInvariantViolation("a position with a declared winner cannot be deleted", positionId)
		}

		count, err := txRepos.Positions.CountPositions(electionId)
		if err != nil {
			return err
		}

		if count <= 1 {
			return models.NewInvariantViolation("an election must keep at least one position", positionId)
		}

		return txRepos.Positions.DeletePosition(positionId)
	})

	if err != nil {
		return repositories.TranslateError(err, "position", positionId)
	}

	logger.Infof("|Store| Deleted position %s from election %s", positionId, electionId)
	return nil
}

func (store *Store) AddCandidate(positionId string, data models.CandidateData) (*models.Candidate, error) {
	data = data.Normalized()
	if err := models.ValidateStruct(data); err != nil {
		return nil, err
	}

	electionId, err := store.electionOfPosition(positionId)
	if err != nil {
		return nil, err
	}

	unlock := store.locks.Lock(electionId)
	defer unlock()

	candidate := &models.Candidate{
		Id:             uuid.NewString(),
		PositionId:     positionId,
		Name:           data.Name,
		Email:          data.Email,
		PhoneNumber:    data.PhoneNumber,
		WhatsAppNumber: data.WhatsAppNumber,
		Age:            data.Age,
		Gender:         data.Gender,
		PhotoRef:       data.PhotoRef,
	}

	err = store.repos.Transaction(func(txRepos *repositories.Repositories) error {
		if err := store.checkCandidateWrite(txRepos, electionId, positionId); err != nil {
			return err
		}

		candidates, err := txRepos.Candidates.GetElectionCandidates(electionId)
		if err != nil {
			return err
		}

		if err := findContactConflict(candidates, data, ""); err != nil {
			return err
		}

		return txRepos.Candidates.InsertCandidate(candidate, electionId)
	})

	if err != nil {
		return nil, repositories.TranslateError(err, "candidate", candidate.Id)
	}

	logger.Infof("|Store| Added candidate %s to position %s", candidate.Id, positionId)
	return candidate, nil
}

// UpdateCandidate edits a candidate under the same rules as AddCandidate.
func (store *Store) UpdateCandidate(candidateId string, data models.CandidateData) (*models.Candidate, error) {
	data = data.Normalized()
	if err := models.ValidateStruct(data); err != nil {
		return nil, err
	}

	existing, err := store.repos.Candidates.GetCandidate(candidateId)
	if err != nil {
		return nil, repositories.TranslateError(err, "candidate", candidateId)
	}

	electionId, err := store.electionOfPosition(existing.PositionId)
	if err != nil {
		return nil, err
	}

	unlock := store.locks.Lock(electionId)
	defer unlock()

	var updated *models.Candidate
	err = store.repos.Transaction(func(txRepos *repositories.Repositories) error {
		current, err := txRepos.Candidates.GetCandidate(candidateId)
		if err != nil {
			return err
		}

		if err := store.checkCandidateWrite(txRepos, electionId, current.PositionId); err != nil {
			return err
		}

		candidates, err := txRepos.Candidates.GetElectionCandidates(electionId)
		if err != nil {
			return err
		}

		if err := findContactConflict(candidates, data, candidateId); err != nil {
			return err
		}

		current.Name = data.Name
		current.Email = data.Email
		current.PhoneNumber = data.PhoneNumber
		current.WhatsAppNumber = data.WhatsAppNumber
		current.Age = data.Age
		current.Gender = data.Gender
		current.PhotoRef = data.PhotoRef

		if err := txRepos.Candidates.UpdateCandidate(current); err != nil {
			return err
		}

		updated = current
		return nil
	})

	if err != nil {
		return nil, repositories.TranslateError(err, "candidate", candidateId)
	}

	return updated, nil
}

// DeleteCandidate is blocked once the candidate's position has a declared winner.
func (store *Store) DeleteCandidate(candidateId string) error {
	existing, err := store.repos.Candidates.GetCandidate(candidateId)
	if err != nil {
		return repositories.TranslateError(err, "candidate", candidateId)
	}

	electionId, err := store.electionOfPosition(existing.PositionId)
	if err != nil {
		return err
	}

	unlock := store.locks.Lock(electionId)
	defer unlock()

	err = store.repos.Transaction(func(txRepos *repositories.Repositories) error {
		candidate, err := txRepos.Candidates.GetCandidate(candidateId)
		if err != nil {
			return err
		}

		position, err := txRepos.Positions.GetPosition(candidate.PositionId)
		if err != nil {
			return err
		}

		if position.HasWinner() {
			return models.NewInvariantViolation("candidates of a position with a declared winner cannot be deleted", candidateId, position.Id)
		}

		return txRepos.Candidates.DeleteCandidate(candidateId)
	})

	if err != nil {
		return repositories.TranslateError(err, "candidate", candidateId)
	}

	logger.Infof("|Store| Deleted candidate %s", candidateId)
	return nil
}

// ListPositions returns the positions of the election in creation order, each with its candidates.
func (store *Store) ListPositions(electionId string) ([]*models.Position, error) {
	if _, err := store.repos.Elections.GetElection(electionId); err != nil {
		return nil, repositories.TranslateError(err, "election", electionId)
	}

	positions, err := store.repos.Positions.GetPositions(electionId)
	if err != nil {
		return nil, repositories.TranslateError(err, "position", "")
	}

	return positions, nil
}

func (store *Store) GetPosition(positionId string) (*models.Position, error) {
	position, err := store.repos.Positions.GetPosition(positionId)
	if err != nil {
		return nil, repositories.TranslateError(err, "position", positionId)
	}
	return position, nil
}

func (store *Store) GetCandidate(candidateId string) (*models.Candidate, error) {
	candidate, err := store.repos.Candidates.GetCandidate(candidateId)
	if err != nil {
		return nil, repositories.TranslateError(err, "candidate", candidateId)
	}
	return candidate, nil
}

func (store *Store) electionOfPosition(positionId string) (string, error) {
	position, err := store.repos.Positions.GetPosition(positionId)
	if err != nil {
		return "", repositories.TranslateError(err, "position", positionId)
	}
	return position.ElectionId, nil
}

// checkCandidateWrite holds the state rules shared by adding and editing candidates.
func (store *Store) checkCandidateWrite(txRepos *repositories.Repositories, electionId string, positionId string) error {
	election, err := txRepos.Elections.GetElection(electionId)
	if err != nil {
		return repositories.TranslateError(err, "election", electionId)
	}

	if status := election.EffectiveStatus(store.clock.Now()); status != models.StatusScheduled {
		return models.NewInvalidStateError(fmt.Sprintf("candidates can only change while the election is scheduled, it is %s", status), electionId)
	}

	position, err := txRepos.Positions.GetPosition(positionId)
	if err != nil {
		return repositories.TranslateError(err, "position", positionId)
	}

	if position.HasWinner() {
		return models.NewInvariantViolation("the position already has a declared winner", positionId)
	}

	return nil
}

package registry

import (
	"strings"

	"github.com/google/logger"
	"github.com/google/uuid"

	"github.com/nivschuman/ElectionLifecycle/internal/clock"
	repositories "github.com/nivschuman/ElectionLifecycle/internal/database/repositories"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	structures "github.com/nivschuman/ElectionLifecycle/internal/structures"
)

// Registry owns election records.
type Registry struct {
	repos *repositories.Repositories
	clock clock.Clock
	locks *structures.LockMap
}

func NewRegistry(repos *repositories.Repositories, clk clock.Clock, locks *structures.LockMap) *Registry {
	return &Registry{repos: repos, clock: clk, locks: locks}
}

// CreateElection stores a new election in the scheduled state without a schedule.
func (registry *Registry) CreateElection(details models.ElectionDetails) (*models.Election, error) {
	details = normalizeDetails(details)
	if err := models.ValidateStruct(details); err != nil {
		return nil, err
	}

	election := &models.Election{
		Id:       uuid.NewString(),
		Name:     details.Name,
		Category: details.Category,
		Type:     details.Type,
		Status:   models.StatusScheduled,
	}

	if err := registry.repos.Elections.InsertElection(election); err != nil {
		return nil, repositories.TranslateError(err, "election", election.Id)
	}

	logger.Infof("|Registry| Created election %s (%s)", election.Name, election.Id)
	return election, nil
}

func (registry *Registry) GetElection(id string) (*models.Election, error) {
	election, err := registry.repos.Elections.GetElection(id)
	if err != nil {
		return nil, repositories.TranslateError(err, "election", id)
	}
	return election, nil
}

// ListElections returns the most recently created elections first.
func (registry *Registry) ListElections() ([]*models.Election, error) {
	elections, err := registry.repos.Elections.GetElections()
	if err != nil {
		return nil, repositories.TranslateError(err, "election", "")
	}
	return elections, nil
}

// DeleteElection removes the election with all its positions and candidates.
func (registry *Registry) DeleteElection(id string) error {
	unlock := registry.locks.Lock(id)
	defer unlock()

	if err := registry.repos.Elections.DeleteElection(id); err != nil {
		return repositories.TranslateError(err, "election", id)
	}

	logger.Infof("|Registry| Deleted election %s", id)
	return nil
}

// UpdateElectionDetails renames or recategorizes an election that has not started yet.
func (registry *Registry) UpdateElectionDetails(id string, details models.ElectionDetails) (*models.Election, error) {
	details = normalizeDetails(details)
	if err := models.ValidateStruct(details); err != nil {
		return nil, err
	}

	return registry.updateWhileScheduled(id, "details can only be changed before the election starts", func(txRepos *repositories.Repositories) error {
		return txRepos.Elections.UpdateDetails(id, details)
	})
}

// ToggleAutoDeclare switches automatic winner declaration, only while the election is scheduled.
func (registry *Registry) ToggleAutoDeclare(id string, enabled bool) (*models.Election, error) {
	return registry.updateWhileScheduled(id, "auto declare can only be changed while the election is scheduled", func(txRepos *repositories.Repositories) error {
		return txRepos.Elections.UpdateAutoDeclare(id, enabled)
	})
}

func (registry *Registry) updateWhileScheduled(id string, stateMessage string, update func(txRepos *repositories.Repositories) error) (*models.Election, error) {
	unlock := registry.locks.Lock(id)
	defer unlock()

	var updated *models.Election
	err := registry.repos.Transaction(func(txRepos *repositories.Repositories) error {
		election, err := txRepos.Elections.GetElection(id)
		if err != nil {
			return err
		}

		if election.EffectiveStatus(registry.clock.Now()) != models.StatusScheduled {
			return models.NewInvalidStateError(stateMessage, id)
		}

		if err := update(txRepos); err != nil {
			return err
		}

		updated, err = txRepos.Elections.GetElection(id)
		return err
	})

	if err != nil {
		return nil, repositories.TranslateError(err, "election", id)
	}

	return updated, nil
}

func normalizeDetails(details models.ElectionDetails) models.ElectionDetails {
	return models.ElectionDetails{
		Name:     strings.TrimSpace(details.Name),
		Category: strings.TrimSpace(details.Category),
		Type:     strings.TrimSpace(details.Type),
	}
}

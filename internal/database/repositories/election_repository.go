package repositories

import (
	"time"

	db_models "github.com/nivschuman/ElectionLifecycle/internal/database/models"
	mapping "github.com/nivschuman/ElectionLifecycle/internal/mapping"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	"gorm.io/gorm"
)

type ElectionRepository interface {
	InsertElection(election *models.Election) error
	GetElection(id string) (*models.Election, error)
	GetElections() ([]*models.Election, error)
	GetWatchedElections() ([]*models.Election, error)
	UpdateDetails(id string, details models.ElectionDetails) error
	UpdateSchedule(id string, startTime time.Time, endTime time.Time, status models.ElectionStatus) error
	UpdateStatus(id string, status models.ElectionStatus) error
	UpdateAutoDeclare(id string, enabled bool) error
	DeleteElection(id string) error
}

type ElectionRepositoryImpl struct {
	db *gorm.DB
}

func NewElectionRepositoryImpl(db *gorm.DB) *ElectionRepositoryImpl {
	return &ElectionRepositoryImpl{db: db}
}

func (repo *ElectionRepositoryImpl) InsertElection(election *models.Election) error {
	electionDB := mapping.ElectionToElectionDB(election)
	if err := repo.db.Create(electionDB).Error; err != nil {
		return err
	}

	election.CreatedAt = electionDB.CreatedAt.UTC()
	return nil
}

func (repo *ElectionRepositoryImpl) GetElection(id string) (*models.Election, error) {
	var electionDB db_models.ElectionDB
	result := repo.db.Where("id = ?", id).First(&electionDB)

	if result.Error != nil {
		return nil, result.Error
	}

	return mapping.ElectionDBToElection(&electionDB), nil
}

func (repo *ElectionRepositoryImpl) GetElections() ([]*models.Election, error) {
	var electionsDB []db_models.ElectionDB
	err := repo.db.Order("created_at DESC, id ASC").Find(&electionsDB).Error

	if err != nil {
		return nil, err
	}

	elections := make([]*models.Election, len(electionsDB))
	for i := range electionsDB {
		elections[i] = mapping.ElectionDBToElection(&electionsDB[i])
	}

	return elections, nil
}

// GetWatchedElections returns the scheduled elections whose persisted status is not ended yet,
// these are the only ones that can still cross a boundary.
func (repo *ElectionRepositoryImpl) GetWatchedElections() ([]*models.Election, error) {
	var electionsDB []db_models.ElectionDB
	err := repo.db.
		Where("status <> ?", string(models.StatusEnded)).
		Where("start_time IS NOT NULL AND end_time IS NOT NULL").
		Order("start_time ASC").
		Find(&electionsDB).Error

	if err != nil {
		return nil, err
	}

	elections := make([]*models.Election, len(electionsDB))
	for i := range electionsDB {
		elections[i] = mapping.ElectionDBToElection(&electionsDB[i])
	}

	return elections, nil
}

func (repo *ElectionRepositoryImpl) UpdateDetails(id string, details models.ElectionDetails) error {
	return repo.updateColumns(id, map[string]any{
		"name":     details.Name,
		"category": details.Category,
		"type":     details.Type,
	})
}

func (repo *ElectionRepositoryImpl) UpdateSchedule(id string, startTime time.Time, endTime time.Time, status models.ElectionStatus) error {
	return repo.updateColumns(id, map[string]any{
		"start_time": startTime.UTC(),
		"end_time":   endTime.UTC(),
		"status":     string(status),
	})
}

func (repo *ElectionRepositoryImpl) UpdateStatus(id string, status models.ElectionStatus) error {
	return repo.updateColumns(id, map[string]any{"status": string(status)})
}

func (repo *ElectionRepositoryImpl) UpdateAutoDeclare(id string, enabled bool) error {
	return repo.updateColumns(id, map[string]any{"auto_declare_enabled": enabled})
}

// DeleteElection removes the election with its positions, candidates and boundary markers.
func (repo *ElectionRepositoryImpl) DeleteElection(id string) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("election_id = ?", id).Delete(&db_models.CandidateDB{}).Error; err != nil {
			return err
		}

		if err := tx.Where("election_id = ?", id).Delete(&db_models.PositionDB{}).Error; err != nil {
			return err
		}

		if err := tx.Where("election_id = ?", id).Delete(&db_models.BoundaryMarkerDB{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&db_models.ElectionDB{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (repo *ElectionRepositoryImpl) updateColumns(id string, columns map[string]any) error {
	result := repo.db.Model(&db_models.ElectionDB{}).
		Where("id = ?", id).
		Updates(columns)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

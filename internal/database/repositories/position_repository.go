package repositories

import (
	db_models "github.com/nivschuman/ElectionLifecycle/internal/database/models"
	mapping "github.com/nivschuman/ElectionLifecycle/internal/mapping"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	"gorm.io/gorm"
)

type PositionRepository interface {
	InsertPosition(position *models.Position) error
	GetPosition(id string) (*models.Position, error)
	GetPositions(electionId string) ([]*models.Position, error)
	FindPositionByName(electionId string, name string) (*models.Position, error)
	CountPositions(electionId string) (int, error)
	DeletePosition(id string) error
}

type PositionRepositoryImpl struct {
	db *gorm.DB
}

func NewPositionRepositoryImpl(db *gorm.DB) *PositionRepositoryImpl {
	return &PositionRepositoryImpl{db: db}
}

func (repo *PositionRepositoryImpl) InsertPosition(position *models.Position) error {
	positionDB := mapping.PositionToPositionDB(position)
	if err := repo.db.Create(positionDB).Error; err != nil {
		return err
	}

	position.CreatedAt = positionDB.CreatedAt.UTC()
	return nil
}

// GetPosition returns the position with its candidates in registration order.
func (repo *PositionRepositoryImpl) GetPosition(id string) (*models.Position, error) {
	var positionDB db_models.PositionDB
	result := repo.withCandidates().Where("id = ?", id).First(&positionDB)

	if result.Error != nil {
		return nil, result.Error
	}

	return mapping.PositionDBToPosition(&positionDB), nil
}

func (repo *PositionRepositoryImpl) GetPositions(electionId string) ([]*models.Position, error) {
	var positionsDB []db_models.PositionDB
	err := repo.withCandidates().
		Where("election_id = ?", electionId).
		Order("created_at ASC, id ASC").
		Find(&positionsDB).Error

	if err != nil {
		return nil, err
	}

	positions := make([]*models.Position, len(positionsDB))
	for i := range positionsDB {
		positions[i] = mapping.PositionDBToPosition(&positionsDB[i])
	}

	return positions, nil
}

// FindPositionByName matches case insensitively, it returns nil when no position has the name.
func (repo *PositionRepositoryImpl) FindPositionByName(electionId string, name string) (*models.Position, error) {
	var positionsDB []db_models.PositionDB
	err := repo.db.
		Where("election_id = ? AND name_key = ?", electionId, mapping.PositionNameKey(name)).
		Limit(1).
		Find(&positionsDB).Error

	if err != nil {
		return nil, err
	}

	if len(positionsDB) == 0 {
		return nil, nil
	}

	return mapping.PositionDBToPosition(&positionsDB[0]), nil
}

func (repo *PositionRepositoryImpl) CountPositions(electionId string) (int, error) {
	var count int64
	err := repo.db.Model(&db_models.PositionDB{}).
		Where("election_id = ?", electionId).
		Count(&count).Error

	return int(count), err
}

func (repo *PositionRepositoryImpl) DeletePosition(id string) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("position_id = ?", id).Delete(&db_models.CandidateDB{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&db_models.PositionDB{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (repo *PositionRepositoryImpl) withCandidates() *gorm.DB {
	return repo.db.Preload("Candidates", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

package repositories

import (
	"time"

	db_models "github.com/nivschuman/ElectionLifecycle/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Boundary string

const (
	BoundaryStart Boundary = "start"
	BoundaryEnd   Boundary = "end"
)

type BoundaryMarkerRepository interface {
	MarkFired(electionId string, boundary Boundary, firedAt time.Time) (bool, error)
	IsFired(electionId string, boundary Boundary) (bool, error)
	ClearMarkers(electionId string) error
}

type BoundaryMarkerRepositoryImpl struct {
	db *gorm.DB
}

func NewBoundaryMarkerRepositoryImpl(db *gorm.DB) *BoundaryMarkerRepositoryImpl {
	return &BoundaryMarkerRepositoryImpl{db: db}
}

// MarkFired records the boundary signal and reports whether this call was the first to do so.
func (repo *BoundaryMarkerRepositoryImpl) MarkFired(electionId string, boundary Boundary, firedAt time.Time) (bool, error) {
	marker := &db_models.BoundaryMarkerDB{
		ElectionId: electionId,
		Boundary:   string(boundary),
		FiredAt:    firedAt.UTC(),
	}

	result := repo.db.Clauses(clause.OnConflict{DoNothing: true}).Create(marker)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (repo *BoundaryMarkerRepositoryImpl) IsFired(electionId string, boundary Boundary) (bool, error) {
	var count int64
	err := repo.db.Model(&db_models.BoundaryMarkerDB{}).
		Where("election_id = ? AND boundary = ?", electionId, string(boundary)).
		Count(&count).Error

	return count > 0, err
}

func (repo *BoundaryMarkerRepositoryImpl) ClearMarkers(electionId string) error {
	return repo.db.Where("election_id = ?", electionId).Delete(&db_models.BoundaryMarkerDB{}).Error
}

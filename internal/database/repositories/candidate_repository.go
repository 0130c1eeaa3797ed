package repositories

import (
	"errors"

	db_models "github.com/nivschuman/ElectionLifecycle/internal/database/models"
	mapping "github.com/nivschuman/ElectionLifecycle/internal/mapping"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	"gorm.io/gorm"
)

// ErrWinnerExists is returned by MarkWinner when the position already has a winner.
var ErrWinnerExists = errors.New("position already has a winner")

type CandidateRepository interface {
	InsertCandidate(candidate *models.Candidate, electionId string) error
	GetCandidate(id string) (*models.Candidate, error)
	GetElectionCandidates(electionId string) ([]*models.Candidate, error)
	UpdateCandidate(candidate *models.Candidate) error
	DeleteCandidate(id string) error
	MarkWinner(id string) error
	SetVoteCount(id string, voteCount int) error
}

type CandidateRepositoryImpl struct {
	db *gorm.DB
}

func NewCandidateRepositoryImpl(db *gorm.DB) *CandidateRepositoryImpl {
	return &CandidateRepositoryImpl{db: db}
}

func (repo *CandidateRepositoryImpl) InsertCandidate(candidate *models.Candidate, electionId string) error {
	candidateDB := mapping.CandidateToCandidateDB(candidate, electionId)
	if err := repo.db.Create(candidateDB).Error; err != nil {
		return err
	}

	candidate.CreatedAt = candidateDB.CreatedAt.UTC()
	return nil
}

func (repo *CandidateRepositoryImpl) GetCandidate(id string) (*models.Candidate, error) {
	var candidateDB db_models.CandidateDB
	result := repo.db.Where("id = ?", id).First(&candidateDB)

	if result.Error != nil {
		return nil, result.Error
	}

	return mapping.CandidateDBToCandidate(&candidateDB), nil
}

// GetElectionCandidates returns every candidate of every position in the election.
func (repo *CandidateRepositoryImpl) GetElectionCandidates(electionId string) ([]*models.Candidate, error) {
	var candidatesDB []db_models.CandidateDB
	err := repo.db.
		Where("election_id = ?", electionId).
		Order("created_at ASC, id ASC").
		Find(&candidatesDB).Error

	if err != nil {
		return nil, err
	}

	candidates := make([]*models.Candidate, len(candidatesDB))
	for i := range candidatesDB {
		candidates[i] = mapping.CandidateDBToCandidate(&candidatesDB[i])
	}

	return candidates, nil
}

// UpdateCandidate writes the operator editable fields, vote count and winner flag are left alone.
func (repo *CandidateRepositoryImpl) UpdateCandidate(candidate *models.Candidate) error {
	result := repo.db.Model(&db_models.CandidateDB{}).
		Where("id = ?", candidate.Id).
		Updates(map[string]any{
			"name":            candidate.Name,
			"email":           candidate.Email,
			"email_key":       models.NormalizeEmail(candidate.Email),
			"phone_number":    candidate.PhoneNumber,
			"phone_key":       models.NormalizePhone(candidate.PhoneNumber),
			"whatsapp_number": candidate.WhatsAppNumber,
			"whatsapp_key":    models.NormalizePhone(candidate.WhatsAppNumber),
			"age":             candidate.Age,
			"gender":          candidate.Gender,
			"photo_ref":       candidate.PhotoRef,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (repo *CandidateRepositoryImpl) DeleteCandidate(id string) error {
	result := repo.db.Where("id = ?", id).Delete(&db_models.CandidateDB{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// MarkWinner sets the winner flag, it only succeeds while no candidate of the same position holds it.
func (repo *CandidateRepositoryImpl) MarkWinner(id string) error {
	existingWinners := repo.db.Table("candidates AS c2").
		Select("1").
		Where("c2.position_id = candidates.position_id AND c2.is_winner = ?", true)

	result := repo.db.Model(&db_models.CandidateDB{}).
		Where("id = ?", id).
		Where("NOT EXISTS (?)", existingWinners).
		Update("is_winner", true)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrWinnerExists
	}

	return nil
}

// SetVoteCount is the hook for the vote tally, election operations never call it.
func (repo *CandidateRepositoryImpl) SetVoteCount(id string, voteCount int) error {
	result := repo.db.Model(&db_models.CandidateDB{}).
		Where("id = ?", id).
		Update("vote_count", voteCount)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

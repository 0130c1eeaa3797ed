package mapping

import (
	"strings"
	"time"

	db_models "github.com/nivschuman/ElectionLifecycle/internal/database/models"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
)

func ElectionToElectionDB(election *models.Election) *db_models.ElectionDB {
	return &db_models.ElectionDB{
		Id:                 election.Id,
		Name:               election.Name,
		Category:           election.Category,
		Type:               election.Type,
		StartTime:          cloneTime(election.StartTime),
		EndTime:            cloneTime(election.EndTime),
		Status:             string(election.Status),
		AutoDeclareEnabled: election.AutoDeclareEnabled,
		CreatedAt:          election.CreatedAt,
	}
}

func ElectionDBToElection(electionDB *db_models.ElectionDB) *models.Election {
	return &models.Election{
		Id:                 electionDB.Id,
		Name:               electionDB.Name,
		Category:           electionDB.Category,
		Type:               electionDB.Type,
		StartTime:          cloneTime(electionDB.StartTime),
		EndTime:            cloneTime(electionDB.EndTime),
		Status:             models.ElectionStatus(electionDB.Status),
		AutoDeclareEnabled: electionDB.AutoDeclareEnabled,
		CreatedAt:          electionDB.CreatedAt.UTC(),
	}
}

func PositionToPositionDB(position *models.Position) *db_models.PositionDB {
	return &db_models.PositionDB{
		Id:         position.Id,
		ElectionId: position.ElectionId,
		Name:       position.Name,
		NameKey:    PositionNameKey(position.Name),
		CreatedAt:  position.CreatedAt,
	}
}

func PositionDBToPosition(positionDB *db_models.PositionDB) *models.Position {
	candidates := make([]*models.Candidate, len(positionDB.Candidates))
	for i := range positionDB.Candidates {
		candidates[i] = CandidateDBToCandidate(&positionDB.Candidates[i])
	}

	return &models.Position{
		Id:         positionDB.Id,
		ElectionId: positionDB.ElectionId,
		Name:       positionDB.Name,
		CreatedAt:  positionDB.CreatedAt.UTC(),
		Candidates: candidates,
	}
}

func CandidateToCandidateDB(candidate *models.Candidate, electionId string) *db_models.CandidateDB {
	return &db_models.CandidateDB{
		Id:             candidate.Id,
		PositionId:     candidate.PositionId,
		ElectionId:     electionId,
		Name:           candidate.Name,
		Email:          candidate.Email,
		EmailKey:       models.NormalizeEmail(candidate.Email),
		PhoneNumber:    candidate.PhoneNumber,
		PhoneKey:       models.NormalizePhone(candidate.PhoneNumber),
		WhatsAppNumber: candidate.WhatsAppNumber,
		WhatsAppKey:    models.NormalizePhone(candidate.WhatsAppNumber),
		Age:            candidate.Age,
		Gender:         candidate.Gender,
		PhotoRef:       candidate.PhotoRef,
		VoteCount:      candidate.VoteCount,
		IsWinner:       candidate.IsWinner,
		CreatedAt:      candidate.CreatedAt,
	}
}

func CandidateDBToCandidate(candidateDB *db_models.CandidateDB) *models.Candidate {
	return &models.Candidate{
		Id:             candidateDB.Id,
		PositionId:     candidateDB.PositionId,
		Name:           candidateDB.Name,
		Email:          candidateDB.Email,
		PhoneNumber:    candidateDB.PhoneNumber,
		WhatsAppNumber: candidateDB.WhatsAppNumber,
		Age:            candidateDB.Age,
		Gender:         candidateDB.Gender,
		PhotoRef:       candidateDB.PhotoRef,
		VoteCount:      candidateDB.VoteCount,
		IsWinner:       candidateDB.IsWinner,
		CreatedAt:      candidateDB.CreatedAt.UTC(),
	}
}

func PositionNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := t.UTC()
	return &c
}

package server

import (
	"time"

	models "github.com/nivschuman/ElectionLifecycle/internal/models"
)

type electionResponse struct {
	Id                 string     `json:"id"`
	Name               string     `json:"name"`
	Category           string     `json:"category"`
	Type               string     `json:"type"`
	StartTime          *time.Time `json:"start_time"`
	EndTime            *time.Time `json:"end_time"`
	Status             string     `json:"status"`
	EffectiveStatus    string     `json:"effective_status"`
	AutoDeclareEnabled bool       `json:"auto_declare_enabled"`
	CreatedAt          time.Time  `json:"created_at"`
}

type timeLeftResponse struct {
	Phase            string  `json:"phase"`
	RemainingSeconds float64 `json:"remaining_seconds"`
	Hours            int     `json:"hours"`
	Minutes          int     `json:"minutes"`
	Seconds          int     `json:"seconds"`
	Display          string  `json:"display"`
}

type candidateResponse struct {
	Id             string    `json:"id"`
	PositionId     string    `json:"position_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	WhatsAppNumber string    `json:"whatsapp_number,omitempty"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	PhotoRef       string    `json:"photo_ref,omitempty"`
	VoteCount      int       `json:"vote_count"`
	IsWinner       bool      `json:"is_winner"`
	CreatedAt      time.Time `json:"created_at"`
}

type positionResponse struct {
	Id         string              `json:"id"`
	ElectionId string              `json:"election_id"`
	Name       string              `json:"name"`
	CreatedAt  time.Time           `json:"created_at"`
	Candidates []candidateResponse `json:"candidates"`
}

type electionViewResponse struct {
	Election  electionResponse   `json:"election"`
	TimeLeft  timeLeftResponse   `json:"time_left"`
	Positions []positionResponse `json:"positions"`
}

type errorResponse struct {
	Kind      string   `json:"kind"`
	Message   string   `json:"message"`
	Field     string   `json:"field,omitempty"`
	EntityIds []string `json:"entity_ids,omitempty"`
}

func newElectionResponse(election *models.Election, now time.Time) electionResponse {
	return electionResponse{
		Id:                 election.Id,
		Name:               election.Name,
		Category:           election.Category,
		Type:               election.Type,
		StartTime:          election.StartTime,
		EndTime:            election.EndTime,
		Status:             string(election.Status),
		EffectiveStatus:    string(election.EffectiveStatus(now)),
		AutoDeclareEnabled: election.AutoDeclareEnabled,
		CreatedAt:          election.CreatedAt,
	}
}

func newTimeLeftResponse(timeLeft models.TimeLeft) timeLeftResponse {
	return timeLeftResponse{
		Phase:            string(timeLeft.Phase),
		RemainingSeconds: timeLeft.Remaining.Seconds(),
		Hours:            timeLeft.Hours,
		Minutes:          timeLeft.Minutes,
		Seconds:          timeLeft.Seconds,
		Display:          timeLeft.String(),
	}
}

func newCandidateResponse(candidate *models.Candidate) candidateResponse {
	return candidateResponse{
		Id:             candidate.Id,
		PositionId:     candidate.PositionId,
		Name:           candidate.Name,
		Email:          candidate.Email,
		PhoneNumber:    candidate.PhoneNumber,
		WhatsAppNumber: candidate.WhatsAppNumber,
		Age:            candidate.Age,
		Gender:         candidate.Gender,
		PhotoRef:       candidate.PhotoRef,
		VoteCount:      candidate.VoteCount,
		IsWinner:       candidate.IsWinner,
		CreatedAt:      candidate.CreatedAt,
	}
}

func newPositionResponse(position *models.Position) positionResponse {
	candidates := make([]candidateResponse, 0, len(position.Candidates))
	for _, candidate := range position.Candidates {
		candidates = append(candidates, newCandidateResponse(candidate))
	}

	return positionResponse{
		Id:         position.Id,
		ElectionId: position.ElectionId,
		Name:       position.Name,
		CreatedAt:  position.CreatedAt,
		Candidates: candidates,
	}
}

func newPositionResponses(positions []*models.Position) []positionResponse {
	responses := make([]positionResponse, 0, len(positions))
	for _, position := range positions {
		responses = append(responses, newPositionResponse(position))
	}
	return responses
}

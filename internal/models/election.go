package models

import "time"

type ElectionStatus string

const (
	StatusScheduled ElectionStatus = "scheduled"
	StatusActive    ElectionStatus = "active"
	StatusEnded     ElectionStatus = "ended"
)

// Known election categories. Category is stored as free text, these are the ones the dashboard offers.
const (
	CategoryEducation = "Education Based"
	CategoryCommunity = "Community & Organization"
)

type Election struct {
	Id                 string
	Name               string
	Category           string
	Type               string
	StartTime          *time.Time //nil until the election is scheduled
	EndTime            *time.Time //nil until the election is scheduled
	Status             ElectionStatus
	AutoDeclareEnabled bool
	CreatedAt          time.Time
}

type ElectionDetails struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"max=100"`
	Type     string `json:"type" validate:"max=100"`
}

func (election *Election) IsScheduled() bool {
	return election.StartTime != nil && election.EndTime != nil
}

// EffectiveStatus is the status the election is in at now, see EffectiveStatus.
func (election *Election) EffectiveStatus(now time.Time) ElectionStatus {
	return EffectiveStatus(now, election.StartTime, election.EndTime, election.Status)
}

// EffectiveStatus derives the lifecycle state from the schedule. The persisted status only
// wins when it says ended (a manual end before end time) or when no schedule exists yet.
func EffectiveStatus(now time.Time, startTime *time.Time, endTime *time.Time, persisted ElectionStatus) ElectionStatus {
	if persisted == StatusEnded {
		return StatusEnded
	}

	if startTime == nil || endTime == nil {
		return persisted
	}

	if now.Before(*startTime) {
		return StatusScheduled
	}

	if now.Before(*endTime) {
		return StatusActive
	}

	return StatusEnded
}

// ElectionView is the dashboard read model of an election at a given instant.
type ElectionView struct {
	Election        *Election
	EffectiveStatus ElectionStatus
	TimeLeft        TimeLeft
	Positions       []*Position
}

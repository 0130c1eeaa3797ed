package models

import (
	"fmt"
	"time"
)

type CountdownPhase string

const (
	PhaseUntilStart CountdownPhase = "until_start"
	PhaseUntilEnd   CountdownPhase = "until_end"
	PhaseNone       CountdownPhase = "none"
)

type TimeLeft struct {
	Phase     CountdownPhase
	Remaining time.Duration
	Hours     int
	Minutes   int
	Seconds   int
}

func NewTimeLeft(phase CountdownPhase, remaining time.Duration) TimeLeft {
	if remaining < 0 {
		remaining = 0
	}

	total := int(remaining / time.Second)
	return TimeLeft{
		Phase:     phase,
		Remaining: remaining,
		Hours:     total / 3600,
		Minutes:   (total % 3600) / 60,
		Seconds:   total % 60,
	}
}

// ComputeTimeLeft counts down to the next boundary of the schedule.
func ComputeTimeLeft(now time.Time, election *Election) TimeLeft {
	if !election.IsScheduled() {
		return NewTimeLeft(PhaseNone, 0)
	}

	switch election.EffectiveStatus(now) {
	case StatusScheduled:
		return NewTimeLeft(PhaseUntilStart, election.StartTime.Sub(now))
	case StatusActive:
		return NewTimeLeft(PhaseUntilEnd, election.EndTime.Sub(now))
	default:
		return NewTimeLeft(PhaseNone, 0)
	}
}

func (timeLeft TimeLeft) String() string {
	return fmt.Sprintf("%02dh %02dm %02ds", timeLeft.Hours, timeLeft.Minutes, timeLeft.Seconds)
}

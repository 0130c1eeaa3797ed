package models

import "time"

type Position struct {
	Id         string
	ElectionId string
	Name       string
	CreatedAt  time.Time
	Candidates []*Candidate
}

func (position *Position) Winner() *Candidate {
	for _, candidate := range position.Candidates {
		if candidate.IsWinner {
			return candidate
		}
	}
	return nil
}

func (position *Position) HasWinner() bool {
	return position.Winner() != nil
}

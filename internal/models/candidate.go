package models

import (
	"strings"
	"time"
	"unicode"
)

type Candidate struct {
	Id             string
	PositionId     string
	Name           string
	Email          string
	PhoneNumber    string
	WhatsAppNumber string
	Age            int
	Gender         string
	PhotoRef       string
	VoteCount      int //maintained by the vote tally, read only here
	IsWinner       bool
	CreatedAt      time.Time
}

// CandidateData is the operator input for creating or editing a candidate.
type CandidateData struct {
	Name           string `json:"name" validate:"required,max=200"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phone_number" validate:"required,phone"`
	WhatsAppNumber string `json:"whatsapp_number" validate:"omitempty,phone"`
	Age            int    `json:"age" validate:"gte=18,lte=120"`
	Gender         string `json:"gender" validate:"required,oneof=male female other"`
	PhotoRef       string `json:"photo_ref" validate:"omitempty,max=500"`
}

// Normalized trims all text fields and lower cases gender.
func (data CandidateData) Normalized() CandidateData {
	return CandidateData{
		Name:           strings.TrimSpace(data.Name),
		Email:          strings.TrimSpace(data.Email),
		PhoneNumber:    strings.TrimSpace(data.PhoneNumber),
		WhatsAppNumber: strings.TrimSpace(data.WhatsAppNumber),
		Age:            data.Age,
		Gender:         strings.ToLower(strings.TrimSpace(data.Gender)),
		PhotoRef:       strings.TrimSpace(data.PhotoRef),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone keeps only the digits, so "+1 (555) 010-2000" and "15550102000" compare equal.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

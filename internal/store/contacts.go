package store

import (
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
)

// findContactConflict scans every candidate of the election. Email is checked first,
// then phone, then WhatsApp, so the operator is told about one field at a time.
func findContactConflict(candidates []*models.Candidate, data models.CandidateData, excludeId string) error {
	email := models.NormalizeEmail(data.Email)
	phone := models.NormalizePhone(data.PhoneNumber)
	whatsApp := models.NormalizePhone(data.WhatsAppNumber)

	others := make([]*models.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Id != excludeId {
			others = append(others, candidate)
		}
	}

	for _, candidate := range others {
		if email != "" && models.NormalizeEmail(candidate.Email) == email {
			return models.NewDuplicateContactError("email", candidate.Id)
		}
	}

	for _, candidate := range others {
		if phone != "" && models.NormalizePhone(candidate.PhoneNumber) == phone {
			return models.NewDuplicateContactError("phone_number", candidate.Id)
		}
	}

	if whatsApp == "" {
		return nil
	}

	for _, candidate := range others {
		if models.NormalizePhone(candidate.WhatsAppNumber) == whatsApp {
			return models.NewDuplicateContactError("whatsapp_number", candidate.Id)
		}
	}

	return nil
}

package repositories

import (
	"errors"

	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	"gorm.io/gorm"
)

// TranslateError turns persistence errors into the election error taxonomy.
// Structured errors pass through, missing rows become NotFound and
// everything else is a retryable TransportError.
func TranslateError(err error, entity string, id string) error {
	if err == nil {
		return nil
	}

	var modelErr *models.Error
	if errors.As(err, &modelErr) {
		return modelErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(entity, id)
	}

	return models.NewTransportError(err)
}

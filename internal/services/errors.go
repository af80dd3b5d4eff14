package services

import (
	"strings"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/models"
)

// parseID checks the identifier shape and returns it lowercased so every
// backend sees the same form.
func parseID(id, what string) (string, error) {
	id = strings.TrimSpace(id)
	if !models.IsValidID(id) {
		return "", apperrors.InvalidInput("Invalid "+what+" ID format", nil)
	}
	return strings.ToLower(id), nil
}

func validationError(vs []models.Violation) error {
	return apperrors.InvalidInput(strings.Join(models.Messages(vs), ", "), nil).WithDetails(vs)
}

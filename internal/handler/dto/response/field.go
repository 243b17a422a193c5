package response

import (
	"fieldbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	FieldID        uuid.UUID `json:"fieldId"`
	Date           string    `json:"date"`
	AvailableHours []string  `json:"availableHours"`
}

func FromAvailability(a *queries.FieldAvailability) *AvailabilityResponse {
	return &AvailabilityResponse{
		FieldID:        a.FieldID,
		Date:           a.Date.Format("2006-01-02"),
		AvailableHours: a.AvailableHours,
	}
}

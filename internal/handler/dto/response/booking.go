package response

import (
	"time"

	"fieldbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	FieldID       uuid.UUID  `json:"fieldId"`
	FieldName     string     `json:"fieldName"`
	MatchID       *uuid.UUID `json:"matchId,omitempty"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	TotalCents    int64      `json:"totalCents"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	PaymentMethod string     `json:"paymentMethod"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:            v.ID,
		FieldID:       v.FieldID,
		FieldName:     v.FieldName,
		MatchID:       v.MatchID,
		StartTime:     v.StartTime,
		EndTime:       v.EndTime,
		TotalCents:    v.TotalCents,
		Status:        v.Status,
		PaymentStatus: v.PaymentStatus,
		PaymentMethod: v.PaymentMethod,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func FromBookingViews(vs []*queries.BookingView) []*BookingResponse {
	out := make([]*BookingResponse, len(vs))
	for i, v := range vs {
		out[i] = FromBookingView(v)
	}
	return out
}

package request

import (
	"strings"
	"time"
)

type CreateBookingRequest struct {
	FieldID   string `json:"field_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	StartHour string `json:"start_hour" binding:"required"`
	UseWallet bool   `json:"use_wallet"`
	PaymentID string `json:"payment_id,omitempty"`
}

// ParseDate accepts the booking date as YYYY-MM-DD.
func (r CreateBookingRequest) ParseDate() (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(r.Date))
}

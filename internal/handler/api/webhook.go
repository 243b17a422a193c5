package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	reqdto "fieldbook/internal/handler/dto/request"
	"fieldbook/internal/handler/httperr"
	"fieldbook/internal/infra/gateway"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	webhookSignatureHeader = "X-Signature"
	maxWebhookBodyBytes    = 64 * 1024
)

// WebhookHandler completes bookings driven by gateway payment events. The
// payment's external reference carries the booking intent, so a checkout
// finished out-of-band still materializes a booking without a second client
// call. The payment-id dedupe makes gateway retries harmless.
type WebhookHandler struct {
	verifier        *gateway.SignatureVerifier
	payments        gateway.PaymentClient
	bookingCommands commands.BookingCommands
}

func NewWebhookHandler(
	verifier *gateway.SignatureVerifier,
	payments gateway.PaymentClient,
	bookingCommands commands.BookingCommands,
) *WebhookHandler {
	return &WebhookHandler{
		verifier:        verifier,
		payments:        payments,
		bookingCommands: bookingCommands,
	}
}

func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}

	// Signature check happens on the raw body, before any parsing.
	if !h.verifier.Verify(body, c.GetHeader(webhookSignatureHeader)) {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrInvalidWebhookSignature, "Invalid signature", nil)
		return
	}

	var event reqdto.PaymentWebhookRequest
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event format"})
		return
	}
	if event.Type != "payment" || event.Data.ID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	info, err := h.payments.GetPaymentInfo(c.Request.Context(), event.Data.ID)
	if err != nil {
		slog.Error("webhook payment lookup failed", "payment_id", event.Data.ID, "error", err)
		// 5xx makes the gateway retry later.
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment lookup failed"})
		return
	}
	if !info.IsApproved() {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	intent, ok := parseBookingIntent(info.ExternalRef)
	if !ok {
		slog.Warn("webhook payment without booking intent", "payment_id", info.ID)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	intent.PaymentID = info.ID

	result, err := h.bookingCommands.CreateBooking(c.Request.Context(), intent)
	if err != nil {
		slog.Error("webhook booking creation failed", "payment_id", info.ID, "error", err)
		c.JSON(http.StatusConflict, gin.H{"error": "Booking could not be completed"})
		return
	}

	status := "created"
	if result.IsReplayed {
		status = "replayed"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "booking_id": result.Booking.ID})
}

// parseBookingIntent decodes the external reference a checkout attaches to
// its payment: "booking|<user_id>|<field_id>|<date>|<start_hour>|<wallet>",
// where wallet is "1" when the wallet should cover part of the price.
func parseBookingIntent(ref string) (commands.CreateBookingRequest, bool) {
	parts := strings.Split(ref, "|")
	if len(parts) != 6 || parts[0] != "booking" {
		return commands.CreateBookingRequest{}, false
	}
	userID, err := uuid.Parse(parts[1])
	if err != nil {
		return commands.CreateBookingRequest{}, false
	}
	fieldID, err := uuid.Parse(parts[2])
	if err != nil {
		return commands.CreateBookingRequest{}, false
	}
	date, err := time.Parse("2006-01-02", parts[3])
	if err != nil {
		return commands.CreateBookingRequest{}, false
	}
	return commands.CreateBookingRequest{
		UserID:    userID,
		FieldID:   fieldID,
		Date:      date,
		StartHour: parts[4],
		UseWallet: parts[5] == "1",
	}, true
}

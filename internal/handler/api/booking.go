package api

import (
	"errors"
	"net/http"

	reqdto "fieldbook/internal/handler/dto/request"
	resdto "fieldbook/internal/handler/dto/response"
	"fieldbook/internal/handler/middleware"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/commands"
	"fieldbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	fieldID, err := uuid.Parse(req.FieldID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field id"})
		return
	}
	date, err := req.ParseDate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	result, err := h.bookingCommands.CreateBooking(c.Request.Context(), commands.CreateBookingRequest{
		UserID:    userID,
		FieldID:   fieldID,
		Date:      date,
		StartHour: req.StartHour,
		UseWallet: req.UseWallet,
		PaymentID: req.PaymentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrFieldNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Field not found"})
		case errors.Is(err, errs.ErrSlotUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "Time slot is not available"})
		case errors.Is(err, errs.ErrMatchAlreadyHasPlayers):
			c.JSON(http.StatusConflict, gin.H{"error": "Match already has players"})
		case errors.Is(err, errs.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient wallet funds"})
		case errors.Is(err, errs.ErrPaymentNotApproved):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Payment not approved"})
		case errors.Is(err, errs.ErrPaymentAmountMismatch):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Payment amount does not match"})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking request"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromBookingView(result.Booking))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, errs.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if view.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.bookingQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	view, err := h.bookingCommands.CancelBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, errs.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Booking belongs to another user"})
		case errors.Is(err, errs.ErrAlreadyCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking is already finished"})
		case errors.Is(err, errs.ErrPastBooking):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Booking has already started"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

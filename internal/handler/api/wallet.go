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
)

const (
	walletSummaryTxLimit = 10
	walletListTxLimit    = 50
)

type WalletHandler struct {
	walletCommands commands.WalletCommands
	walletQueries  queries.WalletQueries
}

func NewWalletHandler(walletCommands commands.WalletCommands, walletQueries queries.WalletQueries) *WalletHandler {
	return &WalletHandler{
		walletCommands: walletCommands,
		walletQueries:  walletQueries,
	}
}

func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	detail, err := h.walletQueries.GetByUser(c.Request.Context(), userID, walletSummaryTxLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromWalletDetail(detail))
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	detail, err := h.walletQueries.GetByUser(c.Request.Context(), userID, walletListTxLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resp := resdto.FromWalletDetail(detail)
	c.JSON(http.StatusOK, resp.Transactions)
}

func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.DepositRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.walletCommands.Deposit(c.Request.Context(), userID, req.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrPaymentNotApproved):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Payment not approved"})
		case errors.Is(err, errs.ErrPaymentAmountMismatch):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Payment amount is invalid"})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deposit request"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromWalletView(view))
}

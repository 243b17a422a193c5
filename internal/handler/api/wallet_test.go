//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fieldbook/internal/handler/api"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/queries"
	commandsmock "fieldbook/tests/mock/commands"
	queriesmock "fieldbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WalletHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockWalletCommands
	mockQueries  *queriesmock.MockWalletQueries
	userID       uuid.UUID
}

func (s *WalletHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockWalletCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockWalletQueries(s.mockCtrl)
	handler := api.NewWalletHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Next()
	}

	s.router.GET("/wallet", authMiddleware, handler.GetWallet)
	s.router.GET("/wallet/transactions", authMiddleware, handler.ListTransactions)
	s.router.POST("/wallet/deposit", authMiddleware, handler.Deposit)
}

func (s *WalletHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWalletHandlerSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}

func (s *WalletHandlerTestSuite) walletDetail(balance int64) *queries.WalletDetail {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	walletID := uuid.New()
	return &queries.WalletDetail{
		Wallet: &queries.WalletView{
			ID:           walletID,
			UserID:       s.userID,
			BalanceCents: balance,
			Points:       120,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		Transactions: []*queries.TransactionView{
			{
				ID:          uuid.New(),
				WalletID:    walletID,
				Type:        "deposit",
				AmountCents: balance,
				Description: "deposit payment pay-1",
				CreatedAt:   now,
			},
		},
	}
}

func (s *WalletHandlerTestSuite) TestGetWallet() {
	s.mockQueries.EXPECT().
		GetByUser(gomock.Any(), s.userID, 10).
		Return(s.walletDetail(8000), nil)

	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"balanceCents":8000`)
}

func (s *WalletHandlerTestSuite) TestListTransactions() {
	s.mockQueries.EXPECT().
		GetByUser(gomock.Any(), s.userID, 50).
		Return(s.walletDetail(8000), nil)

	req := httptest.NewRequest(http.MethodGet, "/wallet/transactions", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "deposit payment pay-1")
}

func (s *WalletHandlerTestSuite) TestDeposit() {
	deposit := func(body map[string]any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/wallet/deposit", &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	s.Run("deposited", func() {
		s.mockCommands.EXPECT().
			Deposit(gomock.Any(), s.userID, "pay-1").
			Return(s.walletDetail(12000).Wallet, nil)

		w := deposit(map[string]any{"payment_id": "pay-1"})
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"balanceCents":12000`)
	})

	s.Run("missing payment id", func() {
		w := deposit(map[string]any{})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	errCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "payment not approved", err: errs.ErrPaymentNotApproved, expectCode: http.StatusUnprocessableEntity},
		{name: "non-positive amount", err: errs.ErrPaymentAmountMismatch, expectCode: http.StatusUnprocessableEntity},
	}
	for _, c := range errCases {
		s.Run(c.name, func() {
			s.mockCommands.EXPECT().
				Deposit(gomock.Any(), s.userID, "pay-x").
				Return(nil, c.err)

			w := deposit(map[string]any{"payment_id": "pay-x"})
			s.Equal(c.expectCode, w.Code)
		})
	}
}

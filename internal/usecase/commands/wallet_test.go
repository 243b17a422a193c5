//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"fieldbook/internal/domain/wallet"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/infra/gateway"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/commands"
	"fieldbook/internal/usecase/queries"
	"fieldbook/internal/usecase/shared"
	gatewaymock "fieldbook/tests/mock/gateway"
	queriesmock "fieldbook/tests/mock/queries"
	sharedmock "fieldbook/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WalletCommandsTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUow      *sharedmock.MockUnitOfWork
	mockTx       *sharedmock.MockTx
	mockWallets  *sharedmock.MockWalletRepository
	mockPayments *gatewaymock.MockPaymentClient
	mockQueries  *queriesmock.MockWalletQueries

	cmd    commands.WalletCommands
	userID uuid.UUID
}

func (s *WalletCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.mockTx = sharedmock.NewMockTx(s.mockCtrl)
	s.mockWallets = sharedmock.NewMockWalletRepository(s.mockCtrl)
	s.mockPayments = gatewaymock.NewMockPaymentClient(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockWalletQueries(s.mockCtrl)

	s.mockTx.EXPECT().DB().Return(db.DBTX(nil)).AnyTimes()
	s.mockTx.EXPECT().Wallets().Return(s.mockWallets).AnyTimes()
	s.mockUow.EXPECT().
		Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.mockTx)
		}).
		AnyTimes()

	s.cmd = commands.NewWalletCommands(s.mockUow, s.mockPayments, s.mockQueries)
	s.userID = uuid.New()
}

func (s *WalletCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *WalletCommandsTestSuite) fundedWallet(cents int64) *wallet.Wallet {
	w := wallet.NewWallet(s.userID)
	if cents > 0 {
		_, err := w.Deposit(cents, "seed funds")
		s.Require().NoError(err)
	}
	return w
}

func (s *WalletCommandsTestSuite) walletDetail(balanceCents int64) *queries.WalletDetail {
	return &queries.WalletDetail{
		Wallet: &queries.WalletView{
			ID:           uuid.New(),
			UserID:       s.userID,
			BalanceCents: balanceCents,
			CreatedAt:    time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC),
		},
	}
}

func (s *WalletCommandsTestSuite) expectApproved(paymentID string, amountCents int64) {
	s.mockPayments.EXPECT().
		GetPaymentInfo(gomock.Any(), paymentID).
		Return(&gateway.PaymentInfo{ID: paymentID, Status: gateway.PaymentStatusApproved, AmountCents: amountCents}, nil)
}

func (s *WalletCommandsTestSuite) TestDepositCreditsWalletAndChecksLedger() {
	w := s.fundedWallet(2000)
	s.expectApproved("pay-topup", 5000)

	s.mockWallets.EXPECT().
		FindByUserIDForUpdate(gomock.Any(), gomock.Any(), s.userID).
		Return(w, nil)
	s.mockWallets.EXPECT().
		HasTransactionDescription(gomock.Any(), gomock.Any(), w.ID(), "deposit payment pay-topup").
		Return(false, nil)
	s.mockWallets.EXPECT().UpdateBalance(gomock.Any(), gomock.Any(), w)
	s.mockWallets.EXPECT().
		AppendTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ db.DBTX, entry wallet.Transaction) error {
			s.Equal(wallet.TypeDeposit, entry.Type())
			s.Equal(int64(5000), entry.AmountCents())
			s.Equal("deposit payment pay-topup", entry.Description())
			return nil
		})
	s.mockWallets.EXPECT().
		SumSignedAmounts(gomock.Any(), gomock.Any(), w.ID()).
		Return(int64(7000), nil)

	detail := s.walletDetail(7000)
	s.mockQueries.EXPECT().GetByUser(gomock.Any(), s.userID, 0).Return(detail, nil)

	view, err := s.cmd.Deposit(context.Background(), s.userID, "pay-topup")

	s.NoError(err)
	s.Equal(detail.Wallet, view)
	s.Equal(int64(7000), w.BalanceCents())
}

func (s *WalletCommandsTestSuite) TestDepositReplayedPaymentAddsNothing() {
	w := s.fundedWallet(5000)
	s.expectApproved("pay-seen", 5000)

	s.mockWallets.EXPECT().
		FindByUserIDForUpdate(gomock.Any(), gomock.Any(), s.userID).
		Return(w, nil)
	s.mockWallets.EXPECT().
		HasTransactionDescription(gomock.Any(), gomock.Any(), w.ID(), "deposit payment pay-seen").
		Return(true, nil)

	detail := s.walletDetail(5000)
	s.mockQueries.EXPECT().GetByUser(gomock.Any(), s.userID, 0).Return(detail, nil)

	view, err := s.cmd.Deposit(context.Background(), s.userID, "pay-seen")

	s.NoError(err)
	s.Equal(detail.Wallet, view)
	s.Equal(int64(5000), w.BalanceCents())
}

func (s *WalletCommandsTestSuite) TestDepositRollsBackOnLedgerDivergence() {
	w := s.fundedWallet(2000)
	s.expectApproved("pay-div", 5000)

	s.mockWallets.EXPECT().
		FindByUserIDForUpdate(gomock.Any(), gomock.Any(), s.userID).
		Return(w, nil)
	s.mockWallets.EXPECT().
		HasTransactionDescription(gomock.Any(), gomock.Any(), w.ID(), "deposit payment pay-div").
		Return(false, nil)
	s.mockWallets.EXPECT().UpdateBalance(gomock.Any(), gomock.Any(), w)
	s.mockWallets.EXPECT().AppendTransaction(gomock.Any(), gomock.Any(), gomock.Any())
	// The recomputed ledger sum disagrees with the cached balance.
	s.mockWallets.EXPECT().
		SumSignedAmounts(gomock.Any(), gomock.Any(), w.ID()).
		Return(int64(6500), nil)

	view, err := s.cmd.Deposit(context.Background(), s.userID, "pay-div")

	s.Nil(view)
	s.ErrorIs(err, errs.ErrDatabaseOperationFailed)
}

func (s *WalletCommandsTestSuite) TestDepositValidation() {
	s.Run("missing payment id", func() {
		view, err := s.cmd.Deposit(context.Background(), s.userID, "")
		s.Nil(view)
		s.ErrorIs(err, errs.ErrDomainValidation)
	})

	s.Run("unapproved payment", func() {
		s.mockPayments.EXPECT().
			GetPaymentInfo(gomock.Any(), "pay-pending").
			Return(&gateway.PaymentInfo{ID: "pay-pending", Status: "pending", AmountCents: 5000}, nil)

		view, err := s.cmd.Deposit(context.Background(), s.userID, "pay-pending")
		s.Nil(view)
		s.ErrorIs(err, errs.ErrPaymentNotApproved)
	})
}

func TestWalletCommandsTestSuite(t *testing.T) {
	suite.Run(t, new(WalletCommandsTestSuite))
}

//go:build unit

package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fieldbook/internal/domain/wallet"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/infra/notify"
	"fieldbook/internal/pkg/clock"
	"fieldbook/internal/pkg/config"
	"fieldbook/internal/usecase/commands"
	"fieldbook/internal/usecase/shared"
	commandsmock "fieldbook/tests/mock/commands"
	sharedmock "fieldbook/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// recordingDispatcher captures outbound notifications.
type recordingDispatcher struct {
	sent []notify.Notification
}

func (d *recordingDispatcher) SendNotification(_ context.Context, n notify.Notification) bool {
	d.sent = append(d.sent, n)
	return true
}

type SchedulerTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUow      *sharedmock.MockUnitOfWork
	mockTx       *sharedmock.MockTx
	mockBookings *sharedmock.MockBookingRepository
	mockMatches  *sharedmock.MockMatchRepository
	mockWallets  *sharedmock.MockWalletRepository
	mockLeases   *sharedmock.MockLeaseRepository
	mockCommands *commandsmock.MockMatchCommands
	dispatcher   *recordingDispatcher
	clk          *clock.MockClock

	service *Service
}

func (s *SchedulerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.mockTx = sharedmock.NewMockTx(s.mockCtrl)
	s.mockBookings = sharedmock.NewMockBookingRepository(s.mockCtrl)
	s.mockMatches = sharedmock.NewMockMatchRepository(s.mockCtrl)
	s.mockWallets = sharedmock.NewMockWalletRepository(s.mockCtrl)
	s.mockLeases = sharedmock.NewMockLeaseRepository(s.mockCtrl)
	s.mockCommands = commandsmock.NewMockMatchCommands(s.mockCtrl)
	s.dispatcher = &recordingDispatcher{}
	s.clk = clock.NewMockClock(time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC))

	s.mockTx.EXPECT().DB().Return(db.DBTX(nil)).AnyTimes()
	s.mockTx.EXPECT().Bookings().Return(s.mockBookings).AnyTimes()
	s.mockTx.EXPECT().Matches().Return(s.mockMatches).AnyTimes()
	s.mockTx.EXPECT().Wallets().Return(s.mockWallets).AnyTimes()
	s.mockTx.EXPECT().Leases().Return(s.mockLeases).AnyTimes()
	s.mockUow.EXPECT().
		Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.mockTx)
		}).
		AnyTimes()

	cfg := config.SchedulerConfig{
		Enabled:           true,
		ReconcileInterval: time.Minute,
		SweepInterval:     time.Hour,
		CancelWindow:      time.Hour,
		LeaseTTL:          5 * time.Minute,
	}

	var err error
	s.service, err = NewService(cfg, s.mockUow, s.mockCommands, s.dispatcher, s.clk)
	s.Require().NoError(err)
}

func (s *SchedulerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *SchedulerTestSuite) expectLeaseHeld(name string, acquired bool) {
	s.mockLeases.EXPECT().
		TryAcquire(gomock.Any(), gomock.Any(), name, gomock.Any(), 5*time.Minute, s.clk.Now()).
		Return(acquired, nil)
	if acquired {
		s.mockLeases.EXPECT().Release(gomock.Any(), gomock.Any(), name, gomock.Any())
	}
}

func (s *SchedulerTestSuite) TestBookingSweepAwardsPointsWithTheTransition() {
	s.expectLeaseHeld(leaseBookingSweep, true)

	userID := uuid.New()
	swept := []shared.SweptBooking{
		{ID: uuid.New(), UserID: userID, TotalCents: 12000},
		// Under one currency unit: completed but earns nothing.
		{ID: uuid.New(), UserID: uuid.New(), TotalCents: 50},
	}
	s.mockBookings.EXPECT().
		SweepElapsed(gomock.Any(), gomock.Any(), s.clk.Now()).
		Return(swept, nil)

	// The payer went through the gateway only, so no wallet row exists yet.
	var created *wallet.Wallet
	s.mockWallets.EXPECT().
		FindByUserIDForUpdate(gomock.Any(), gomock.Any(), userID).
		Return(nil, infra.NewRepoErr(infra.KindNotFound, "wallet not found"))
	s.mockWallets.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ db.DBTX, w *wallet.Wallet) error {
			created = w
			return nil
		})
	s.mockWallets.EXPECT().UpdateBalance(gomock.Any(), gomock.Any(), gomock.Any())
	s.mockWallets.EXPECT().
		AppendTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ db.DBTX, entry wallet.Transaction) error {
			s.Equal(wallet.TypePointsEarned, entry.Type())
			s.Equal(int64(0), entry.AmountCents())
			s.Equal(int64(120), entry.Points())
			s.Contains(entry.Description(), swept[0].ID.String())
			return nil
		})

	s.service.runBookingSweep()

	s.Require().NotNil(created)
	s.Equal(userID, created.UserID())
	s.Equal(int64(120), created.Points())
}

func (s *SchedulerTestSuite) TestBookingSweepAbortsCompletionWhenAwardFails() {
	s.expectLeaseHeld(leaseBookingSweep, true)

	swept := []shared.SweptBooking{{ID: uuid.New(), UserID: uuid.New(), TotalCents: 12000}}
	s.mockBookings.EXPECT().
		SweepElapsed(gomock.Any(), gomock.Any(), s.clk.Now()).
		Return(swept, nil)
	s.mockWallets.EXPECT().
		FindByUserIDForUpdate(gomock.Any(), gomock.Any(), swept[0].UserID).
		Return(nil, infra.NewRepoErr(infra.KindDBFailure, "connection lost"))

	// The transaction function fails, so the status transition rolls back
	// together with the missing award. No further wallet calls happen.
	s.service.runBookingSweep()
}

func (s *SchedulerTestSuite) TestBookingSweepSkipsWhenLeaseHeldElsewhere() {
	s.expectLeaseHeld(leaseBookingSweep, false)

	// No SweepElapsed expectation: a held lease means no work this round.
	s.service.runBookingSweep()
}

func (s *SchedulerTestSuite) TestMatchReconciliationCancelsAndNotifies() {
	s.expectLeaseHeld(leaseMatchReconcile, true)

	now := s.clk.Now()
	cancelledID, keptID := uuid.New(), uuid.New()
	playerID := uuid.New()
	s.mockMatches.EXPECT().
		ListUnderFilledStartingSoon(gomock.Any(), gomock.Any(), now, now.Add(time.Hour)).
		Return([]uuid.UUID{cancelledID, keptID}, nil)
	s.mockCommands.EXPECT().
		CancelMatch(gomock.Any(), cancelledID).
		Return(&commands.CancelMatchResult{Cancelled: true, PlayerIDs: []uuid.UUID{playerID}}, nil)
	// Someone cancelled this one between the listing and the lock.
	s.mockCommands.EXPECT().
		CancelMatch(gomock.Any(), keptID).
		Return(&commands.CancelMatchResult{Cancelled: false}, nil)

	s.service.runMatchReconciliation()

	s.Require().Len(s.dispatcher.sent, 1)
	s.Equal([]string{playerID.String()}, s.dispatcher.sent[0].PlayerIDs)
	s.Equal(cancelledID.String(), s.dispatcher.sent[0].Data["match_id"])
}

func (s *SchedulerTestSuite) TestMatchReconciliationContinuesPastFailures() {
	s.expectLeaseHeld(leaseMatchReconcile, true)

	now := s.clk.Now()
	failingID, okID := uuid.New(), uuid.New()
	s.mockMatches.EXPECT().
		ListUnderFilledStartingSoon(gomock.Any(), gomock.Any(), now, now.Add(time.Hour)).
		Return([]uuid.UUID{failingID, okID}, nil)
	s.mockCommands.EXPECT().
		CancelMatch(gomock.Any(), failingID).
		Return(nil, fmt.Errorf("serialization failure"))
	s.mockCommands.EXPECT().
		CancelMatch(gomock.Any(), okID).
		Return(&commands.CancelMatchResult{Cancelled: true, PlayerIDs: []uuid.UUID{uuid.New()}}, nil)

	s.service.runMatchReconciliation()

	s.Len(s.dispatcher.sent, 1)
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

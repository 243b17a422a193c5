//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"fieldbook/internal/domain/booking"
	"fieldbook/internal/domain/field"
	"fieldbook/internal/domain/match"
	"fieldbook/internal/domain/wallet"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/infra/gateway"
	"fieldbook/internal/infra/readstore"
	"fieldbook/internal/pkg/clock"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/commands"
	"fieldbook/internal/usecase/shared"
	"fieldbook/tests/common/builder"
	gatewaymock "fieldbook/tests/mock/gateway"
	queriesmock "fieldbook/tests/mock/queries"
	sharedmock "fieldbook/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingCommandsTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUow      *sharedmock.MockUnitOfWork
	mockTx       *sharedmock.MockTx
	mockReads    *sharedmock.MockCommandReads
	mockBookings *sharedmock.MockBookingRepository
	mockMatches  *sharedmock.MockMatchRepository
	mockWallets  *sharedmock.MockWalletRepository
	mockPayments *gatewaymock.MockPaymentClient
	mockQueries  *queriesmock.MockBookingQueries
	clk          *clock.MockClock

	cmd commands.BookingCommands

	userID  uuid.UUID
	fieldID uuid.UUID
	date    time.Time
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.mockTx = sharedmock.NewMockTx(s.mockCtrl)
	s.mockReads = sharedmock.NewMockCommandReads(s.mockCtrl)
	s.mockBookings = sharedmock.NewMockBookingRepository(s.mockCtrl)
	s.mockMatches = sharedmock.NewMockMatchRepository(s.mockCtrl)
	s.mockWallets = sharedmock.NewMockWalletRepository(s.mockCtrl)
	s.mockPayments = gatewaymock.NewMockPaymentClient(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	// 2026-09-07 is a Monday; the grid fixtures key off that weekday.
	s.clk = clock.NewMockClock(time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC))

	s.mockUow.EXPECT().Reads().Return(s.mockReads).AnyTimes()
	s.mockTx.EXPECT().DB().Return(db.DBTX(nil)).AnyTimes()
	s.mockTx.EXPECT().Reads().Return(s.mockReads).AnyTimes()
	s.mockTx.EXPECT().Bookings().Return(s.mockBookings).AnyTimes()
	s.mockTx.EXPECT().Matches().Return(s.mockMatches).AnyTimes()
	s.mockTx.EXPECT().Wallets().Return(s.mockWallets).AnyTimes()

	s.cmd = commands.NewBookingCommands(
		s.mockUow, s.mockPayments, s.mockQueries, readstore.NewWalletReadStore(), s.clk)

	s.userID = uuid.New()
	s.fieldID = uuid.New()
	s.date = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
}

func (s *BookingCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTx routes uow.Within through the mocked transaction n times.
func (s *BookingCommandsTestSuite) expectTx(n int) {
	s.mockUow.EXPECT().
		Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.mockTx)
		}).
		Times(n)
}

func (s *BookingCommandsTestSuite) fieldSnapshot() *shared.FieldSnapshot {
	return &shared.FieldSnapshot{
		ID:                 s.fieldID,
		Name:               "Center Court",
		Grid:               field.WeekGrid{time.Monday: {"10:00", "11:00"}},
		SlotDuration:       time.Hour,
		PricePerMatchCents: 12000,
	}
}

func (s *BookingCommandsTestSuite) gatewayRequest(paymentID string) commands.CreateBookingRequest {
	return commands.CreateBookingRequest{
		UserID:    s.userID,
		FieldID:   s.fieldID,
		Date:      s.date,
		StartHour: "10:00",
		UseWallet: false,
		PaymentID: paymentID,
	}
}

func (s *BookingCommandsTestSuite) approvedPayment(paymentID string, amountCents int64) *gateway.PaymentInfo {
	return &gateway.PaymentInfo{ID: paymentID, Status: gateway.PaymentStatusApproved, AmountCents: amountCents}
}

func (s *BookingCommandsTestSuite) TestCreateBookingReplaysProcessedPaymentID() {
	existingID := uuid.New()
	view := builder.NewBookingBuilder().BuildView()

	s.mockReads.EXPECT().
		BookingIDByPaymentID(gomock.Any(), "pay-replay").
		Return(&existingID, nil)
	s.mockQueries.EXPECT().
		GetByID(gomock.Any(), existingID).
		Return(view, nil)

	// No transaction opens: the replay short-circuits before any write.
	result, err := s.cmd.CreateBooking(context.Background(), s.gatewayRequest("pay-replay"))

	s.NoError(err)
	s.True(result.IsReplayed)
	s.Equal(view, result.Booking)
}

func (s *BookingCommandsTestSuite) TestCreateBookingClaimsOpenEmptyMatch() {
	m, err := builder.NewMatchBuilder().
		With(func(b *builder.MatchBuilder) { b.FieldID = s.fieldID }).
		BuildDomain()
	s.Require().NoError(err)

	s.mockReads.EXPECT().BookingIDByPaymentID(gomock.Any(), "pay-claim").Return(nil, nil)
	s.mockReads.EXPECT().FieldByID(gomock.Any(), s.fieldID).Return(s.fieldSnapshot(), nil)
	s.mockPayments.EXPECT().
		GetPaymentInfo(gomock.Any(), "pay-claim").
		Return(s.approvedPayment("pay-claim", 12000), nil)

	s.expectTx(1)

	// The match occupies the slot, so the hour is not plainly free and the
	// claim probe runs.
	matchStart := m.StartTime()
	s.mockReads.EXPECT().
		OccupanciesFor(gomock.Any(), s.fieldID, gomock.Any(), gomock.Any()).
		Return([]field.Occupancy{{Start: matchStart, End: matchStart.Add(time.Hour)}}, nil)
	s.mockMatches.EXPECT().
		FindByFieldStart(gomock.Any(), gomock.Any(), s.fieldID, matchStart).
		Return(m, nil)
	s.mockMatches.EXPECT().
		FindOpenByFieldStart(gomock.Any(), gomock.Any(), s.fieldID, matchStart).
		Return(m, nil)
	s.mockMatches.EXPECT().
		UpdateState(gomock.Any(), gomock.Any(), m).
		DoAndReturn(func(_ context.Context, _ db.DBTX, updated *match.Match) error {
			s.Equal(match.StatusReserved, updated.Status())
			s.NotNil(updated.BookingID())
			return nil
		})

	var created *booking.Booking
	s.mockBookings.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ db.DBTX, b *booking.Booking) error {
			created = b
			return nil
		})

	view := builder.NewBookingBuilder().BuildView()
	s.mockQueries.EXPECT().
		GetByID(gomock.Any(), gomock.Any()).
		Return(view, nil)

	result, err := s.cmd.CreateBooking(context.Background(), s.gatewayRequest("pay-claim"))

	s.NoError(err)
	s.False(result.IsReplayed)
	s.Equal(view, result.Booking)
	s.Require().NotNil(created)
	s.Require().NotNil(created.MatchID())
	s.Equal(m.ID(), *created.MatchID())
	s.Equal("pay-claim", created.PaymentID())
	s.Equal(int64(12000), created.TotalCents())
}

func (s *BookingCommandsTestSuite) TestCreateBookingInsertRaceLoserGetsSlotUnavailable() {
	// Both requests saw the slot free; the loser's insert trips the live-slot
	// unique index after the winner commits.
	s.mockReads.EXPECT().BookingIDByPaymentID(gomock.Any(), "pay-race").Return(nil, nil).Times(2)
	s.mockReads.EXPECT().FieldByID(gomock.Any(), s.fieldID).Return(s.fieldSnapshot(), nil)
	s.mockPayments.EXPECT().
		GetPaymentInfo(gomock.Any(), "pay-race").
		Return(s.approvedPayment("pay-race", 12000), nil)

	s.expectTx(1)
	s.mockReads.EXPECT().
		OccupanciesFor(gomock.Any(), s.fieldID, gomock.Any(), gomock.Any()).
		Return(nil, nil)
	s.mockMatches.EXPECT().
		FindOpenByFieldStart(gomock.Any(), gomock.Any(), s.fieldID, gomock.Any()).
		Return(nil, infra.NewRepoErr(infra.KindNotFound, "match not found"))
	s.mockBookings.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(infra.NewRepoErr(infra.KindDuplicateKey, "bookings field slot conflict"))

	result, err := s.cmd.CreateBooking(context.Background(), s.gatewayRequest("pay-race"))

	s.Nil(result)
	s.ErrorIs(err, errs.ErrSlotUnavailable)
}

func (s *BookingCommandsTestSuite) TestCreateBookingLostClaimRaceReportsMatchConflict() {
	// A concurrent booking claimed the slot's match between the availability
	// read and this request's probe: the match is already reserved.
	m, err := builder.NewMatchBuilder().
		With(func(b *builder.MatchBuilder) { b.FieldID = s.fieldID }).
		BuildDomain()
	s.Require().NoError(err)
	s.Require().NoError(m.TryClaim(uuid.New()))

	s.mockReads.EXPECT().BookingIDByPaymentID(gomock.Any(), "pay-lost").Return(nil, nil)
	s.mockReads.EXPECT().FieldByID(gomock.Any(), s.fieldID).Return(s.fieldSnapshot(), nil)
	s.mockPayments.EXPECT().
		GetPaymentInfo(gomock.Any(), "pay-lost").
		Return(s.approvedPayment("pay-lost", 12000), nil)

	s.expectTx(1)
	matchStart := m.StartTime()
	s.mockReads.EXPECT().
		OccupanciesFor(gomock.Any(), s.fieldID, gomock.Any(), gomock.Any()).
		Return([]field.Occupancy{{Start: matchStart, End: matchStart.Add(time.Hour)}}, nil)
	s.mockMatches.EXPECT().
		FindByFieldStart(gomock.Any(), gomock.Any(), s.fieldID, matchStart).
		Return(m, nil)

	result, err := s.cmd.CreateBooking(context.Background(), s.gatewayRequest("pay-lost"))

	s.Nil(result)
	s.ErrorIs(err, errs.ErrMatchAlreadyHasPlayers)
}

func (s *BookingCommandsTestSuite) TestCreateBookingBookedSlotIsUnavailable() {
	// The occupancy belongs to a plain booking, not a match: nothing to claim.
	s.mockReads.EXPECT().BookingIDByPaymentID(gomock.Any(), "pay-booked").Return(nil, nil)
	s.mockReads.EXPECT().FieldByID(gomock.Any(), s.fieldID).Return(s.fieldSnapshot(), nil)
	s.mockPayments.EXPECT().
		GetPaymentInfo(gomock.Any(), "pay-booked").
		Return(s.approvedPayment("pay-booked", 12000), nil)

	s.expectTx(1)
	slotStart := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	s.mockReads.EXPECT().
		OccupanciesFor(gomock.Any(), s.fieldID, gomock.Any(), gomock.Any()).
		Return([]field.Occupancy{{Start: slotStart, End: slotStart.Add(time.Hour)}}, nil)
	s.mockMatches.EXPECT().
		FindByFieldStart(gomock.Any(), gomock.Any(), s.fieldID, slotStart).
		Return(nil, infra.NewRepoErr(infra.KindNotFound, "match not found"))

	result, err := s.cmd.CreateBooking(context.Background(), s.gatewayRequest("pay-booked"))

	s.Nil(result)
	s.ErrorIs(err, errs.ErrSlotUnavailable)
}

func (s *BookingCommandsTestSuite) TestCreateBookingFieldNotFound() {
	s.mockReads.EXPECT().
		FieldByID(gomock.Any(), s.fieldID).
		Return(nil, infra.NewRepoErr(infra.KindNotFound, "field not found"))

	result, err := s.cmd.CreateBooking(context.Background(), s.gatewayRequest(""))

	s.Nil(result)
	s.ErrorIs(err, errs.ErrFieldNotFound)
}

func (s *BookingCommandsTestSuite) TestCreateBookingGatewayValidation() {
	tests := []struct {
		name        string
		payment     *gateway.PaymentInfo
		expectedErr error
	}{
		{
			name:        "unapproved payment",
			payment:     &gateway.PaymentInfo{ID: "pay-gw", Status: "pending", AmountCents: 12000},
			expectedErr: errs.ErrPaymentNotApproved,
		},
		{
			name:        "amount short of the remainder",
			payment:     s.approvedPayment("pay-gw", 9000),
			expectedErr: errs.ErrPaymentAmountMismatch,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.mockReads.EXPECT().BookingIDByPaymentID(gomock.Any(), "pay-gw").Return(nil, nil)
			s.mockReads.EXPECT().FieldByID(gomock.Any(), s.fieldID).Return(s.fieldSnapshot(), nil)
			s.mockPayments.EXPECT().GetPaymentInfo(gomock.Any(), "pay-gw").Return(tt.payment, nil)

			result, err := s.cmd.CreateBooking(context.Background(), s.gatewayRequest("pay-gw"))

			s.Nil(result)
			s.ErrorIs(err, tt.expectedErr)
		})
	}
}

func (s *BookingCommandsTestSuite) TestCancelBookingRefundsOnceAndRevertsClaimedMatch() {
	m, err := builder.NewMatchBuilder().
		With(func(b *builder.MatchBuilder) { b.FieldID = s.fieldID }).
		BuildDomain()
	s.Require().NoError(err)

	b, err := builder.NewBookingBuilder().
		With(func(bb *builder.BookingBuilder) {
			bb.UserID = s.userID
			bb.FieldID = s.fieldID
		}).
		BuildDomain()
	s.Require().NoError(err)
	s.Require().NoError(m.TryClaim(b.ID()))
	b.LinkMatch(m.ID())

	w := wallet.NewWallet(s.userID)
	view := builder.NewBookingBuilder().BuildView()

	// Two invocations, one refund: the second cancel must fail the state
	// transition before any wallet work.
	s.expectTx(2)
	s.mockBookings.EXPECT().
		FindByIDForUpdate(gomock.Any(), gomock.Any(), b.ID()).
		Return(b, nil).
		Times(2)
	s.mockWallets.EXPECT().
		FindByUserIDForUpdate(gomock.Any(), gomock.Any(), s.userID).
		Return(w, nil)
	s.mockWallets.EXPECT().UpdateBalance(gomock.Any(), gomock.Any(), w)
	s.mockWallets.EXPECT().
		AppendTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ db.DBTX, entry wallet.Transaction) error {
			s.Equal(wallet.TypeDeposit, entry.Type())
			s.Equal(int64(12000), entry.AmountCents())
			return nil
		})
	s.mockBookings.EXPECT().Update(gomock.Any(), gomock.Any(), b)
	s.mockMatches.EXPECT().
		FindByIDForUpdate(gomock.Any(), gomock.Any(), m.ID()).
		Return(m, nil)
	s.mockMatches.EXPECT().
		UpdateState(gomock.Any(), gomock.Any(), m).
		DoAndReturn(func(_ context.Context, _ db.DBTX, reverted *match.Match) error {
			s.Equal(match.StatusOpen, reverted.Status())
			s.Nil(reverted.BookingID())
			return nil
		})
	s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID()).Return(view, nil)

	got, err := s.cmd.CancelBooking(context.Background(), b.ID(), s.userID)
	s.NoError(err)
	s.Equal(view, got)
	s.Equal(int64(12000), w.BalanceCents())

	got, err = s.cmd.CancelBooking(context.Background(), b.ID(), s.userID)
	s.Nil(got)
	s.ErrorIs(err, errs.ErrAlreadyCancelled)
	s.Equal(int64(12000), w.BalanceCents())
}

func (s *BookingCommandsTestSuite) TestCancelBookingRejectsForeignActor() {
	b, err := builder.NewBookingBuilder().BuildDomain()
	s.Require().NoError(err)

	s.expectTx(1)
	s.mockBookings.EXPECT().
		FindByIDForUpdate(gomock.Any(), gomock.Any(), b.ID()).
		Return(b, nil)

	got, err := s.cmd.CancelBooking(context.Background(), b.ID(), uuid.New())

	s.Nil(got)
	s.ErrorIs(err, errs.ErrUnauthorized)
}

func (s *BookingCommandsTestSuite) TestCancelBookingNotFound() {
	s.expectTx(1)
	s.mockBookings.EXPECT().
		FindByIDForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, infra.NewRepoErr(infra.KindNotFound, "booking not found"))

	got, err := s.cmd.CancelBooking(context.Background(), uuid.New(), s.userID)

	s.Nil(got)
	s.ErrorIs(err, errs.ErrBookingNotFound)
}

func TestBookingCommandsTestSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

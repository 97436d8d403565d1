//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/domain/schedule"
	"restore-scheduler/internal/infra"
	"restore-scheduler/internal/pkg/clock"
	"restore-scheduler/internal/usecase/commands"
	"restore-scheduler/tests/common/builder"
	commandsmock "restore-scheduler/tests/mock/commands"
	queriesmock "restore-scheduler/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakePool hands out in-memory transactions so command orchestration can
// run without a database. The repository underneath is mocked, so the
// transaction itself only has to satisfy the begin/commit/rollback dance.
type fakePool struct {
	beginErr error
}

func (p *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	return &fakeTx{}, nil
}

type fakeTx struct {
	done bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	t.done = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	return nil
}

func (t *fakeTx) CopyFrom(ctx context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, _ string, _ ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                          { return nil }

type RegistrationCommandsTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockRepo         *commandsmock.MockRegistrationRepository
	mockAvailability *queriesmock.MockAvailabilityQueries
	mockQueries      *queriesmock.MockRegistrationQueries
	mockDirectory    *commandsmock.MockAccountDirectory
	mockDispatcher   *commandsmock.MockNotificationDispatcher
	commands         commands.RegistrationCommands
}

func TestRegistrationCommandsTestSuite(t *testing.T) {
	suite.Run(t, new(RegistrationCommandsTestSuite))
}

func (s *RegistrationCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = commandsmock.NewMockRegistrationRepository(s.mockCtrl)
	s.mockAvailability = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockRegistrationQueries(s.mockCtrl)
	s.mockDirectory = commandsmock.NewMockAccountDirectory(s.mockCtrl)
	s.mockDispatcher = commandsmock.NewMockNotificationDispatcher(s.mockCtrl)

	clk := clock.NewMockClock(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))
	s.commands = commands.NewRegistrationCommands(
		s.mockRepo,
		s.mockAvailability,
		s.mockQueries,
		s.mockDirectory,
		s.mockDispatcher,
		&fakePool{},
		clk,
	)
}

func (s *RegistrationCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func submitParams(b *builder.RegistrationBuilder) commands.SubmitRegistrationParams {
	return commands.SubmitRegistrationParams{
		FirstName:         b.FirstName,
		Surname:           b.Surname,
		Email:             b.Email,
		PhoneNumber:       b.PhoneNumber,
		CountryCode:       b.CountryCode,
		RequestedDuration: b.RequestedDuration,
		FeeAgreement:      b.FeeAgreement,
		PaymentPromise:    b.PaymentPromise,
	}
}

func mondaySlots(count int) []schedule.Slot {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	slots := make([]schedule.Slot, count)
	for i := range slots {
		slots[i] = schedule.NewSlot(monday, schedule.Windows()[i])
	}
	return slots
}

func (s *RegistrationCommandsTestSuite) TestSubmit() {
	ctx := context.Background()

	s.Run("success: fee agreement schedules the earliest slots and notifies", func() {
		b := builder.NewRegistrationBuilder()
		slots := mondaySlots(2)
		creds := &commands.Credentials{Username: "amina.yusuf", Password: "s3cret"}

		s.mockAvailability.EXPECT().FindAvailableSlots(gomock.Any(), 2).Return(slots, nil)
		s.mockDirectory.EXPECT().EnsureAccount(gomock.Any(), gomock.Any()).Return(creds, nil)
		s.mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(),
			gomock.Cond(func(reg *registration.Registration) bool {
				return reg.Status() == registration.StatusScheduled && len(reg.Assignments()) == 2
			})).Return(nil)
		s.mockDispatcher.EXPECT().NotifyConfirmation(gomock.Any(), creds)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(b.BuildView(), nil)

		view, err := s.commands.Submit(ctx, submitParams(b))
		s.NoError(err)
		s.Equal("scheduled", view.Status)
	})

	s.Run("success: payment promise holds no slots and sends nothing", func() {
		b := builder.NewRegistrationBuilder().With(func(b *builder.RegistrationBuilder) {
			b.FeeAgreement = false
			b.PaymentPromise = true
			b.Status = registration.StatusPromised
		})

		s.mockDirectory.EXPECT().EnsureAccount(gomock.Any(), gomock.Any()).Return(nil, nil)
		s.mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(),
			gomock.Cond(func(reg *registration.Registration) bool {
				return reg.Status() == registration.StatusPromised && len(reg.Assignments()) == 0
			})).Return(nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(b.BuildView(), nil)

		view, err := s.commands.Submit(ctx, submitParams(b))
		s.NoError(err)
		s.Equal("promised", view.Status)
	})

	s.Run("success: neither flag leaves the registration incomplete", func() {
		b := builder.NewRegistrationBuilder().With(func(b *builder.RegistrationBuilder) {
			b.FeeAgreement = false
			b.Status = registration.StatusIncomplete
		})

		s.mockDirectory.EXPECT().EnsureAccount(gomock.Any(), gomock.Any()).Return(nil, nil)
		s.mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(),
			gomock.Cond(func(reg *registration.Registration) bool {
				return reg.Status() == registration.StatusIncomplete
			})).Return(nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(b.BuildView(), nil)

		view, err := s.commands.Submit(ctx, submitParams(b))
		s.NoError(err)
		s.Equal("incomplete", view.Status)
	})

	s.Run("success: exhausted horizon leaves the registration pending, no notification", func() {
		b := builder.NewRegistrationBuilder().With(func(b *builder.RegistrationBuilder) {
			b.Status = registration.StatusPending
		})

		s.mockAvailability.EXPECT().FindAvailableSlots(gomock.Any(), 2).Return([]schedule.Slot{}, nil)
		s.mockDirectory.EXPECT().EnsureAccount(gomock.Any(), gomock.Any()).Return(nil, nil)
		s.mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(),
			gomock.Cond(func(reg *registration.Registration) bool {
				return reg.Status() == registration.StatusPending && len(reg.Assignments()) == 0
			})).Return(nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(b.BuildView(), nil)

		view, err := s.commands.Submit(ctx, submitParams(b))
		s.NoError(err)
		s.Equal("pending", view.Status)
	})

	s.Run("success: directory outage does not block the booking", func() {
		b := builder.NewRegistrationBuilder()
		slots := mondaySlots(2)

		s.mockAvailability.EXPECT().FindAvailableSlots(gomock.Any(), 2).Return(slots, nil)
		s.mockDirectory.EXPECT().EnsureAccount(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("directory unreachable"))
		s.mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		s.mockDispatcher.EXPECT().NotifyConfirmation(gomock.Any(), gomock.Nil())
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(b.BuildView(), nil)

		_, err := s.commands.Submit(ctx, submitParams(b))
		s.NoError(err)
	})

	s.Run("error: losing the insert race surfaces a slot conflict", func() {
		b := builder.NewRegistrationBuilder()
		slots := mondaySlots(2)

		s.mockAvailability.EXPECT().FindAvailableSlots(gomock.Any(), 2).Return(slots, nil)
		s.mockDirectory.EXPECT().EnsureAccount(gomock.Any(), gomock.Any()).Return(nil, nil)
		s.mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("insert registration slots", errors.New("duplicate key"), infra.KindConflict))

		view, err := s.commands.Submit(ctx, submitParams(b))
		s.Nil(view)
		s.ErrorIs(err, commands.ErrSlotConflict)
	})

	s.Run("error: invalid contact is rejected before any side effects", func() {
		b := builder.NewRegistrationBuilder().With(func(b *builder.RegistrationBuilder) {
			b.Email = "not-an-email"
		})

		view, err := s.commands.Submit(ctx, submitParams(b))
		s.Nil(view)
		s.ErrorIs(err, commands.ErrDomainValidation)
	})
}

func (s *RegistrationCommandsTestSuite) TestReassign() {
	ctx := context.Background()
	regID := uuid.New()
	newSlots := mondaySlots(2)
	reason := "Counsellor unavailable"

	s.Run("success: replaces assignments, records history and notifies", func() {
		b := builder.NewRegistrationBuilder()
		reg, err := b.BuildDomain()
		s.Require().NoError(err)

		s.mockAvailability.EXPECT().ValidateAssignments(gomock.Any(), gomock.Len(2),
			gomock.Cond(func(exclude *uuid.UUID) bool {
				return exclude != nil && *exclude == regID
			})).Return(true, nil)
		s.mockRepo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), regID).Return(reg, nil)
		s.mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(),
			gomock.Cond(func(r *registration.Registration) bool {
				return r.Status() == registration.StatusScheduled && len(r.History()) == 1
			})).Return(nil)
		s.mockDispatcher.EXPECT().NotifyReassignment(gomock.Any(), reason)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), regID).Return(b.BuildView(), nil)

		view, err := s.commands.Reassign(ctx, regID, newSlots, reason)
		s.NoError(err)
		s.NotNil(view)
	})

	s.Run("error: occupied slot fails before the registration is even loaded", func() {
		s.mockAvailability.EXPECT().ValidateAssignments(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)

		view, err := s.commands.Reassign(ctx, regID, newSlots, reason)
		s.Nil(view)
		s.ErrorIs(err, commands.ErrSlotConflict)
	})

	s.Run("error: blank reason is rejected", func() {
		view, err := s.commands.Reassign(ctx, regID, newSlots, "   ")
		s.Nil(view)
		s.ErrorIs(err, commands.ErrDomainValidation)
	})

	s.Run("error: empty assignment set is rejected", func() {
		view, err := s.commands.Reassign(ctx, regID, nil, reason)
		s.Nil(view)
		s.ErrorIs(err, commands.ErrDomainValidation)
	})

	s.Run("error: unknown registration", func() {
		s.mockAvailability.EXPECT().ValidateAssignments(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)
		s.mockRepo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), regID).
			Return(nil, infra.WrapRepoErr("registration not found", nil, infra.KindNotFound))

		view, err := s.commands.Reassign(ctx, regID, newSlots, reason)
		s.Nil(view)
		s.ErrorIs(err, commands.ErrRegistrationNotFound)
	})

	s.Run("error: write conflict maps to slot conflict", func() {
		b := builder.NewRegistrationBuilder()
		reg, err := b.BuildDomain()
		s.Require().NoError(err)

		s.mockAvailability.EXPECT().ValidateAssignments(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)
		s.mockRepo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), regID).Return(reg, nil)
		s.mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("update registration slots", errors.New("duplicate key"), infra.KindConflict))

		view, err := s.commands.Reassign(ctx, regID, newSlots, reason)
		s.Nil(view)
		s.ErrorIs(err, commands.ErrSlotConflict)
	})
}

func (s *RegistrationCommandsTestSuite) TestSetStatus() {
	ctx := context.Background()
	regID := uuid.New()

	s.Run("success: override persists and returns the fresh view", func() {
		b := builder.NewRegistrationBuilder().With(func(b *builder.RegistrationBuilder) {
			b.Status = registration.StatusCancelled
		})
		reg, err := b.BuildDomain()
		s.Require().NoError(err)

		s.mockRepo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), regID).Return(reg, nil)
		s.mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(),
			gomock.Cond(func(r *registration.Registration) bool {
				return r.Status() == registration.StatusCancelled
			})).Return(nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), regID).Return(b.BuildView(), nil)

		view, err := s.commands.SetStatus(ctx, regID, registration.StatusCancelled)
		s.NoError(err)
		s.Equal("cancelled", view.Status)
	})

	s.Run("error: unknown status value is rejected without touching storage", func() {
		view, err := s.commands.SetStatus(ctx, regID, registration.Status("archived"))
		s.Nil(view)
		s.ErrorIs(err, commands.ErrDomainValidation)
	})

	s.Run("error: unknown registration", func() {
		s.mockRepo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), regID).
			Return(nil, infra.WrapRepoErr("registration not found", nil, infra.KindNotFound))

		view, err := s.commands.SetStatus(ctx, regID, registration.StatusCancelled)
		s.Nil(view)
		s.ErrorIs(err, commands.ErrRegistrationNotFound)
	})

	s.Run("error: reactivating onto a reclaimed slot maps to slot conflict", func() {
		b := builder.NewRegistrationBuilder()
		reg, err := b.BuildDomain()
		s.Require().NoError(err)
		s.Require().NoError(reg.SetStatus(registration.StatusCancelled, time.Now().UTC()))

		s.mockRepo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), regID).Return(reg, nil)
		s.mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("update registration slots", errors.New("duplicate key"), infra.KindConflict))

		view, err := s.commands.SetStatus(ctx, regID, registration.StatusScheduled)
		s.Nil(view)
		s.ErrorIs(err, commands.ErrSlotConflict)
	})
}

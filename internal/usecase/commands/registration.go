package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/domain/schedule"
	"restore-scheduler/internal/infra"
	"restore-scheduler/internal/infra/db"
	"restore-scheduler/internal/pkg/clock"
	"restore-scheduler/internal/pkg/errs"
	"restore-scheduler/internal/usecase/queries"
	"restore-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRegistrationNotFound    = errs.New("registration not found")
	ErrSlotConflict            = errs.New("slot conflict")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// Admin mutations touch rows under FOR UPDATE, so serialization and
// deadlock failures are worth a few retries.
const txMaxRetries = 3

type SubmitRegistrationParams struct {
	FirstName         string
	Surname           string
	Email             string
	PhoneNumber       string
	CountryCode       string
	RequestedDuration int
	FeeAgreement      bool
	PaymentPromise    bool
	Extra             json.RawMessage
}

type RegistrationCommands interface {
	Submit(ctx context.Context, params SubmitRegistrationParams) (*queries.RegistrationView, error)
	Reassign(ctx context.Context, id uuid.UUID, slots []schedule.Slot, reason string) (*queries.RegistrationView, error)
	SetStatus(ctx context.Context, id uuid.UUID, status registration.Status) (*queries.RegistrationView, error)
}

type registrationCommandsImpl struct {
	repo         RegistrationRepository
	availability queries.AvailabilityQueries
	regQueries   queries.RegistrationQueries
	directory    AccountDirectory
	dispatcher   NotificationDispatcher
	pool         shared.Pool
	clock        clock.Clock
}

func NewRegistrationCommands(
	repo RegistrationRepository,
	availability queries.AvailabilityQueries,
	regQueries queries.RegistrationQueries,
	directory AccountDirectory,
	dispatcher NotificationDispatcher,
	pool shared.Pool,
	clk clock.Clock,
) RegistrationCommands {
	return &registrationCommandsImpl{
		repo:         repo,
		availability: availability,
		regQueries:   regQueries,
		directory:    directory,
		dispatcher:   dispatcher,
		pool:         pool,
		clock:        clk,
	}
}

func (c *registrationCommandsImpl) Submit(ctx context.Context, params SubmitRegistrationParams) (*queries.RegistrationView, error) {
	contact, err := registration.NewContact(
		params.FirstName, params.Surname, params.Email, params.PhoneNumber, params.CountryCode)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	now := c.clock.Now()
	reg := registration.NewRegistration(contact, params.RequestedDuration, params.Extra, now)

	switch {
	case params.FeeAgreement:
		slots, findErr := c.availability.FindAvailableSlots(ctx, reg.RequestedDuration())
		if findErr != nil {
			return nil, errs.Mark(findErr, ErrDatabaseOperationFailed)
		}
		reg.Schedule(slots, now)
	case params.PaymentPromise:
		reg.MarkPromised(now)
	default:
		reg.MarkIncomplete(now)
	}

	// Account provisioning is best-effort: the directory is an external
	// collaborator and its outage must not block the booking.
	creds, err := c.directory.EnsureAccount(ctx, contact)
	if err != nil {
		slog.Warn("account provisioning failed", "email", contact.Email(), "error", err)
		creds = nil
	}

	_, err = shared.RunInTx(ctx, c.pool, func(tx db.DBTX) (struct{}, error) {
		return struct{}{}, c.repo.Create(ctx, tx, reg)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			// Lost a race for a slot between the availability read and
			// the occupancy insert; the unique index is authoritative.
			return nil, ErrSlotConflict
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if reg.Status() == registration.StatusScheduled {
		c.dispatcher.NotifyConfirmation(reg, creds)
	}

	view, err := c.regQueries.GetByID(ctx, reg.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *registrationCommandsImpl) Reassign(ctx context.Context, id uuid.UUID, slots []schedule.Slot, reason string) (*queries.RegistrationView, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.Mark(registration.ErrEmptyReason, ErrDomainValidation)
	}
	if len(slots) == 0 {
		return nil, errs.Mark(registration.ErrEmptyAssignments, ErrDomainValidation)
	}

	// Friendly pre-check, excluding the registration's own slots so a
	// record can keep part of its current schedule. The partial unique
	// index closes the remaining race window at write time.
	free, err := c.availability.ValidateAssignments(ctx, slots, &id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !free {
		return nil, ErrSlotConflict
	}

	reg, err := shared.RunInTxWithRetry(ctx, c.pool, txMaxRetries, func(tx db.DBTX) (*registration.Registration, error) {
		reg, findErr := c.repo.FindByIDForUpdate(ctx, tx, id)
		if findErr != nil {
			return nil, findErr
		}
		if reassignErr := reg.Reassign(slots, reason, c.clock.Now()); reassignErr != nil {
			return nil, errs.Mark(reassignErr, ErrDomainValidation)
		}
		if updateErr := c.repo.Update(ctx, tx, reg); updateErr != nil {
			return nil, updateErr
		}
		return reg, nil
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, ErrRegistrationNotFound
		case infra.IsKind(err, infra.KindConflict):
			return nil, ErrSlotConflict
		case errors.Is(err, ErrDomainValidation):
			return nil, err
		default:
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	c.dispatcher.NotifyReassignment(reg, reason)

	view, err := c.regQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *registrationCommandsImpl) SetStatus(ctx context.Context, id uuid.UUID, status registration.Status) (*queries.RegistrationView, error) {
	if !status.IsValid() {
		return nil, errs.Mark(registration.ErrInvalidStatus, ErrDomainValidation)
	}

	_, err := shared.RunInTxWithRetry(ctx, c.pool, txMaxRetries, func(tx db.DBTX) (struct{}, error) {
		reg, findErr := c.repo.FindByIDForUpdate(ctx, tx, id)
		if findErr != nil {
			return struct{}{}, findErr
		}
		if statusErr := reg.SetStatus(status, c.clock.Now()); statusErr != nil {
			return struct{}{}, errs.Mark(statusErr, ErrDomainValidation)
		}
		return struct{}{}, c.repo.Update(ctx, tx, reg)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, ErrRegistrationNotFound
		case infra.IsKind(err, infra.KindConflict):
			// Re-activating a cancelled registration can collide with a
			// slot claimed in the meantime.
			return nil, ErrSlotConflict
		case errors.Is(err, ErrDomainValidation):
			return nil, err
		default:
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	view, err := c.regQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

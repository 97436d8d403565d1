package commands

import (
	"context"

	"restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/infra/db"

	"github.com/google/uuid"
)

type RegistrationRepository interface {
	Create(ctx context.Context, tx db.DBTX, reg *registration.Registration) error
	// FindByIDForUpdate loads the aggregate with a row lock so the
	// validate-then-write sequence of one transition is linearizable
	// against others touching the same record.
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*registration.Registration, error)
	Update(ctx context.Context, tx db.DBTX, reg *registration.Registration) error
}

// Credentials is the generated pair forwarded to notification dispatch
// when the account directory provisioned a new account.
type Credentials struct {
	Username string
	Password string
}

// AccountDirectory is the external account service. EnsureAccount returns
// nil credentials when an account already existed for the email.
type AccountDirectory interface {
	EnsureAccount(ctx context.Context, contact registration.Contact) (*Credentials, error)
}

// NotificationDispatcher fans a message out to the email and messaging
// channels. Calls are fire-and-forget: failures are logged by the
// implementation, never returned.
type NotificationDispatcher interface {
	NotifyConfirmation(reg *registration.Registration, creds *Credentials)
	NotifyReassignment(reg *registration.Registration, reason string)
}

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/domain/schedule"
	"restore-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
)

// EmailSender delivers one rendered email through the notification
// gateway's email channel.
type EmailSender interface {
	Send(ctx context.Context, toName, toAddr, subject, body string) error
}

// Event is the messaging-channel payload published for the platform's
// SMS/WhatsApp relay.
type Event struct {
	Kind           string    `json:"kind"`
	RegistrationID uuid.UUID `json:"registration_id"`
	Recipient      string    `json:"recipient"`
	Body           string    `json:"body"`
}

type MessagePublisher interface {
	Publish(ctx context.Context, event Event) error
}

const sendTimeout = 30 * time.Second

// Dispatcher constructs channel-appropriate payloads from a
// registration's contact fields and assignments and fans them out.
// Delivery is best-effort: each channel is attempted independently after
// the registration write has committed, and failures are only logged.
type Dispatcher struct {
	email    EmailSender
	messages MessagePublisher
	logger   *slog.Logger
}

func NewDispatcher(email EmailSender, messages MessagePublisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{email: email, messages: messages, logger: logger}
}

var _ commands.NotificationDispatcher = (*Dispatcher)(nil)

func (d *Dispatcher) NotifyConfirmation(reg *registration.Registration, creds *commands.Credentials) {
	subject := "Your counselling sessions are booked"
	body := confirmationEmailBody(reg, creds)
	message := fmt.Sprintf("Hi %s, your counselling sessions are booked:\n%s",
		reg.Contact().FirstName(), formatAssignments(reg.Assignments()))

	d.fanOut("confirmation", reg, subject, body, message)
}

func (d *Dispatcher) NotifyReassignment(reg *registration.Registration, reason string) {
	subject := "Your counselling sessions have been rescheduled"
	body := reassignmentEmailBody(reg, reason)
	message := fmt.Sprintf("Hi %s, your sessions were rescheduled (%s). New schedule:\n%s",
		reg.Contact().FirstName(), reason, formatAssignments(reg.Assignments()))

	d.fanOut("reassignment", reg, subject, body, message)
}

func (d *Dispatcher) fanOut(kind string, reg *registration.Registration, subject, emailBody, messageBody string) {
	contact := reg.Contact()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := d.email.Send(ctx, contact.FullName(), contact.Email(), subject, emailBody); err != nil {
			d.logger.Error("email notification failed",
				"kind", kind, "registration_id", reg.ID(), "error", err)
		}
	}()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		event := Event{
			Kind:           kind,
			RegistrationID: reg.ID(),
			Recipient:      contact.FullPhoneNumber(),
			Body:           messageBody,
		}
		if err := d.messages.Publish(ctx, event); err != nil {
			d.logger.Error("messaging notification failed",
				"kind", kind, "registration_id", reg.ID(), "error", err)
		}
	}()
}

func confirmationEmailBody(reg *registration.Registration, creds *commands.Credentials) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", reg.Contact().FullName())
	b.WriteString("Your counselling sessions have been scheduled:\n\n")
	b.WriteString(formatAssignments(reg.Assignments()))

	if creds != nil {
		fmt.Fprintf(&b, "\nAn academy account has been created for you.\nUsername: %s\nPassword: %s\n",
			creds.Username, creds.Password)
	}

	b.WriteString("\nWe look forward to seeing you.\n")
	return b.String()
}

func reassignmentEmailBody(reg *registration.Registration, reason string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", reg.Contact().FullName())
	fmt.Fprintf(&b, "Your counselling sessions have been rescheduled.\nReason: %s\n\nNew schedule:\n\n", reason)
	b.WriteString(formatAssignments(reg.Assignments()))
	b.WriteString("\nWe apologise for any inconvenience.\n")
	return b.String()
}

func formatAssignments(slots []schedule.Slot) string {
	var b strings.Builder
	for _, s := range slots {
		fmt.Fprintf(&b, "  %s %s, %s - %s\n",
			s.Date().Weekday(), s.Date().Format("2 January 2006"), s.StartTime(), s.EndTime())
	}
	return b.String()
}

//go:build unit

package notify_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/domain/schedule"
	"restore-scheduler/internal/notify"
	"restore-scheduler/internal/usecase/commands"
	"restore-scheduler/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	ToName  string
	ToAddr  string
	Subject string
	Body    string
}

type captureEmail struct {
	sent chan sentEmail
	err  error
}

func (c *captureEmail) Send(_ context.Context, toName, toAddr, subject, body string) error {
	c.sent <- sentEmail{ToName: toName, ToAddr: toAddr, Subject: subject, Body: body}
	return c.err
}

type capturePublisher struct {
	published chan notify.Event
	err       error
}

func (c *capturePublisher) Publish(_ context.Context, event notify.Event) error {
	c.published <- event
	return c.err
}

func newScheduledRegistration(t *testing.T) *registration.Registration {
	t.Helper()
	reg, err := builder.NewRegistrationBuilder().BuildDomain()
	require.NoError(t, err)

	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	windows := schedule.Windows()
	reg.Schedule([]schedule.Slot{
		schedule.NewSlot(monday, windows[0]),
		schedule.NewSlot(monday, windows[1]),
	}, monday)
	return reg
}

func awaitEmail(t *testing.T, ch chan sentEmail) sentEmail {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("email channel never delivered")
		return sentEmail{}
	}
}

func awaitEvent(t *testing.T, ch chan notify.Event) notify.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("messaging channel never delivered")
		return notify.Event{}
	}
}

func TestNotifyConfirmation(t *testing.T) {
	t.Run("both channels receive the confirmation", func(t *testing.T) {
		email := &captureEmail{sent: make(chan sentEmail, 1)}
		publisher := &capturePublisher{published: make(chan notify.Event, 1)}
		d := notify.NewDispatcher(email, publisher, slog.Default())

		reg := newScheduledRegistration(t)
		d.NotifyConfirmation(reg, nil)

		mail := awaitEmail(t, email.sent)
		assert.Equal(t, "Amina Yusuf", mail.ToName)
		assert.Equal(t, "amina.yusuf@example.com", mail.ToAddr)
		assert.Contains(t, mail.Subject, "booked")
		assert.Contains(t, mail.Body, "Monday 5 January 2026, 18:00 - 19:00")
		assert.NotContains(t, mail.Body, "Username")

		want := notify.Event{
			Kind:           "confirmation",
			RegistrationID: reg.ID(),
			Recipient:      "+254712345678",
			Body:           "Hi Amina, your counselling sessions are booked:\n  Monday 5 January 2026, 18:00 - 19:00\n  Monday 5 January 2026, 19:00 - 20:00\n",
		}
		if diff := cmp.Diff(want, awaitEvent(t, publisher.published)); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("provisioned credentials appear in the email only", func(t *testing.T) {
		email := &captureEmail{sent: make(chan sentEmail, 1)}
		publisher := &capturePublisher{published: make(chan notify.Event, 1)}
		d := notify.NewDispatcher(email, publisher, slog.Default())

		reg := newScheduledRegistration(t)
		d.NotifyConfirmation(reg, &commands.Credentials{Username: "amina.yusuf", Password: "s3cret"})

		mail := awaitEmail(t, email.sent)
		assert.Contains(t, mail.Body, "Username: amina.yusuf")
		assert.Contains(t, mail.Body, "Password: s3cret")

		event := awaitEvent(t, publisher.published)
		assert.NotContains(t, event.Body, "s3cret")
	})

	t.Run("one channel failing does not block the other", func(t *testing.T) {
		email := &captureEmail{sent: make(chan sentEmail, 1), err: errors.New("smtp unreachable")}
		publisher := &capturePublisher{published: make(chan notify.Event, 1)}
		d := notify.NewDispatcher(email, publisher, slog.Default())

		d.NotifyConfirmation(newScheduledRegistration(t), nil)

		awaitEmail(t, email.sent)
		assert.Equal(t, "confirmation", awaitEvent(t, publisher.published).Kind)
	})
}

func TestNotifyReassignment(t *testing.T) {
	email := &captureEmail{sent: make(chan sentEmail, 1)}
	publisher := &capturePublisher{published: make(chan notify.Event, 1)}
	d := notify.NewDispatcher(email, publisher, slog.Default())

	reg := newScheduledRegistration(t)
	d.NotifyReassignment(reg, "Counsellor unavailable")

	mail := awaitEmail(t, email.sent)
	assert.Contains(t, mail.Subject, "rescheduled")
	assert.Contains(t, mail.Body, "Reason: Counsellor unavailable")

	event := awaitEvent(t, publisher.published)
	assert.Equal(t, "reassignment", event.Kind)
	assert.Equal(t, reg.ID(), event.RegistrationID)
	assert.Contains(t, event.Body, "Counsellor unavailable")
}

//go:build unit

package registration_test

import (
	"testing"
	"time"

	"restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/domain/schedule"
	"restore-scheduler/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondaySlots(t *testing.T, n int) []schedule.Slot {
	t.Helper()
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	windows := schedule.Windows()
	require.LessOrEqual(t, n, len(windows))

	slots := make([]schedule.Slot, 0, n)
	for i := 0; i < n; i++ {
		slots = append(slots, schedule.NewSlot(monday, windows[i]))
	}
	return slots
}

func TestNewRegistration(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		reg, err := builder.NewRegistrationBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, reg)

		assert.NotEqual(t, uuid.Nil, reg.ID())
		assert.Equal(t, registration.StatusIncomplete, reg.Status())
		assert.Empty(t, reg.Assignments())
		assert.Equal(t, 2, reg.RequestedDuration())
		assert.Equal(t, reg.CreatedAt(), reg.UpdatedAt())
	})

	t.Run("duration floored to one", func(t *testing.T) {
		reg, err := builder.NewRegistrationBuilder().
			With(func(b *builder.RegistrationBuilder) { b.RequestedDuration = 0 }).
			BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, 1, reg.RequestedDuration())

		reg, err = builder.NewRegistrationBuilder().
			With(func(b *builder.RegistrationBuilder) { b.RequestedDuration = -3 }).
			BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, 1, reg.RequestedDuration())
	})
}

func TestContactValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*builder.RegistrationBuilder)
		errIs  error
	}{
		{
			name:   "valid contact",
			mutate: func(b *builder.RegistrationBuilder) {},
		},
		{
			name:   "empty first name",
			mutate: func(b *builder.RegistrationBuilder) { b.FirstName = "   " },
			errIs:  registration.ErrEmptyName,
		},
		{
			name:   "empty surname",
			mutate: func(b *builder.RegistrationBuilder) { b.Surname = "" },
			errIs:  registration.ErrEmptyName,
		},
		{
			name:   "malformed email",
			mutate: func(b *builder.RegistrationBuilder) { b.Email = "not-an-email" },
			errIs:  registration.ErrInvalidEmail,
		},
		{
			name:   "email with spaces",
			mutate: func(b *builder.RegistrationBuilder) { b.Email = "a b@example.com" },
			errIs:  registration.ErrInvalidEmail,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.NewRegistrationBuilder().With(tc.mutate).BuildContact()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("email is normalized", func(t *testing.T) {
		contact, err := registration.NewContact("Amina", "Yusuf", "  Amina.Yusuf@Example.COM ", "0712345678", "+254")
		require.NoError(t, err)
		assert.Equal(t, "amina.yusuf@example.com", contact.Email())
	})

	t.Run("full phone number joins country code and strips leading zero", func(t *testing.T) {
		contact, err := registration.NewContact("Amina", "Yusuf", "amina@example.com", "0712345678", "+254")
		require.NoError(t, err)
		assert.Equal(t, "+254712345678", contact.FullPhoneNumber())

		noCode, err := registration.NewContact("Amina", "Yusuf", "amina@example.com", "0712345678", "")
		require.NoError(t, err)
		assert.Equal(t, "0712345678", noCode.FullPhoneNumber())
	})
}

func TestSchedule(t *testing.T) {
	now := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)

	t.Run("allocation produces scheduled", func(t *testing.T) {
		reg, err := builder.NewRegistrationBuilder().BuildDomain()
		require.NoError(t, err)

		slots := mondaySlots(t, 2)
		reg.Schedule(slots, now)

		assert.Equal(t, registration.StatusScheduled, reg.Status())
		assert.Equal(t, slots, reg.Assignments())
		assert.Equal(t, now, reg.UpdatedAt())
	})

	t.Run("empty allocation leaves record pending", func(t *testing.T) {
		reg, err := builder.NewRegistrationBuilder().BuildDomain()
		require.NoError(t, err)

		reg.Schedule(nil, now)

		assert.Equal(t, registration.StatusPending, reg.Status())
		assert.Empty(t, reg.Assignments())
		assert.False(t, reg.IsAnomalous())
	})
}

func TestReassign(t *testing.T) {
	now := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)
	later := now.Add(48 * time.Hour)

	newScheduled := func(t *testing.T) *registration.Registration {
		reg, err := builder.NewRegistrationBuilder().BuildDomain()
		require.NoError(t, err)
		reg.Schedule(mondaySlots(t, 2), now)
		return reg
	}

	t.Run("replaces assignments and records history", func(t *testing.T) {
		reg := newScheduled(t)
		oldSlots := reg.Assignments()
		replacement := mondaySlots(t, 3)[2:]

		err := reg.Reassign(replacement, "Counsellor unavailable", later)
		require.NoError(t, err)

		assert.Equal(t, replacement, reg.Assignments())
		assert.Equal(t, registration.StatusScheduled, reg.Status())
		require.Len(t, reg.History(), 1)
		entry := reg.History()[0]
		assert.Equal(t, "Counsellor unavailable", entry.Reason)
		assert.Equal(t, oldSlots, entry.OldAssignments)
		assert.Equal(t, later, entry.Timestamp)
	})

	t.Run("empty reason rejected", func(t *testing.T) {
		reg := newScheduled(t)
		err := reg.Reassign(mondaySlots(t, 1), "", later)
		assert.ErrorIs(t, err, registration.ErrEmptyReason)
		assert.Empty(t, reg.History())
	})

	t.Run("empty assignments rejected", func(t *testing.T) {
		reg := newScheduled(t)
		err := reg.Reassign(nil, "Counsellor unavailable", later)
		assert.ErrorIs(t, err, registration.ErrEmptyAssignments)
		assert.Empty(t, reg.History())
	})

	t.Run("forces scheduled status on non-scheduled record", func(t *testing.T) {
		reg, err := builder.NewRegistrationBuilder().BuildDomain()
		require.NoError(t, err)
		reg.MarkPromised(now)

		require.NoError(t, reg.Reassign(mondaySlots(t, 1), "Payment confirmed, slots allocated manually", later))
		assert.Equal(t, registration.StatusScheduled, reg.Status())
	})

	t.Run("history is append-only across reassignments", func(t *testing.T) {
		reg := newScheduled(t)
		require.NoError(t, reg.Reassign(mondaySlots(t, 1), "First move", later))
		require.NoError(t, reg.Reassign(mondaySlots(t, 3)[1:2], "Second move", later.Add(time.Hour)))
		assert.Len(t, reg.History(), 2)
	})
}

func TestSetStatus(t *testing.T) {
	now := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)

	reg, err := builder.NewRegistrationBuilder().BuildDomain()
	require.NoError(t, err)

	require.NoError(t, reg.SetStatus(registration.StatusCancelled, now))
	assert.Equal(t, registration.StatusCancelled, reg.Status())

	err = reg.SetStatus(registration.Status("bogus"), now)
	assert.ErrorIs(t, err, registration.ErrInvalidStatus)
	assert.Equal(t, registration.StatusCancelled, reg.Status())
}

func TestStatus(t *testing.T) {
	valid := []registration.Status{
		registration.StatusIncomplete, registration.StatusPending,
		registration.StatusPromised, registration.StatusScheduled,
		registration.StatusReviewed, registration.StatusCompleted,
		registration.StatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, registration.Status("archived").IsValid())

	t.Run("only cancelled releases slots", func(t *testing.T) {
		for _, s := range valid {
			if s == registration.StatusCancelled {
				assert.False(t, s.HoldsSlots())
			} else {
				assert.True(t, s.HoldsSlots(), s.String())
			}
		}
	})
}

func TestIsAnomalous(t *testing.T) {
	now := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)

	reg := registration.ReconstructRegistration(
		uuid.New(), registration.Contact{}, 1, nil,
		registration.StatusScheduled, nil, nil, now, now,
	)
	assert.True(t, reg.IsAnomalous())

	require.NoError(t, reg.SetStatus(registration.StatusPending, now))
	assert.False(t, reg.IsAnomalous())
}

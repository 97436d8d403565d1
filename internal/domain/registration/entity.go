package registration

import (
	"encoding/json"
	"errors"
	"time"

	"restore-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrEmptyReason      = errors.New("reassignment reason cannot be empty")
	ErrEmptyAssignments = errors.New("assignments cannot be empty")
	ErrInvalidStatus    = errors.New("invalid registration status")
)

// Reassignment is one append-only history entry recording the slots a
// registration held before an administrative replacement.
type Reassignment struct {
	Reason         string
	OldAssignments []schedule.Slot
	Timestamp      time.Time
}

// Registration is the aggregate root for a booking. Assignments are
// embedded slots in chronological booking order; only this package's
// methods mutate them.
type Registration struct {
	id                uuid.UUID
	contact           Contact
	requestedDuration int
	assignments       []schedule.Slot
	status            Status
	history           []Reassignment
	extra             json.RawMessage
	createdAt         time.Time
	updatedAt         time.Time
}

// NewRegistration creates an unscheduled registration. The requested
// duration is floored to one slot-unit.
func NewRegistration(contact Contact, requestedDuration int, extra json.RawMessage, now time.Time) *Registration {
	if requestedDuration < 1 {
		requestedDuration = 1
	}
	return &Registration{
		id:                uuid.New(),
		contact:           contact,
		requestedDuration: requestedDuration,
		status:            StatusIncomplete,
		extra:             extra,
		createdAt:         now,
		updatedAt:         now,
	}
}

func ReconstructRegistration(
	id uuid.UUID,
	contact Contact,
	requestedDuration int,
	assignments []schedule.Slot,
	status Status,
	history []Reassignment,
	extra json.RawMessage,
	createdAt, updatedAt time.Time,
) *Registration {
	return &Registration{
		id:                id,
		contact:           contact,
		requestedDuration: requestedDuration,
		assignments:       assignments,
		status:            status,
		history:           history,
		extra:             extra,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// Schedule stores the slots allocated by the availability finder. An
// empty allocation leaves the record pending manual scheduling instead
// of producing a scheduled registration without assignments.
func (r *Registration) Schedule(slots []schedule.Slot, now time.Time) {
	r.assignments = slots
	if len(slots) == 0 {
		r.status = StatusPending
	} else {
		r.status = StatusScheduled
	}
	r.updatedAt = now
}

func (r *Registration) MarkPromised(now time.Time) {
	r.status = StatusPromised
	r.assignments = nil
	r.updatedAt = now
}

func (r *Registration) MarkIncomplete(now time.Time) {
	r.status = StatusIncomplete
	r.assignments = nil
	r.updatedAt = now
}

// Reassign replaces the assignment set wholesale, recording the previous
// set in the history log and forcing the scheduled status. Validation of
// slot occupancy is the caller's concern.
func (r *Registration) Reassign(slots []schedule.Slot, reason string, now time.Time) error {
	if reason == "" {
		return ErrEmptyReason
	}
	if len(slots) == 0 {
		return ErrEmptyAssignments
	}

	r.history = append(r.history, Reassignment{
		Reason:         reason,
		OldAssignments: r.assignments,
		Timestamp:      now,
	})
	r.assignments = slots
	r.status = StatusScheduled
	r.updatedAt = now
	return nil
}

// SetStatus is the administrative override: any enumerated status, no
// side effects on assignments.
func (r *Registration) SetStatus(status Status, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	r.status = status
	r.updatedAt = now
	return nil
}

// IsAnomalous flags the tolerated invariant violation of a scheduled
// registration holding no assignments.
func (r *Registration) IsAnomalous() bool {
	return r.status == StatusScheduled && len(r.assignments) == 0
}

func (r *Registration) ID() uuid.UUID          { return r.id }
func (r *Registration) Contact() Contact       { return r.contact }
func (r *Registration) RequestedDuration() int { return r.requestedDuration }
func (r *Registration) Assignments() []schedule.Slot {
	out := make([]schedule.Slot, len(r.assignments))
	copy(out, r.assignments)
	return out
}
func (r *Registration) Status() Status          { return r.status }
func (r *Registration) History() []Reassignment { return r.history }
func (r *Registration) Extra() json.RawMessage  { return r.extra }
func (r *Registration) CreatedAt() time.Time    { return r.createdAt }
func (r *Registration) UpdatedAt() time.Time    { return r.updatedAt }

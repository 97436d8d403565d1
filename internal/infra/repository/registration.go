package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/infra"
	"restore-scheduler/internal/infra/converter"
	"restore-scheduler/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type RegistrationRepository struct{}

func NewRegistrationRepository() *RegistrationRepository {
	return &RegistrationRepository{}
}

const insertRegistrationSQL = `
INSERT INTO registrations (
	id, first_name, surname, email, phone_number, country_code,
	requested_duration, assignments, status, reassignment_history, extra,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func (r *RegistrationRepository) Create(ctx context.Context, tx db.DBTX, reg *registration.Registration) error {
	assignments, err := converter.AssignmentsJSON(reg)
	if err != nil {
		return infra.WrapRepoErr("failed to encode assignments", err)
	}
	history, err := converter.HistoryJSON(reg)
	if err != nil {
		return infra.WrapRepoErr("failed to encode reassignment history", err)
	}

	contact := reg.Contact()
	_, err = tx.Exec(ctx, insertRegistrationSQL,
		reg.ID(), contact.FirstName(), contact.Surname(), contact.Email(),
		contact.PhoneNumber(), contact.CountryCode(), reg.RequestedDuration(),
		assignments, reg.Status().String(), history, nullableJSON(reg.Extra()),
		reg.CreatedAt(), reg.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create registration", err)
	}

	return r.replaceSlots(ctx, tx, reg)
}

const selectForUpdateSQL = `
SELECT id, first_name, surname, email, phone_number, country_code,
       requested_duration, assignments, status, reassignment_history, extra,
       created_at, updated_at
FROM registrations
WHERE id = $1
FOR UPDATE`

func (r *RegistrationRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*registration.Registration, error) {
	var regID uuid.UUID
	var firstName, surname, email, phoneNumber, countryCode, status string
	var requestedDuration int
	var assignmentsRaw, historyRaw, extra []byte
	var createdAt, updatedAt time.Time

	err := tx.QueryRow(ctx, selectForUpdateSQL, id).Scan(
		&regID, &firstName, &surname, &email, &phoneNumber, &countryCode,
		&requestedDuration, &assignmentsRaw, &status, &historyRaw, &extra,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("registration not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load registration", err)
	}

	var slotRecords []converter.SlotRecord
	if err := json.Unmarshal(assignmentsRaw, &slotRecords); err != nil {
		return nil, infra.WrapRepoErr("failed to decode assignments", err)
	}
	slots, err := converter.SlotsFromRecords(slotRecords)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode assignments", err)
	}

	var historyRecords []converter.ReassignmentRecord
	if err := json.Unmarshal(historyRaw, &historyRecords); err != nil {
		return nil, infra.WrapRepoErr("failed to decode reassignment history", err)
	}
	history, err := converter.HistoryFromRecords(historyRecords)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode reassignment history", err)
	}

	contact := registration.ReconstructContact(firstName, surname, email, phoneNumber, countryCode)

	return registration.ReconstructRegistration(
		regID, contact, requestedDuration, slots,
		registration.Status(status), history, extra, createdAt, updatedAt,
	), nil
}

const updateRegistrationSQL = `
UPDATE registrations
SET assignments = $2,
    status = $3,
    reassignment_history = $4,
    updated_at = $5
WHERE id = $1`

func (r *RegistrationRepository) Update(ctx context.Context, tx db.DBTX, reg *registration.Registration) error {
	assignments, err := converter.AssignmentsJSON(reg)
	if err != nil {
		return infra.WrapRepoErr("failed to encode assignments", err)
	}
	history, err := converter.HistoryJSON(reg)
	if err != nil {
		return infra.WrapRepoErr("failed to encode reassignment history", err)
	}

	tag, err := tx.Exec(ctx, updateRegistrationSQL,
		reg.ID(), assignments, reg.Status().String(), history, reg.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update registration", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("registration not found", nil, infra.KindNotFound)
	}

	return r.replaceSlots(ctx, tx, reg)
}

// replaceSlots rebuilds the normalized occupancy rows for a registration.
// The partial unique index on (slot_date, start_time) WHERE active is the
// authoritative double-booking guard; a violation surfaces as
// KindConflict.
func (r *RegistrationRepository) replaceSlots(ctx context.Context, tx db.DBTX, reg *registration.Registration) error {
	if _, err := tx.Exec(ctx, `DELETE FROM registration_slots WHERE registration_id = $1`, reg.ID()); err != nil {
		return infra.WrapRepoErr("failed to clear occupancy rows", err)
	}

	active := reg.Status().HoldsSlots()
	for _, slot := range reg.Assignments() {
		_, err := tx.Exec(ctx,
			`INSERT INTO registration_slots (registration_id, slot_date, start_time, end_time, active)
			 VALUES ($1, $2, $3, $4, $5)`,
			reg.ID(), slot.Date(), slot.StartTime(), slot.EndTime(), active,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return infra.WrapRepoErr("slot already occupied", err, infra.KindConflict)
			}
			return infra.WrapRepoErr("failed to insert occupancy row", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

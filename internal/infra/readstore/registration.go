package readstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"restore-scheduler/internal/infra"
	"restore-scheduler/internal/infra/converter"
	"restore-scheduler/internal/infra/db"
	"restore-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RegistrationReadStore struct {
	db db.DBTX
}

func NewRegistrationReadStore(pool db.DBTX) *RegistrationReadStore {
	return &RegistrationReadStore{db: pool}
}

// IsSlotTaken reports whether any registration other than the excluded
// one holds the slot. Cancelled registrations release their slots both
// through the active flag and the status join, so a record cancelled by
// administrative tooling outside this service is still treated as free.
const slotTakenSQL = `
SELECT EXISTS (
	SELECT 1
	FROM registration_slots s
	JOIN registrations r ON r.id = s.registration_id
	WHERE s.slot_date = $1
	  AND s.start_time = $2
	  AND s.active
	  AND r.status <> 'cancelled'
	  AND ($3::uuid IS NULL OR s.registration_id <> $3)
)`

func (r *RegistrationReadStore) IsSlotTaken(ctx context.Context, date time.Time, startTime string, exclude *uuid.UUID) (bool, error) {
	var taken bool
	if err := r.db.QueryRow(ctx, slotTakenSQL, date, startTime, exclude).Scan(&taken); err != nil {
		return false, infra.WrapRepoErr("failed to check slot occupancy", err)
	}
	return taken, nil
}

const selectViewSQL = `
SELECT id, first_name, surname, email, phone_number, country_code,
       requested_duration, assignments, status, reassignment_history, extra,
       created_at, updated_at
FROM registrations
WHERE id = $1`

func (r *RegistrationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RegistrationView, error) {
	row := r.db.QueryRow(ctx, selectViewSQL, id)

	view, err := scanRegistrationView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("registration not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find registration by ID", err)
	}
	return view, nil
}

const listSQL = `
SELECT id, first_name, surname, email, assignments, status, created_at
FROM registrations
WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at < $2)
  AND ($3::text IS NULL OR status = $3)
ORDER BY created_at DESC`

func (r *RegistrationReadStore) FindByFilter(ctx context.Context, filter queries.ListFilter) ([]*queries.RegistrationListItem, error) {
	rows, err := r.db.Query(ctx, listSQL, filter.From, filter.To, filter.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list registrations", err)
	}
	defer rows.Close()

	return collectListItems(rows)
}

const anomaliesSQL = `
SELECT id, first_name, surname, email, assignments, status, created_at
FROM registrations
WHERE status = 'scheduled' AND jsonb_array_length(assignments) = 0
ORDER BY created_at DESC`

func (r *RegistrationReadStore) FindScheduledWithoutAssignments(ctx context.Context) ([]*queries.RegistrationListItem, error) {
	rows, err := r.db.Query(ctx, anomaliesSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list anomalous registrations", err)
	}
	defer rows.Close()

	return collectListItems(rows)
}

func scanRegistrationView(row pgx.Row) (*queries.RegistrationView, error) {
	var view queries.RegistrationView
	var assignmentsRaw, historyRaw, extra []byte

	err := row.Scan(
		&view.ID, &view.FirstName, &view.Surname, &view.Email,
		&view.PhoneNumber, &view.CountryCode, &view.RequestedDuration,
		&assignmentsRaw, &view.Status, &historyRaw, &extra,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var slotRecords []converter.SlotRecord
	if err := json.Unmarshal(assignmentsRaw, &slotRecords); err != nil {
		return nil, err
	}
	view.Assignments = converter.SlotViewsFromRecords(slotRecords)

	var historyRecords []converter.ReassignmentRecord
	if err := json.Unmarshal(historyRaw, &historyRecords); err != nil {
		return nil, err
	}
	view.ReassignmentHistory = converter.ReassignmentViewsFromRecords(historyRecords)

	view.Extra = extra
	return &view, nil
}

func collectListItems(rows pgx.Rows) ([]*queries.RegistrationListItem, error) {
	var result []*queries.RegistrationListItem
	for rows.Next() {
		var item queries.RegistrationListItem
		var assignmentsRaw []byte

		err := rows.Scan(&item.ID, &item.FirstName, &item.Surname, &item.Email,
			&assignmentsRaw, &item.Status, &item.CreatedAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan registration row", err)
		}

		var slotRecords []converter.SlotRecord
		if err := json.Unmarshal(assignmentsRaw, &slotRecords); err != nil {
			return nil, infra.WrapRepoErr("failed to decode assignments", err)
		}
		item.Assignments = converter.SlotViewsFromRecords(slotRecords)

		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate registration rows", err)
	}
	return result, nil
}

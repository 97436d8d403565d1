package queries

import (
	"context"
	"time"

	"restore-scheduler/internal/domain/schedule"
	"restore-scheduler/internal/pkg/clock"

	"github.com/google/uuid"
)

// OccupancyRepo answers whether any active registration, other than the
// excluded one, holds a given slot.
type OccupancyRepo interface {
	IsSlotTaken(ctx context.Context, date time.Time, startTime string, exclude *uuid.UUID) (bool, error)
}

type AvailabilityQueries interface {
	// FindAvailableSlots walks forward from the search start, skipping
	// non-eligible weekdays, and collects free windows in calendar order
	// until the requested count is met or the horizon is exhausted. A
	// short result is not an error; the caller decides what to do with it.
	FindAvailableSlots(ctx context.Context, requestedDuration int) ([]schedule.Slot, error)

	IsSlotAvailable(ctx context.Context, slot schedule.Slot, exclude *uuid.UUID) (bool, error)

	// ValidateAssignments reports whether every slot is free, short-
	// circuiting on the first conflict.
	ValidateAssignments(ctx context.Context, slots []schedule.Slot, exclude *uuid.UUID) (bool, error)
}

type availabilityQueriesImpl struct {
	occupancy OccupancyRepo
	clock     clock.Clock
}

func NewAvailabilityQueries(occupancy OccupancyRepo, clk clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{occupancy: occupancy, clock: clk}
}

func (q *availabilityQueriesImpl) FindAvailableSlots(ctx context.Context, requestedDuration int) ([]schedule.Slot, error) {
	if requestedDuration < 1 {
		requestedDuration = 1
	}
	// The horizon can never yield more than this, so larger requests
	// would only inflate the allocation below.
	if max := schedule.MaxBookableSlots(); requestedDuration > max {
		requestedDuration = max
	}

	found := make([]schedule.Slot, 0, requestedDuration)
	day := schedule.SearchStart(q.clock.Now())

	for offset := 0; offset < schedule.SearchHorizonDays; offset++ {
		date := day.AddDate(0, 0, offset)
		if !schedule.IsEligibleWeekday(date) {
			continue
		}

		for _, w := range schedule.Windows() {
			taken, err := q.occupancy.IsSlotTaken(ctx, date, w.Start, nil)
			if err != nil {
				return nil, err
			}
			if taken {
				continue
			}

			found = append(found, schedule.NewSlot(date, w))
			if len(found) == requestedDuration {
				return found, nil
			}
		}
	}

	return found, nil
}

func (q *availabilityQueriesImpl) IsSlotAvailable(ctx context.Context, slot schedule.Slot, exclude *uuid.UUID) (bool, error) {
	taken, err := q.occupancy.IsSlotTaken(ctx, slot.Date(), slot.StartTime(), exclude)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (q *availabilityQueriesImpl) ValidateAssignments(ctx context.Context, slots []schedule.Slot, exclude *uuid.UUID) (bool, error) {
	for _, slot := range slots {
		free, err := q.IsSlotAvailable(ctx, slot, exclude)
		if err != nil {
			return false, err
		}
		if !free {
			return false, nil
		}
	}
	return true, nil
}

package schedule

import (
	"errors"
	"time"
)

var (
	ErrInvalidSlotDate = errors.New("invalid slot date")
	ErrInvalidSlotTime = errors.New("invalid slot time")
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Slot is a single bookable window on a given date. Immutable once
// created; a reassignment replaces a registration's slots wholesale.
type Slot struct {
	date  time.Time
	start string
	end   string
}

func NewSlot(date time.Time, w Window) Slot {
	return Slot{date: DayOf(date), start: w.Start, end: w.End}
}

// ReconstructSlot builds a Slot from wire or stored values, validating
// the date and HH:MM formats.
func ReconstructSlot(date, start, end string) (Slot, error) {
	d, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return Slot{}, ErrInvalidSlotDate
	}

	st, err := time.Parse(TimeLayout, start)
	if err != nil {
		return Slot{}, ErrInvalidSlotTime
	}
	en, err := time.Parse(TimeLayout, end)
	if err != nil {
		return Slot{}, ErrInvalidSlotTime
	}
	if !st.Before(en) {
		return Slot{}, ErrInvalidSlotTime
	}

	return Slot{date: d, start: start, end: end}, nil
}

func (s Slot) Date() time.Time   { return s.date }
func (s Slot) StartTime() string { return s.start }
func (s Slot) EndTime() string   { return s.end }

func (s Slot) DateString() string {
	return s.date.Format(DateLayout)
}

// Occupies reports whether two slots contend for the same calendar day
// and start time.
func (s Slot) Occupies(other Slot) bool {
	return s.date.Equal(other.date) && s.start == other.start
}

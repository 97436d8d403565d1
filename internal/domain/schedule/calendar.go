package schedule

import "time"

// Window is one of the fixed daily bookable time ranges, expressed as
// 24-hour wall-clock strings.
type Window struct {
	Start string
	End   string
}

// The calendar is process-wide constant configuration: three evening
// windows on four eligible weekdays.
var dailyWindows = []Window{
	{Start: "18:00", End: "19:00"},
	{Start: "19:00", End: "20:00"},
	{Start: "20:00", End: "21:00"},
}

var eligibleWeekdays = map[time.Weekday]bool{
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Friday:    true,
}

// SearchHorizonDays bounds the forward walk of the availability finder.
const SearchHorizonDays = 30

// MaxBookableSlots is the most slots the horizon can ever yield; no
// request may ask for more.
func MaxBookableSlots() int {
	return SearchHorizonDays * len(dailyWindows)
}

func Windows() []Window {
	out := make([]Window, len(dailyWindows))
	copy(out, dailyWindows)
	return out
}

func FirstWindowStart() string {
	return dailyWindows[0].Start
}

func IsEligibleWeekday(date time.Time) bool {
	return eligibleWeekdays[date.Weekday()]
}

// DayOf pins an instant to UTC midnight. All slot dates are stored and
// compared at this granularity.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SearchStart returns the first day the finder may consider: today while
// the first window has not started yet, otherwise tomorrow.
func SearchStart(now time.Time) time.Time {
	u := now.UTC()
	if u.Format("15:04") < FirstWindowStart() {
		return DayOf(u)
	}
	return DayOf(u.AddDate(0, 0, 1))
}

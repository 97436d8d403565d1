package registration

type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusPending    Status = "pending"
	StatusPromised   Status = "promised"
	StatusScheduled  Status = "scheduled"
	StatusReviewed   Status = "reviewed"
	StatusCompleted  Status = "completed"

	// StatusCancelled is reachable only through the administrative
	// status override; the conflict validator treats its slots as free.
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusIncomplete, StatusPending, StatusPromised,
		StatusScheduled, StatusReviewed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// HoldsSlots reports whether a registration in this status keeps its
// assignments occupied against other bookings.
func (s Status) HoldsSlots() bool {
	return s != StatusCancelled
}

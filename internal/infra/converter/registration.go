package converter

import (
	"encoding/json"
	"time"

	"restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/domain/schedule"
	"restore-scheduler/internal/usecase/queries"
)

// SlotRecord is the jsonb shape of an embedded slot; keys match the wire
// shape so stored assignments round-trip through the API unchanged.
type SlotRecord struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type ReassignmentRecord struct {
	Reason         string       `json:"reason"`
	OldAssignments []SlotRecord `json:"oldAssignments"`
	Timestamp      time.Time    `json:"timestamp"`
}

func SlotsToRecords(slots []schedule.Slot) []SlotRecord {
	out := make([]SlotRecord, len(slots))
	for i, s := range slots {
		out[i] = SlotRecord{Date: s.DateString(), StartTime: s.StartTime(), EndTime: s.EndTime()}
	}
	return out
}

func SlotsFromRecords(records []SlotRecord) ([]schedule.Slot, error) {
	out := make([]schedule.Slot, len(records))
	for i, r := range records {
		s, err := schedule.ReconstructSlot(r.Date, r.StartTime, r.EndTime)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func HistoryToRecords(history []registration.Reassignment) []ReassignmentRecord {
	out := make([]ReassignmentRecord, len(history))
	for i, h := range history {
		out[i] = ReassignmentRecord{
			Reason:         h.Reason,
			OldAssignments: SlotsToRecords(h.OldAssignments),
			Timestamp:      h.Timestamp,
		}
	}
	return out
}

func HistoryFromRecords(records []ReassignmentRecord) ([]registration.Reassignment, error) {
	out := make([]registration.Reassignment, len(records))
	for i, r := range records {
		old, err := SlotsFromRecords(r.OldAssignments)
		if err != nil {
			return nil, err
		}
		out[i] = registration.Reassignment{Reason: r.Reason, OldAssignments: old, Timestamp: r.Timestamp}
	}
	return out, nil
}

func AssignmentsJSON(reg *registration.Registration) ([]byte, error) {
	return json.Marshal(SlotsToRecords(reg.Assignments()))
}

func HistoryJSON(reg *registration.Registration) ([]byte, error) {
	return json.Marshal(HistoryToRecords(reg.History()))
}

func SlotViewsFromRecords(records []SlotRecord) []queries.SlotView {
	out := make([]queries.SlotView, len(records))
	for i, r := range records {
		out[i] = queries.SlotView{Date: r.Date, StartTime: r.StartTime, EndTime: r.EndTime}
	}
	return out
}

func ReassignmentViewsFromRecords(records []ReassignmentRecord) []queries.ReassignmentView {
	out := make([]queries.ReassignmentView, len(records))
	for i, r := range records {
		out[i] = queries.ReassignmentView{
			Reason:         r.Reason,
			OldAssignments: SlotViewsFromRecords(r.OldAssignments),
			Timestamp:      r.Timestamp,
		}
	}
	return out
}

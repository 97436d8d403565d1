package response

import (
	"encoding/json"
	"time"

	"restore-scheduler/internal/domain/schedule"
	"restore-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type ReassignmentResponse struct {
	Reason         string         `json:"reason"`
	OldAssignments []SlotResponse `json:"oldAssignments"`
	Timestamp      time.Time      `json:"timestamp"`
}

type RegistrationResponse struct {
	ID                  uuid.UUID              `json:"id"`
	FirstName           string                 `json:"firstName"`
	Surname             string                 `json:"surname"`
	Email               string                 `json:"email"`
	PhoneNumber         string                 `json:"phoneNumber"`
	CountryCode         string                 `json:"countryCode,omitempty"`
	RequestedDuration   int                    `json:"requestedDuration"`
	Assignments         []SlotResponse         `json:"assignments"`
	Status              string                 `json:"status"`
	ReassignmentHistory []ReassignmentResponse `json:"reassignmentHistory"`
	Extra               json.RawMessage        `json:"extra,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

type RegistrationListResponse struct {
	ID          uuid.UUID      `json:"id"`
	FirstName   string         `json:"firstName"`
	Surname     string         `json:"surname"`
	Email       string         `json:"email"`
	Assignments []SlotResponse `json:"assignments"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// SubmissionResponse is the public submission result envelope.
type SubmissionResponse struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	RegistrationID uuid.UUID      `json:"registrationId"`
	Assignments    []SlotResponse `json:"assignments"`
	Status         string         `json:"status"`
}

func slotsFromViews(views []queries.SlotView) []SlotResponse {
	out := make([]SlotResponse, len(views))
	for i, v := range views {
		out[i] = SlotResponse{Date: v.Date, StartTime: v.StartTime, EndTime: v.EndTime}
	}
	return out
}

func FromRegistrationView(rm *queries.RegistrationView) *RegistrationResponse {
	history := make([]ReassignmentResponse, len(rm.ReassignmentHistory))
	for i, h := range rm.ReassignmentHistory {
		history[i] = ReassignmentResponse{
			Reason:         h.Reason,
			OldAssignments: slotsFromViews(h.OldAssignments),
			Timestamp:      h.Timestamp,
		}
	}

	return &RegistrationResponse{
		ID:                  rm.ID,
		FirstName:           rm.FirstName,
		Surname:             rm.Surname,
		Email:               rm.Email,
		PhoneNumber:         rm.PhoneNumber,
		CountryCode:         rm.CountryCode,
		RequestedDuration:   rm.RequestedDuration,
		Assignments:         slotsFromViews(rm.Assignments),
		Status:              rm.Status,
		ReassignmentHistory: history,
		Extra:               rm.Extra,
		CreatedAt:           rm.CreatedAt,
		UpdatedAt:           rm.UpdatedAt,
	}
}

func FromRegistrationListItem(rm *queries.RegistrationListItem) *RegistrationListResponse {
	return &RegistrationListResponse{
		ID:          rm.ID,
		FirstName:   rm.FirstName,
		Surname:     rm.Surname,
		Email:       rm.Email,
		Assignments: slotsFromViews(rm.Assignments),
		Status:      rm.Status,
		CreatedAt:   rm.CreatedAt,
	}
}

func SubmissionFromView(rm *queries.RegistrationView, message string) *SubmissionResponse {
	return &SubmissionResponse{
		Success:        true,
		Message:        message,
		RegistrationID: rm.ID,
		Assignments:    slotsFromViews(rm.Assignments),
		Status:         rm.Status,
	}
}

func FromSlots(slots []schedule.Slot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{Date: s.DateString(), StartTime: s.StartTime(), EndTime: s.EndTime()}
	}
	return out
}

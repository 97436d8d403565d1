package request

import (
	"encoding/json"
	"strings"

	"restore-scheduler/internal/domain/schedule"
	"restore-scheduler/internal/usecase/commands"
)

type SubmitRegistrationRequest struct {
	FirstName         string         `json:"firstName" binding:"required"`
	Surname           string         `json:"surname" binding:"required"`
	Email             string         `json:"email" binding:"required,email"`
	PhoneNumber       string         `json:"phoneNumber" binding:"required"`
	CountryCode       string         `json:"countryCode,omitempty"`
	RequestedDuration int            `json:"requestedDuration,omitempty"`
	FeeAgreement      bool           `json:"feeAgreement"`
	PaymentPromise    bool           `json:"paymentPromise"`
	Extra             map[string]any `json:"extra,omitempty"`
}

func (r SubmitRegistrationRequest) ToParams() (commands.SubmitRegistrationParams, error) {
	var extra json.RawMessage
	if len(r.Extra) > 0 {
		raw, err := json.Marshal(r.Extra)
		if err != nil {
			return commands.SubmitRegistrationParams{}, err
		}
		extra = raw
	}

	return commands.SubmitRegistrationParams{
		FirstName:         r.FirstName,
		Surname:           r.Surname,
		Email:             r.Email,
		PhoneNumber:       r.PhoneNumber,
		CountryCode:       r.CountryCode,
		RequestedDuration: r.RequestedDuration,
		FeeAgreement:      r.FeeAgreement,
		PaymentPromise:    r.PaymentPromise,
		Extra:             extra,
	}, nil
}

type SlotRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

func (s SlotRequest) ToDomain() (schedule.Slot, error) {
	return schedule.ReconstructSlot(s.Date, s.StartTime, s.EndTime)
}

type ReassignRequest struct {
	Assignments []SlotRequest `json:"assignments" binding:"required"`
	Reason      string        `json:"reason" binding:"required"`
}

func (r ReassignRequest) ToDomain() ([]schedule.Slot, string, error) {
	slots := make([]schedule.Slot, 0, len(r.Assignments))
	for _, s := range r.Assignments {
		slot, err := s.ToDomain()
		if err != nil {
			return nil, "", err
		}
		slots = append(slots, slot)
	}
	return slots, strings.TrimSpace(r.Reason), nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

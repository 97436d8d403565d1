//go:build unit || e2e

package builder

import (
	"time"

	domreg "restore-scheduler/internal/domain/registration"
	"restore-scheduler/internal/domain/schedule"
	reqdto "restore-scheduler/internal/handler/dto/request"
	"restore-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type RegistrationBuilder struct {
	ID                uuid.UUID
	FirstName         string
	Surname           string
	Email             string
	PhoneNumber       string
	CountryCode       string
	RequestedDuration int
	FeeAgreement      bool
	PaymentPromise    bool
	Assignments       []schedule.Slot
	Status            domreg.Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewRegistrationBuilder() *RegistrationBuilder {
	now := time.Now().UTC()
	return &RegistrationBuilder{
		ID:                uuid.New(),
		FirstName:         "Amina",
		Surname:           "Yusuf",
		Email:             "amina.yusuf@example.com",
		PhoneNumber:       "0712345678",
		CountryCode:       "+254",
		RequestedDuration: 2,
		FeeAgreement:      true,
		Status:            domreg.StatusScheduled,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (b *RegistrationBuilder) With(mutate func(*RegistrationBuilder)) *RegistrationBuilder {
	mutate(b)
	return b
}

func (b *RegistrationBuilder) WithAssignments(slots ...schedule.Slot) *RegistrationBuilder {
	b.Assignments = slots
	return b
}

// Build methods
func (b *RegistrationBuilder) BuildContact() (domreg.Contact, error) {
	return domreg.NewContact(b.FirstName, b.Surname, b.Email, b.PhoneNumber, b.CountryCode)
}

func (b *RegistrationBuilder) BuildDomain() (*domreg.Registration, error) {
	contact, err := b.BuildContact()
	if err != nil {
		return nil, err
	}
	return domreg.NewRegistration(contact, b.RequestedDuration, nil, b.CreatedAt), nil
}

func (b *RegistrationBuilder) BuildSubmitRequestDTO() reqdto.SubmitRegistrationRequest {
	return reqdto.SubmitRegistrationRequest{
		FirstName:         b.FirstName,
		Surname:           b.Surname,
		Email:             b.Email,
		PhoneNumber:       b.PhoneNumber,
		CountryCode:       b.CountryCode,
		RequestedDuration: b.RequestedDuration,
		FeeAgreement:      b.FeeAgreement,
		PaymentPromise:    b.PaymentPromise,
	}
}

func (b *RegistrationBuilder) BuildView() *queries.RegistrationView {
	return &queries.RegistrationView{
		ID:                  b.ID,
		FirstName:           b.FirstName,
		Surname:             b.Surname,
		Email:               b.Email,
		PhoneNumber:         b.PhoneNumber,
		CountryCode:         b.CountryCode,
		RequestedDuration:   b.RequestedDuration,
		Assignments:         slotViews(b.Assignments),
		Status:              b.Status.String(),
		ReassignmentHistory: []queries.ReassignmentView{},
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

func (b *RegistrationBuilder) BuildListItem() *queries.RegistrationListItem {
	return &queries.RegistrationListItem{
		ID:          b.ID,
		FirstName:   b.FirstName,
		Surname:     b.Surname,
		Email:       b.Email,
		Assignments: slotViews(b.Assignments),
		Status:      b.Status.String(),
		CreatedAt:   b.CreatedAt,
	}
}

func (b *RegistrationBuilder) BuildReassignRequestDTO() reqdto.ReassignRequest {
	assignments := make([]reqdto.SlotRequest, len(b.Assignments))
	for i, s := range b.Assignments {
		assignments[i] = reqdto.SlotRequest{
			Date:      s.DateString(),
			StartTime: s.StartTime(),
			EndTime:   s.EndTime(),
		}
	}
	return reqdto.ReassignRequest{
		Assignments: assignments,
		Reason:      "Counsellor unavailable",
	}
}

func slotViews(slots []schedule.Slot) []queries.SlotView {
	out := make([]queries.SlotView, len(slots))
	for i, s := range slots {
		out[i] = queries.SlotView{Date: s.DateString(), StartTime: s.StartTime(), EndTime: s.EndTime()}
	}
	return out
}

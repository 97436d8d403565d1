package queries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type SlotView struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type ReassignmentView struct {
	Reason         string     `json:"reason"`
	OldAssignments []SlotView `json:"old_assignments"`
	Timestamp      time.Time  `json:"timestamp"`
}

type RegistrationView struct {
	ID                  uuid.UUID          `json:"id"`
	FirstName           string             `json:"first_name"`
	Surname             string             `json:"surname"`
	Email               string             `json:"email"`
	PhoneNumber         string             `json:"phone_number"`
	CountryCode         string             `json:"country_code,omitempty"`
	RequestedDuration   int                `json:"requested_duration"`
	Assignments         []SlotView         `json:"assignments"`
	Status              string             `json:"status"`
	ReassignmentHistory []ReassignmentView `json:"reassignment_history"`
	Extra               json.RawMessage    `json:"extra,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

type RegistrationListItem struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"first_name"`
	Surname     string     `json:"surname"`
	Email       string     `json:"email"`
	Assignments []SlotView `json:"assignments"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Status *string
}

type RegistrationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*RegistrationView, error)
	List(ctx context.Context, filter ListFilter) ([]*RegistrationListItem, error)
	// ListAnomalies surfaces scheduled registrations with no assignments
	// for manual reassignment.
	ListAnomalies(ctx context.Context) ([]*RegistrationListItem, error)
}

type RegistrationViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RegistrationView, error)
	FindByFilter(ctx context.Context, filter ListFilter) ([]*RegistrationListItem, error)
	FindScheduledWithoutAssignments(ctx context.Context) ([]*RegistrationListItem, error)
}

type registrationQueriesImpl struct {
	repo RegistrationViewRepo
}

func NewRegistrationQueries(repo RegistrationViewRepo) RegistrationQueries {
	return &registrationQueriesImpl{repo: repo}
}

func (q *registrationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*RegistrationView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *registrationQueriesImpl) List(ctx context.Context, filter ListFilter) ([]*RegistrationListItem, error) {
	return q.repo.FindByFilter(ctx, filter)
}

func (q *registrationQueriesImpl) ListAnomalies(ctx context.Context) ([]*RegistrationListItem, error) {
	return q.repo.FindScheduledWithoutAssignments(ctx)
}

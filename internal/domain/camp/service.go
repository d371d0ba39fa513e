package camp

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
	"github.com/bloodbank/bloodbank/internal/platform/db"
)

type Service struct {
	repo Repository
	txr  db.TxRunner

	// endOffsetDays > 0 derives a missing end date from the start date plus
	// this many days; 0 makes the end date a required input.
	endOffsetDays int
	now           func() time.Time
}

func NewService(repo Repository, txr db.TxRunner, endOffsetDays int) *Service {
	return &Service{repo: repo, txr: txr, endOffsetDays: endOffsetDays, now: time.Now}
}

type CreateInput struct {
	Title    string     `json:"title"`
	Street   string     `json:"street"`
	City     string     `json:"city"`
	State    string     `json:"state"`
	Pincode  string     `json:"pincode"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Capacity int        `json:"capacity"`
}

func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, in CreateInput) (*Camp, error) {
	var problems []string

	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(in.Street) == "" || strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.State) == "" || strings.TrimSpace(in.Pincode) == "" {
		problems = append(problems, "address (street, city, state, pincode) is required")
	}
	if in.StartsAt.IsZero() {
		problems = append(problems, "starts_at is required")
	}
	if in.Capacity <= 0 {
		problems = append(problems, "capacity must be positive")
	}

	var endsAt time.Time
	switch {
	case in.EndsAt != nil:
		endsAt = *in.EndsAt
	case s.endOffsetDays > 0:
		endsAt = in.StartsAt.AddDate(0, 0, s.endOffsetDays)
	default:
		problems = append(problems, "ends_at is required")
	}
	if !endsAt.IsZero() && !in.StartsAt.IsZero() && !endsAt.After(in.StartsAt) {
		problems = append(problems, "ends_at must be after starts_at")
	}

	if len(problems) > 0 {
		return nil, apperr.Validation("%s", strings.Join(problems, ", "))
	}

	c := &Camp{
		HospitalID: hospitalID,
		Title:      strings.TrimSpace(in.Title),
		Street:     strings.TrimSpace(in.Street),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		Pincode:    strings.TrimSpace(in.Pincode),
		StartsAt:   in.StartsAt,
		EndsAt:     endsAt,
		Capacity:   in.Capacity,
		Status:     StatusUpcoming,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Camp, error) {
	return s.repo.GetByID(ctx, id)
}

type UpdateInput struct {
	Title    *string    `json:"title,omitempty"`
	Street   *string    `json:"street,omitempty"`
	City     *string    `json:"city,omitempty"`
	State    *string    `json:"state,omitempty"`
	Pincode  *string    `json:"pincode,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Capacity *int       `json:"capacity,omitempty"`
}

// Update applies a partial edit. The acting hospital must own the camp;
// anything else is reported as not found so camp ids cannot be probed.
func (s *Service) Update(ctx context.Context, hospitalID, id uuid.UUID, in UpdateInput) (*Camp, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.HospitalID != hospitalID {
		return nil, apperr.NotFound("camp not found")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("title must not be empty")
		}
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Street != nil {
		c.Street = strings.TrimSpace(*in.Street)
	}
	if in.City != nil {
		c.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		c.State = strings.TrimSpace(*in.State)
	}
	if in.Pincode != nil {
		c.Pincode = strings.TrimSpace(*in.Pincode)
	}
	if in.StartsAt != nil {
		c.StartsAt = *in.StartsAt
	}
	if in.EndsAt != nil {
		c.EndsAt = *in.EndsAt
	}
	if in.Capacity != nil {
		if *in.Capacity <= 0 {
			return nil, apperr.Validation("capacity must be positive")
		}
		c.Capacity = *in.Capacity
	}
	if !c.EndsAt.After(c.StartsAt) {
		return nil, apperr.Validation("ends_at must be after starts_at")
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	return s.repo.Delete(ctx, hospitalID, id)
}

// ChangeStatus moves the camp to any of the four known states. Only
// membership is validated; the from/to pair is not restricted.
func (s *Service) ChangeStatus(ctx context.Context, hospitalID, id uuid.UUID, newStatus string) (*Camp, error) {
	st := Status(newStatus)
	if !st.Valid() {
		return nil, apperr.Validation("invalid status: %q", newStatus)
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.HospitalID != hospitalID {
		return nil, apperr.NotFound("camp not found")
	}

	c.Status = st
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RegisterDonor appends a (donor, now) registration. The camp row is locked
// for the duration so the capacity check and the insert are atomic under
// concurrent registrations.
func (s *Service) RegisterDonor(ctx context.Context, campID, donorID uuid.UUID) (*Registration, error) {
	reg := &Registration{CampID: campID, DonorID: donorID, RegisteredAt: s.now()}

	err := s.txr.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetForUpdate(ctx, campID)
		if err != nil {
			return err
		}

		count, err := s.repo.CountRegistrations(ctx, campID)
		if err != nil {
			return err
		}
		if count >= c.Capacity {
			return apperr.InvalidState("camp is full: capacity %d reached", c.Capacity)
		}

		return s.repo.AddRegistration(ctx, reg)
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *Service) List(ctx context.Context, f Filter, sort Sort, limit, offset int) ([]*Camp, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("invalid status: %q", f.Status)
	}
	return s.repo.List(ctx, f, sort, limit, offset)
}

func (s *Service) Registrations(ctx context.Context, campID uuid.UUID) ([]*Registration, error) {
	if _, err := s.repo.GetByID(ctx, campID); err != nil {
		return nil, err
	}
	return s.repo.ListRegistrations(ctx, campID)
}

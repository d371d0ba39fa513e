package camp

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
)

// -- Mock Repository --

type mockRepo struct {
	camps         map[uuid.UUID]*Camp
	registrations map[uuid.UUID]*Registration
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		camps:         make(map[uuid.UUID]*Camp),
		registrations: make(map[uuid.UUID]*Registration),
	}
}

func (m *mockRepo) Create(_ context.Context, c *Camp) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	m.camps[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Camp, error) {
	c, ok := m.camps[id]
	if !ok {
		return nil, apperr.NotFound("camp not found")
	}
	return c, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*Camp, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRepo) Update(_ context.Context, c *Camp) error {
	if _, ok := m.camps[c.ID]; !ok {
		return apperr.NotFound("camp not found")
	}
	m.camps[c.ID] = c
	return nil
}

func (m *mockRepo) Delete(_ context.Context, hospitalID, id uuid.UUID) error {
	c, ok := m.camps[id]
	if !ok || c.HospitalID != hospitalID {
		return apperr.NotFound("camp not found")
	}
	delete(m.camps, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, sort Sort, limit, offset int) ([]*Camp, int, error) {
	var result []*Camp
	for _, c := range m.camps {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.HospitalID != uuid.Nil && c.HospitalID != f.HospitalID {
			continue
		}
		result = append(result, c)
	}
	return result, len(result), nil
}

func (m *mockRepo) AddRegistration(_ context.Context, reg *Registration) error {
	for _, r := range m.registrations {
		if r.CampID == reg.CampID && r.DonorID == reg.DonorID {
			return apperr.Conflict("donor already registered for this camp")
		}
	}
	reg.ID = uuid.New()
	m.registrations[reg.ID] = reg
	return nil
}

func (m *mockRepo) CountRegistrations(_ context.Context, campID uuid.UUID) (int, error) {
	count := 0
	for _, r := range m.registrations {
		if r.CampID == campID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) ListRegistrations(_ context.Context, campID uuid.UUID) ([]*Registration, error) {
	var result []*Registration
	for _, r := range m.registrations {
		if r.CampID == campID {
			result = append(result, r)
		}
	}
	return result, nil
}

// fakeTxRunner runs the callback without a real transaction.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// -- Tests --

var campStart = time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)

func newTestService(endOffsetDays int) *Service {
	return NewService(newMockRepo(), fakeTxRunner{}, endOffsetDays)
}

func timep(t time.Time) *time.Time { return &t }

func validInput() CreateInput {
	end := campStart.Add(8 * time.Hour)
	return CreateInput{
		Title:    "Summer Blood Drive",
		Street:   "12 Main Rd",
		City:     "Chennai",
		State:    "TN",
		Pincode:  "600001",
		StartsAt: campStart,
		EndsAt:   &end,
		Capacity: 50,
	}
}

func TestCreateCamp(t *testing.T) {
	svc := newTestService(0)

	c, err := svc.Create(context.Background(), uuid.New(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if c.Status != StatusUpcoming {
		t.Errorf("expected status upcoming, got %s", c.Status)
	}
}

func TestCreateCamp_MissingFields(t *testing.T) {
	svc := newTestService(0)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{})
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateCamp_EndDateRequired(t *testing.T) {
	svc := newTestService(0)

	in := validInput()
	in.EndsAt = nil
	_, err := svc.Create(context.Background(), uuid.New(), in)
	if err == nil {
		t.Fatal("expected error for missing ends_at")
	}
}

func TestCreateCamp_EndDateDerived(t *testing.T) {
	svc := newTestService(1)

	in := validInput()
	in.EndsAt = nil
	c, err := svc.Create(context.Background(), uuid.New(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.EndsAt.Equal(campStart.AddDate(0, 0, 1)) {
		t.Errorf("expected derived end date, got %v", c.EndsAt)
	}
}

func TestCreateCamp_EndBeforeStart(t *testing.T) {
	svc := newTestService(0)

	in := validInput()
	in.EndsAt = timep(campStart.Add(-time.Hour))
	if _, err := svc.Create(context.Background(), uuid.New(), in); err == nil {
		t.Error("expected error for end before start")
	}

	in.EndsAt = timep(campStart)
	if _, err := svc.Create(context.Background(), uuid.New(), in); err == nil {
		t.Error("expected error for end equal to start")
	}
}

func TestUpdateCamp_OtherHospitalNotFound(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()

	c, err := svc.Create(ctx, uuid.New(), validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	title := "Renamed"
	_, err = svc.Update(ctx, uuid.New(), c.ID, UpdateInput{Title: &title})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found for foreign hospital, got %v", err)
	}
}

func TestUpdateCamp_DateConsistency(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()
	hospital := uuid.New()

	c, err := svc.Create(ctx, hospital, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Update(ctx, hospital, c.ID, UpdateInput{StartsAt: timep(c.EndsAt.Add(time.Hour))})
	if err == nil {
		t.Error("expected error when moving start past end")
	}
}

func TestChangeStatus(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()
	hospital := uuid.New()

	c, err := svc.Create(ctx, hospital, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Transitions are unrestricted within the known set.
	for _, st := range []string{"ongoing", "completed", "cancelled", "upcoming"} {
		updated, err := svc.ChangeStatus(ctx, hospital, c.ID, st)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", st, err)
		}
		if string(updated.Status) != st {
			t.Errorf("expected status %s, got %s", st, updated.Status)
		}
	}

	if _, err := svc.ChangeStatus(ctx, hospital, c.ID, "archived"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestRegisterDonor(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()

	c, err := svc.Create(ctx, uuid.New(), validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	reg, err := svc.RegisterDonor(ctx, c.ID, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.ID == uuid.Nil {
		t.Error("expected registration ID to be set")
	}
}

func TestRegisterDonor_Duplicate(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()

	c, err := svc.Create(ctx, uuid.New(), validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	donor := uuid.New()
	if _, err := svc.RegisterDonor(ctx, c.ID, donor); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err = svc.RegisterDonor(ctx, c.ID, donor)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("expected conflict for duplicate registration, got %v", err)
	}
}

func TestRegisterDonor_CampFull(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()

	in := validInput()
	in.Capacity = 2
	c, err := svc.Create(ctx, uuid.New(), in)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.RegisterDonor(ctx, c.ID, uuid.New()); err != nil {
			t.Fatalf("registration %d failed: %v", i, err)
		}
	}

	_, err = svc.RegisterDonor(ctx, c.ID, uuid.New())
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("expected invalid state for full camp, got %v", err)
	}
}

func TestRegisterDonor_UnknownCamp(t *testing.T) {
	svc := newTestService(0)

	_, err := svc.RegisterDonor(context.Background(), uuid.New(), uuid.New())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRegistrations_UnknownCamp(t *testing.T) {
	svc := newTestService(0)

	_, err := svc.Registrations(context.Background(), uuid.New())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestListCamps_InvalidStatus(t *testing.T) {
	svc := newTestService(0)

	_, _, err := svc.List(context.Background(), Filter{Status: Status("archived")}, Sort{}, 20, 0)
	if err == nil {
		t.Fatal("expected error for invalid status filter")
	}
}

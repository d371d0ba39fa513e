package blood

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
	"github.com/bloodbank/bloodbank/pkg/bloodtype"
)

type Service struct {
	repo      Repository
	shelfLife time.Duration
	now       func() time.Time
}

// NewService builds the inventory service. shelfLifeDays is the fixed window
// after collection after which a unit is considered expired.
func NewService(repo Repository, shelfLifeDays int) *Service {
	return &Service{
		repo:      repo,
		shelfLife: time.Duration(shelfLifeDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

type AddInput struct {
	BloodType   string     `json:"blood_type"`
	Quantity    int        `json:"quantity"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
}

// Add creates an available unit. The expiration date is always derived from
// the collection date plus the shelf-life window.
func (s *Service) Add(ctx context.Context, facilityID uuid.UUID, in AddInput) (*Unit, error) {
	bt, err := bloodtype.Parse(in.BloodType)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if in.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive, got %d", in.Quantity)
	}

	collected := s.now()
	if in.CollectedAt != nil {
		collected = *in.CollectedAt
	}

	u := &Unit{
		FacilityID:  facilityID,
		BloodType:   bt,
		Quantity:    in.Quantity,
		CollectedAt: collected,
		ExpiresAt:   collected.Add(s.shelfLife),
		Status:      StatusAvailable,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, facilityID, id uuid.UUID) (*Unit, error) {
	return s.repo.GetByID(ctx, facilityID, id)
}

type UpdateInput struct {
	BloodType   *string    `json:"blood_type,omitempty"`
	Quantity    *int       `json:"quantity,omitempty"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

// Update applies only the fields present in the request. A changed
// collection date invalidates the stored expiration, which is recomputed
// rather than left stale.
func (s *Service) Update(ctx context.Context, facilityID, id uuid.UUID, in UpdateInput) (*Unit, error) {
	u, err := s.repo.GetByID(ctx, facilityID, id)
	if err != nil {
		return nil, err
	}

	if in.BloodType != nil {
		bt, err := bloodtype.Parse(*in.BloodType)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		u.BloodType = bt
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, apperr.Validation("quantity must not be negative, got %d", *in.Quantity)
		}
		u.Quantity = *in.Quantity
	}
	if in.CollectedAt != nil {
		u.CollectedAt = *in.CollectedAt
		u.ExpiresAt = u.CollectedAt.Add(s.shelfLife)
	}
	if in.Status != nil {
		st := Status(*in.Status)
		if !st.Valid() {
			return nil, apperr.Validation("invalid status: %q", *in.Status)
		}
		u.Status = st
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// MarkUsed consumes a unit. Without usedQuantity the whole unit is marked
// used; with it, the quantity is decremented and the status flips to used
// only when the quantity reaches exactly zero. Units that are not available
// or already past expiry are rejected, and repeating the call on a used
// unit fails the same way every time.
func (s *Service) MarkUsed(ctx context.Context, facilityID, id uuid.UUID, usedQuantity *int) (*Unit, error) {
	u, err := s.repo.GetByID(ctx, facilityID, id)
	if err != nil {
		return nil, err
	}

	if u.Status != StatusAvailable {
		return nil, apperr.InvalidState("blood unit is %s, not available", u.Status)
	}
	if u.ExpiredAt(s.now()) {
		return nil, apperr.InvalidState("blood unit expired on %s", u.ExpiresAt.Format("2006-01-02"))
	}

	if usedQuantity == nil {
		u.Status = StatusUsed
	} else {
		used := *usedQuantity
		if used <= 0 {
			return nil, apperr.Validation("used quantity must be positive, got %d", used)
		}
		if used > u.Quantity {
			return nil, apperr.Validation("used quantity %d exceeds available quantity %d", used, u.Quantity)
		}
		u.Quantity -= used
		if u.Quantity == 0 {
			u.Status = StatusUsed
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, facilityID uuid.UUID, f Filter, limit, offset int) ([]*Unit, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("invalid status: %q", f.Status)
	}
	if f.BloodType != "" && !f.BloodType.Valid() {
		return nil, 0, apperr.Validation("invalid blood type: %q", f.BloodType)
	}
	return s.repo.List(ctx, facilityID, f, limit, offset)
}

// Summary aggregates available, non-expired stock per blood type.
func (s *Service) Summary(ctx context.Context, facilityID uuid.UUID) ([]TypeSummary, error) {
	return s.repo.Summary(ctx, facilityID, s.now())
}

// ListExpired returns units past their expiration date, soonest first.
func (s *Service) ListExpired(ctx context.Context, facilityID uuid.UUID) ([]*Unit, error) {
	return s.repo.ListExpired(ctx, facilityID, s.now())
}

// SweepExpired marks available units past expiry as expired and returns the
// number of units swept.
func (s *Service) SweepExpired(ctx context.Context, facilityID uuid.UUID) (int, error) {
	return s.repo.SweepExpired(ctx, facilityID, s.now())
}

func (s *Service) Delete(ctx context.Context, facilityID, id uuid.UUID) error {
	return s.repo.Delete(ctx, facilityID, id)
}

// DebitStock consumes the given number of units of one blood type from a
// facility's available, non-expired stock, oldest collection first. It must
// run inside the caller's transaction; partially drained units keep status
// available, fully drained units flip to used. Insufficient stock fails the
// whole operation.
func (s *Service) DebitStock(ctx context.Context, facilityID uuid.UUID, bt bloodtype.BloodType, units int) error {
	if units <= 0 {
		return apperr.Validation("units must be positive, got %d", units)
	}

	stock, err := s.repo.ListAvailableForUpdate(ctx, facilityID, bt, s.now())
	if err != nil {
		return err
	}

	remaining := units
	for _, u := range stock {
		if remaining == 0 {
			break
		}
		take := u.Quantity
		if take > remaining {
			take = remaining
		}
		u.Quantity -= take
		if u.Quantity == 0 {
			u.Status = StatusUsed
		}
		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}
		remaining -= take
	}

	if remaining > 0 {
		return apperr.InvalidState("insufficient %s stock: %d unit(s) short", bt, remaining)
	}
	return nil
}

// CreditStock adds transferred units as a fresh available record for the
// receiving facility.
func (s *Service) CreditStock(ctx context.Context, facilityID uuid.UUID, bt bloodtype.BloodType, units int) error {
	if units <= 0 {
		return apperr.Validation("units must be positive, got %d", units)
	}
	now := s.now()
	return s.repo.Create(ctx, &Unit{
		FacilityID:  facilityID,
		BloodType:   bt,
		Quantity:    units,
		CollectedAt: now,
		ExpiresAt:   now.Add(s.shelfLife),
		Status:      StatusAvailable,
	})
}

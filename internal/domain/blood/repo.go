package blood

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank/pkg/bloodtype"
)

// Filter narrows a unit listing. Zero values mean "no filter".
type Filter struct {
	Status    Status
	BloodType bloodtype.BloodType
}

type Repository interface {
	Create(ctx context.Context, u *Unit) error
	// GetByID is scoped to the owning facility: a unit belonging to another
	// facility is reported as not found.
	GetByID(ctx context.Context, facilityID, id uuid.UUID) (*Unit, error)
	Update(ctx context.Context, u *Unit) error
	Delete(ctx context.Context, facilityID, id uuid.UUID) error
	List(ctx context.Context, facilityID uuid.UUID, f Filter, limit, offset int) ([]*Unit, int, error)
	Summary(ctx context.Context, facilityID uuid.UUID, now time.Time) ([]TypeSummary, error)
	ListExpired(ctx context.Context, facilityID uuid.UUID, now time.Time) ([]*Unit, error)
	SweepExpired(ctx context.Context, facilityID uuid.UUID, now time.Time) (int, error)
	// ListAvailableForUpdate locks and returns available, non-expired units
	// of one blood type, oldest collection first. Callers must hold a
	// transaction on the context.
	ListAvailableForUpdate(ctx context.Context, facilityID uuid.UUID, bt bloodtype.BloodType, now time.Time) ([]*Unit, error)
}

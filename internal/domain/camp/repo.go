package camp

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a camp listing. Zero values mean "no filter"; Search
// matches title and city case-insensitively.
type Filter struct {
	Status     Status
	HospitalID uuid.UUID
	Search     string
}

// Sort names a whitelisted sort column and direction.
type Sort struct {
	By         string // "date", "title", or "capacity"
	Descending bool
}

type Repository interface {
	Create(ctx context.Context, c *Camp) error
	GetByID(ctx context.Context, id uuid.UUID) (*Camp, error)
	// GetForUpdate locks the camp row; callers must hold a transaction on
	// the context.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Camp, error)
	Update(ctx context.Context, c *Camp) error
	// Delete is scoped to the owning hospital; a camp owned by another
	// hospital is reported as not found.
	Delete(ctx context.Context, hospitalID, id uuid.UUID) error
	List(ctx context.Context, f Filter, sort Sort, limit, offset int) ([]*Camp, int, error)
	AddRegistration(ctx context.Context, reg *Registration) error
	CountRegistrations(ctx context.Context, campID uuid.UUID) (int, error)
	ListRegistrations(ctx context.Context, campID uuid.UUID) ([]*Registration, error)
}

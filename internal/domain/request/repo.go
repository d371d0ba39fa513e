package request

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a request listing to one side of the exchange and
// optionally one status.
type Filter struct {
	HospitalID uuid.UUID
	LabID      uuid.UUID
	Status     Status
}

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	// GetForUpdate locks the request row; callers must hold a transaction
	// on the context.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Request, error)
	Update(ctx context.Context, r *Request) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Request, int, error)
}

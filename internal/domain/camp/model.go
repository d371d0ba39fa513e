package camp

import (
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of camp states. The transition graph is
// deliberately unrestricted: owners may move a camp between any two states
// through an explicit status change, trading auditability for operational
// flexibility.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Camp maps to the camps table: a scheduled donation event owned by one
// hospital.
type Camp struct {
	ID         uuid.UUID `db:"id" json:"id"`
	HospitalID uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Title      string    `db:"title" json:"title"`
	Street     string    `db:"street" json:"street"`
	City       string    `db:"city" json:"city"`
	State      string    `db:"state" json:"state"`
	Pincode    string    `db:"pincode" json:"pincode"`
	StartsAt   time.Time `db:"starts_at" json:"starts_at"`
	EndsAt     time.Time `db:"ends_at" json:"ends_at"`
	Capacity   int       `db:"capacity" json:"capacity"`
	Status     Status    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	// RegisteredCount is populated on reads from the registrations table.
	RegisteredCount int `db:"registered_count" json:"registered_count"`
}

// Registration is one (donor, registeredAt) pair for a camp.
type Registration struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CampID       uuid.UUID `db:"camp_id" json:"camp_id"`
	DonorID      uuid.UUID `db:"donor_id" json:"donor_id"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank/pkg/bloodtype"
)

// Status is the request state machine: pending may move to accepted or
// rejected exactly once; both outcomes are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined out of s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Request maps to the blood_requests table: a hospital's ask to a lab for a
// quantity of one blood type.
type Request struct {
	ID          uuid.UUID           `db:"id" json:"id"`
	HospitalID  uuid.UUID           `db:"hospital_id" json:"hospital_id"`
	LabID       uuid.UUID           `db:"lab_id" json:"lab_id"`
	BloodType   bloodtype.BloodType `db:"blood_type" json:"blood_type"`
	Units       int                 `db:"units" json:"units"`
	Status      Status              `db:"status" json:"status"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time          `db:"processed_at" json:"processed_at,omitempty"`
}

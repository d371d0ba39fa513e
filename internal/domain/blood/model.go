package blood

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank/pkg/bloodtype"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusUsed      Status = "used"
	StatusExpired   Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusUsed, StatusExpired:
		return true
	}
	return false
}

// Unit maps to the blood_units table: one inventory record of a given blood
// type held by a facility. Quantity is an integer unit count; there are no
// fractional units.
type Unit struct {
	ID          uuid.UUID           `db:"id" json:"id"`
	FacilityID  uuid.UUID           `db:"facility_id" json:"facility_id"`
	BloodType   bloodtype.BloodType `db:"blood_type" json:"blood_type"`
	Quantity    int                 `db:"quantity" json:"quantity"`
	CollectedAt time.Time           `db:"collected_at" json:"collected_at"`
	ExpiresAt   time.Time           `db:"expires_at" json:"expires_at"`
	Status      Status              `db:"status" json:"status"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
}

// ExpiredAt reports whether the unit's shelf life has elapsed: the
// expiration instant is strictly before now.
func (u *Unit) ExpiredAt(now time.Time) bool {
	return u.ExpiresAt.Before(now)
}

// TypeSummary is one row of the inventory summary: available, non-expired
// stock aggregated per blood type.
type TypeSummary struct {
	BloodType     bloodtype.BloodType `json:"blood_type"`
	TotalQuantity int                 `json:"total_quantity"`
	UnitCount     int                 `json:"unit_count"`
}

package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank/pkg/bloodtype"
)

// Role is the closed set of account roles. Which optional fields are
// mandatory depends on the role; see requiredFieldErrors.
type Role string

const (
	RoleDonor    Role = "donor"
	RoleHospital Role = "hospital"
	RoleLab      Role = "lab"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleHospital, RoleLab, RoleAdmin:
		return true
	}
	return false
}

// Facility reports whether accounts of this role hold blood inventory
// and carry a license number.
func (r Role) Facility() bool {
	return r == RoleHospital || r == RoleLab
}

// Account maps to the accounts table.
type Account struct {
	ID            uuid.UUID            `db:"id" json:"id"`
	Role          Role                 `db:"role" json:"role"`
	Name          string               `db:"name" json:"name"`
	Email         string               `db:"email" json:"email"`
	PasswordHash  string               `db:"password_hash" json:"-"`
	Phone         *string              `db:"phone" json:"phone,omitempty"`
	Street        *string              `db:"street" json:"street,omitempty"`
	City          *string              `db:"city" json:"city,omitempty"`
	State         *string              `db:"state" json:"state,omitempty"`
	Pincode       *string              `db:"pincode" json:"pincode,omitempty"`
	BloodType     *bloodtype.BloodType `db:"blood_type" json:"blood_type,omitempty"`
	LicenseNumber *string              `db:"license_number" json:"license_number,omitempty"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `db:"updated_at" json:"updated_at"`
}

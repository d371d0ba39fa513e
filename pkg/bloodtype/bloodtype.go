// Package bloodtype holds the closed set of ABO/Rh blood groups shared by
// the inventory, request, and account domains.
package bloodtype

import "fmt"

type BloodType string

const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
)

// All lists every blood type in ascending lexical order, matching the
// ordering of the inventory summary.
func All() []BloodType {
	return []BloodType{APositive, ANegative, ABPositive, ABNegative, BPositive, BNegative, OPositive, ONegative}
}

func (b BloodType) Valid() bool {
	switch b {
	case APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative:
		return true
	}
	return false
}

func (b BloodType) String() string { return string(b) }

// Parse validates a raw string as a blood type.
func Parse(s string) (BloodType, error) {
	b := BloodType(s)
	if !b.Valid() {
		return "", fmt.Errorf("invalid blood type: %q", s)
	}
	return b, nil
}

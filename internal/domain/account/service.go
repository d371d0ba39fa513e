package account

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
	"github.com/bloodbank/bloodbank/internal/platform/auth"
	"github.com/bloodbank/bloodbank/pkg/bloodtype"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo   Repository
	issuer *auth.Issuer
	now    func() time.Time
}

func NewService(repo Repository, issuer *auth.Issuer) *Service {
	return &Service{repo: repo, issuer: issuer, now: time.Now}
}

// RegisterInput carries the registration form. Which optional fields are
// required depends on Role.
type RegisterInput struct {
	Role          Role    `json:"role"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	Phone         *string `json:"phone,omitempty"`
	Street        *string `json:"street,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Pincode       *string `json:"pincode,omitempty"`
	BloodType     *string `json:"blood_type,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
}

// requiredFieldErrors checks the role-conditional required fields. The
// switch is exhaustive over the Role enum so a new role cannot be added
// without deciding its requirements here.
func requiredFieldErrors(in RegisterInput) []string {
	var missing []string
	blank := func(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

	switch in.Role {
	case RoleDonor:
		if blank(in.Phone) {
			missing = append(missing, "phone is required")
		}
		if blank(in.BloodType) {
			missing = append(missing, "blood_type is required")
		}
	case RoleHospital, RoleLab:
		if blank(in.Phone) {
			missing = append(missing, "phone is required")
		}
		if blank(in.Street) || blank(in.City) || blank(in.State) || blank(in.Pincode) {
			missing = append(missing, "address (street, city, state, pincode) is required")
		}
		if blank(in.LicenseNumber) {
			missing = append(missing, "license_number is required")
		}
	case RoleAdmin:
		// Admins only need the identity fields.
	}
	return missing
}

// Register creates an account and returns it together with a bearer token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, string, error) {
	var problems []string

	if !in.Role.Valid() {
		problems = append(problems, "role must be one of donor, hospital, lab, admin")
	}
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !emailPattern.MatchString(in.Email) {
		problems = append(problems, "email is invalid")
	}
	if len(in.Password) < minPasswordLength {
		problems = append(problems, "password must be at least 6 characters")
	}
	if in.Role.Valid() {
		problems = append(problems, requiredFieldErrors(in)...)
	}

	var bt *bloodtype.BloodType
	if in.BloodType != nil && *in.BloodType != "" {
		parsed, err := bloodtype.Parse(*in.BloodType)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			bt = &parsed
		}
	}

	if len(problems) > 0 {
		return nil, "", apperr.Validation("%s", strings.Join(problems, ", "))
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	a := &Account{
		Role:          in.Role,
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:  hash,
		Phone:         in.Phone,
		Street:        in.Street,
		City:          in.City,
		State:         in.State,
		Pincode:       in.Pincode,
		BloodType:     bt,
		LicenseNumber: in.LicenseNumber,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(a.ID, string(a.Role), a.Email, s.now())
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return a, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password fail identically so the response does not reveal which accounts
// exist.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.Validation("email and password are required")
	}

	a, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	if !auth.CheckPassword(a.PasswordHash, password) {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	token, err := s.issuer.Issue(a.ID, string(a.Role), a.Email, s.now())
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return a, token, nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

// ProfileUpdate carries a partial profile edit. Nil fields are untouched;
// role and email are immutable.
type ProfileUpdate struct {
	Name          *string `json:"name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Street        *string `json:"street,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Pincode       *string `json:"pincode,omitempty"`
	BloodType     *string `json:"blood_type,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		a.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		a.Phone = upd.Phone
	}
	if upd.Street != nil {
		a.Street = upd.Street
	}
	if upd.City != nil {
		a.City = upd.City
	}
	if upd.State != nil {
		a.State = upd.State
	}
	if upd.Pincode != nil {
		a.Pincode = upd.Pincode
	}
	if upd.BloodType != nil {
		bt, err := bloodtype.Parse(*upd.BloodType)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		a.BloodType = &bt
	}
	if upd.LicenseNumber != nil {
		if !a.Role.Facility() {
			return nil, apperr.Validation("license_number applies only to hospital and lab accounts")
		}
		a.LicenseNumber = upd.LicenseNumber
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

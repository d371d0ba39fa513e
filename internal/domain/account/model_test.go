package account

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleDonor, RoleHospital, RoleLab, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	for _, r := range []Role{"", "nurse", "Donor"} {
		if r.Valid() {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}

func TestRoleFacility(t *testing.T) {
	for _, r := range []Role{RoleDonor, RoleAdmin} {
		if r.Facility() {
			t.Errorf("expected %s not to be a facility role", r)
		}
	}
	for _, r := range []Role{RoleHospital, RoleLab} {
		if !r.Facility() {
			t.Errorf("expected %s to be a facility role", r)
		}
	}
}

func TestAccountJSON_OmitsPasswordHash(t *testing.T) {
	a := &Account{Name: "Ravi", Email: "ravi@example.com", PasswordHash: "bcrypt-hash"}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "bcrypt-hash") || strings.Contains(string(data), "password") {
		t.Errorf("password hash leaked in JSON: %s", data)
	}
}

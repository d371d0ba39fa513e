package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret")
	accountID := uuid.New()
	now := time.Now()

	token, err := issuer.Issue(accountID, "hospital", "admin@cityhospital.com", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != accountID.String() {
		t.Errorf("expected subject %s, got %s", accountID, claims.Subject)
	}
	if claims.Role != "hospital" {
		t.Errorf("expected role hospital, got %s", claims.Role)
	}
	if claims.Email != "admin@cityhospital.com" {
		t.Errorf("expected email, got %s", claims.Email)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-one").Issue(uuid.New(), "donor", "d@example.com", time.Now())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := NewIssuer("secret-two").Parse(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestParse_Expired(t *testing.T) {
	issuer := NewIssuer("test-secret")
	issuedAt := time.Now().Add(-TokenTTL - time.Hour)

	token, err := issuer.Issue(uuid.New(), "donor", "d@example.com", issuedAt)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := NewIssuer("test-secret").Parse("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

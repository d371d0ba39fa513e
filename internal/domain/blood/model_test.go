package blood

import (
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusAvailable, StatusUsed, StatusExpired} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	for _, s := range []Status{"", "pending", "Available"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestUnitExpiredAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	u := &Unit{ExpiresAt: now}

	// Expiry is strict: a unit expiring exactly now is still usable.
	if u.ExpiredAt(now) {
		t.Error("unit expiring at now must not count as expired")
	}
	if !u.ExpiredAt(now.Add(time.Second)) {
		t.Error("unit must be expired one second past its expiry")
	}
	if u.ExpiredAt(now.Add(-time.Second)) {
		t.Error("unit must not be expired before its expiry")
	}
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func requestWithRole(t *testing.T, role string, mw echo.MiddlewareFunc) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		ctx := context.WithValue(req.Context(), RoleKey, role)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	mw := RequireRole("hospital", "lab")
	for _, role := range []string{"hospital", "lab"} {
		if err := requestWithRole(t, role, mw); err != nil {
			t.Errorf("role %s: unexpected error: %v", role, err)
		}
	}
}

func TestRequireRole_AdminAlwaysPasses(t *testing.T) {
	if err := requestWithRole(t, "admin", RequireRole("donor")); err != nil {
		t.Errorf("unexpected error for admin: %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	err := requestWithRole(t, "donor", RequireRole("hospital", "lab"))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestRequireRole_NoRole(t *testing.T) {
	err := requestWithRole(t, "", RequireRole("donor"))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403 without a role, got %v", err)
	}
}

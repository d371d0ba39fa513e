package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
	"github.com/bloodbank/bloodbank/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestRegisterHandler(t *testing.T) {
	h, e := newTestHandler()

	body := `{"role":"donor","name":"Ravi Kumar","email":"ravi@example.com","password":"secret1","phone":"9876543210","blood_type":"O+"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/register", body), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !resp.Success || resp.Token == "" || resp.User == nil {
		t.Errorf("unexpected response: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("password hash must not appear in the response")
	}
}

func TestRegisterHandler_AdminForbidden(t *testing.T) {
	h, e := newTestHandler()

	body := `{"role":"admin","name":"Root","email":"root@example.com","password":"secret1"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/register", body), rec)

	err := h.Register(c)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for admin self-registration, got %v", err)
	}
	if strings.Contains(rec.Body.String(), "token") {
		t.Error("no token must be issued for a rejected registration")
	}
}

func TestRegisterHandler_BadBody(t *testing.T) {
	h, e := newTestHandler()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/register", "{not json"), rec)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestLoginHandler(t *testing.T) {
	h, e := newTestHandler()

	if _, _, err := h.svc.Register(context.Background(), donorInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	body := `{"email":"ravi@example.com","password":"secret1"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/auth/login", body), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestProfileHandler(t *testing.T) {
	h, e := newTestHandler()

	a, _, err := h.svc.Register(context.Background(), donorInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	ctx := context.WithValue(req.Context(), auth.AccountIDKey, a.ID)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Profile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var got Account
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("expected account %s, got %s", a.ID, got.ID)
	}
}

func TestProfileHandler_UnknownAccount(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	ctx := context.WithValue(req.Context(), auth.AccountIDKey, uuid.New())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Profile(c); err == nil {
		t.Fatal("expected error for unknown account")
	}
}

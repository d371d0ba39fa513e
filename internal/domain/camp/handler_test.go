package camp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodbank/bloodbank/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService(0)), echo.New()
}

func actorContext(req *http.Request, accountID uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), auth.AccountIDKey, accountID)
	return req.WithContext(ctx)
}

func TestCreateCampHandler(t *testing.T) {
	h, e := newTestHandler()
	hospital := uuid.New()

	body := `{"title":"Summer Blood Drive","street":"12 Main Rd","city":"Chennai","state":"TN","pincode":"600001","starts_at":"2024-07-15T09:00:00Z","ends_at":"2024-07-15T17:00:00Z","capacity":50}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/camps", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = actorContext(req, hospital)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateCamp(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var got Camp
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if got.HospitalID != hospital {
		t.Errorf("expected camp owned by caller, got %s", got.HospitalID)
	}
	if got.Status != StatusUpcoming {
		t.Errorf("expected status upcoming, got %s", got.Status)
	}
}

func TestCreateCampHandler_BadBody(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/camps", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = actorContext(req, uuid.New())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateCamp(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestListCampsHandler_EmptySlice(t *testing.T) {
	h, e := newTestHandler()

	req := actorContext(httptest.NewRequest(http.MethodGet, "/api/v1/camps", nil), uuid.New())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListCamps(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty data array, got %s", rec.Body.String())
	}
}

func TestGetCampHandler_BadID(t *testing.T) {
	h, e := newTestHandler()

	req := actorContext(httptest.NewRequest(http.MethodGet, "/", nil), uuid.New())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetCamp(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestRegisterDonorHandler(t *testing.T) {
	h, e := newTestHandler()

	camp, err := h.svc.Create(context.Background(), uuid.New(), validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	donor := uuid.New()
	req := actorContext(httptest.NewRequest(http.MethodPost, "/", nil), donor)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(camp.ID.String())

	if err := h.RegisterDonor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var reg Registration
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if reg.DonorID != donor {
		t.Errorf("expected registration for caller, got %s", reg.DonorID)
	}
}

func TestListRegistrationsHandler(t *testing.T) {
	h, e := newTestHandler()
	hospital := uuid.New()

	camp, err := h.svc.Create(context.Background(), hospital, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := h.svc.RegisterDonor(context.Background(), camp.ID, uuid.New()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	req := actorContext(httptest.NewRequest(http.MethodGet, "/", nil), hospital)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(camp.ID.String())

	if err := h.ListRegistrations(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Registrations []*Registration `json:"registrations"`
		Count         int             `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Count != 1 || len(resp.Registrations) != 1 {
		t.Errorf("expected one registration, got %+v", resp)
	}
}

func TestDeleteCampHandler(t *testing.T) {
	h, e := newTestHandler()
	hospital := uuid.New()

	camp, err := h.svc.Create(context.Background(), hospital, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	req := actorContext(httptest.NewRequest(http.MethodDelete, "/", nil), hospital)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(camp.ID.String())

	if err := h.DeleteCamp(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("expected success envelope, got %s", rec.Body.String())
	}
}

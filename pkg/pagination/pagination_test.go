package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected defaults, got %+v", p)
	}
}

func TestFromContext_LimitOffset(t *testing.T) {
	p := paramsFor(t, "limit=10&offset=30")
	if p.Limit != 10 || p.Offset != 30 {
		t.Errorf("expected limit 10 offset 30, got %+v", p)
	}
}

func TestFromContext_PageWins(t *testing.T) {
	p := paramsFor(t, "page=3&limit=10&offset=99")
	if p.Limit != 10 || p.Offset != 20 {
		t.Errorf("expected page 3 to map to offset 20, got %+v", p)
	}
}

func TestFromContext_ClampsLimit(t *testing.T) {
	p := paramsFor(t, "limit=5000")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}

	p = paramsFor(t, "limit=-5&offset=-2")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected negatives normalized, got %+v", p)
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]string{"a", "b"}, 45, Params{Limit: 20, Offset: 20})
	if r.Page != 2 || r.Pages != 3 {
		t.Errorf("expected page 2 of 3, got page %d of %d", r.Page, r.Pages)
	}
	if !r.HasNext || !r.HasPrev {
		t.Error("expected both has_next and has_prev on a middle page")
	}
}

func TestNewResponse_LastPage(t *testing.T) {
	r := NewResponse(nil, 45, Params{Limit: 20, Offset: 40})
	if r.Page != 3 || r.HasNext {
		t.Errorf("expected final page without next, got %+v", r)
	}
}

func TestNewResponse_Empty(t *testing.T) {
	r := NewResponse(nil, 0, Params{Limit: 20})
	if r.Pages != 0 || r.HasNext || r.HasPrev {
		t.Errorf("expected empty response, got %+v", r)
	}
}

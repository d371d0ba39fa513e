package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRecovery_PanicBecomes500(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Recovery(zerolog.New(&buf))(func(echo.Context) error {
		panic("kaboom")
	})
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, "panic recovered") || !strings.Contains(line, "kaboom") {
		t.Errorf("expected panic log with cause, got %s", line)
	}
	if !strings.Contains(line, `"path":"/boom"`) {
		t.Errorf("expected request path in panic log, got %s", line)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func setupTenantEcho(handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(TenantContext())
	e.GET("/whoami", handler)
	return e
}

func TestTenantContext_ValidHeaders(t *testing.T) {
	var gotTenant, gotUser string
	e := setupTenantEcho(func(c echo.Context) error {
		gotTenant = TenantID(c)
		gotUser = UserID(c)
		return c.NoContent(http.StatusOK)
	})

	tenant := strings.Repeat("1", 32)
	user := strings.Repeat("2", 32)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Ax-Tenant-Id", tenant)
	req.Header.Set("Ax-User-Id", user)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if gotTenant != tenant || gotUser != user {
		t.Fatalf("context values not set: tenant=%q user=%q", gotTenant, gotUser)
	}
}

func TestTenantContext_RejectsBadHeaders(t *testing.T) {
	e := setupTenantEcho(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	cases := []struct {
		name   string
		tenant string
		user   string
	}{
		{"missing both", "", ""},
		{"missing user", strings.Repeat("a", 32), ""},
		{"tenant too short", strings.Repeat("a", 31), strings.Repeat("b", 32)},
		{"tenant uppercase", strings.ToUpper(strings.Repeat("ab", 16)), strings.Repeat("b", 32)},
		{"user non-hex", strings.Repeat("a", 32), strings.Repeat("z", 32)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.tenant != "" {
				req.Header.Set("Ax-Tenant-Id", tc.tenant)
			}
			if tc.user != "" {
				req.Header.Set("Ax-User-Id", tc.user)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d", rec.Code)
			}
		})
	}
}

func TestTenantID_EmptyWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if TenantID(c) != "" || UserID(c) != "" {
		t.Fatal("accessors must return empty strings when nothing was set")
	}
}

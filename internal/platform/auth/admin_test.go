package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type mockRoleLookup struct {
	roles map[string]string
	err   error
}

func (m *mockRoleLookup) RoleByEmail(_ context.Context, email string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	role, ok := m.roles[email]
	return role, ok, nil
}

func newLookup() *mockRoleLookup {
	return &mockRoleLookup{roles: map[string]string{
		"admin@x.com":   RoleAdmin,
		"regular@x.com": "",
		"nurse@x.com":   "nurse",
	}}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		policy DenyPolicy
		want   AuthorizationOutcome
	}{
		{"admin allowed", "admin@x.com", DenyEmpty, Allowed},
		{"admin allowed under forbidden policy", "admin@x.com", DenyForbidden, Allowed},
		{"regular user empty", "regular@x.com", DenyEmpty, DeniedEmpty},
		{"other role empty", "nurse@x.com", DenyEmpty, DeniedEmpty},
		{"unknown user empty", "ghost@x.com", DenyEmpty, DeniedEmpty},
		{"regular user forbidden", "regular@x.com", DenyForbidden, DeniedForbidden},
		{"unknown user forbidden", "ghost@x.com", DenyForbidden, DeniedForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Authorize(context.Background(), newLookup(), tt.policy, tt.email)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAuthorize_LookupFailure(t *testing.T) {
	lookup := &mockRoleLookup{err: errors.New("store down")}
	if _, err := Authorize(context.Background(), lookup, DenyEmpty, "admin@x.com"); err == nil {
		t.Fatal("expected lookup failure to surface as an error")
	}
}

func adminContext(email string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req = req.WithContext(WithEmail(req.Context(), email))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireAdmin_Allowed(t *testing.T) {
	c, rec := adminContext("admin@x.com")

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "secret list")
	}

	if err := RequireAdmin(newLookup(), DenyEmpty)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "secret list" {
		t.Errorf("expected handler output, got %q", rec.Body.String())
	}
}

func TestRequireAdmin_NonAdminGetsEmptyList(t *testing.T) {
	c, rec := adminContext("regular@x.com")

	handler := func(c echo.Context) error {
		t.Error("handler must not run for non-admin")
		return nil
	}

	if err := RequireAdmin(newLookup(), DenyEmpty)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty JSON list, got %q", rec.Body.String())
	}
}

func TestRequireAdmin_ForbiddenPolicy(t *testing.T) {
	c, _ := adminContext("regular@x.com")

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	err := RequireAdmin(newLookup(), DenyForbidden)(handler)(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestRequireAdmin_LookupFailureIsNotAllowed(t *testing.T) {
	c, _ := adminContext("admin@x.com")
	lookup := &mockRoleLookup{err: errors.New("store down")}

	handler := func(c echo.Context) error {
		t.Error("handler must not run when the role lookup fails")
		return nil
	}

	if err := RequireAdmin(lookup, DenyEmpty)(handler)(c); err == nil {
		t.Fatal("expected error")
	}
}

func TestRequireAdminWith_CustomEmptyAnswer(t *testing.T) {
	c, rec := adminContext("regular@x.com")

	empty := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"data": []interface{}{}, "total": 0})
	}
	handler := func(c echo.Context) error {
		t.Error("handler must not run for non-admin")
		return nil
	}

	if err := RequireAdminWith(newLookup(), DenyEmpty, empty)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"data":[],"total":0}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pagecms/internal/models"
)

// stubResolver implements CallerResolver with a fixed token table.
type stubResolver struct {
	callers map[string]*models.Caller
	err     error
}

func (s *stubResolver) Resolve(_ context.Context, token string) (*models.Caller, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.callers[token], nil
}

func adminCaller() *models.Caller {
	return &models.Caller{ID: uuid.New(), Name: "Admin", Role: models.RoleAdmin}
}

func TestLoadCaller(t *testing.T) {
	resolver := &stubResolver{callers: map[string]*models.Caller{
		"good-token": adminCaller(),
	}}

	var got *models.Caller
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CallerFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := LoadCaller(resolver)(inner)

	t.Run("resolves bearer token to caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got == nil {
			t.Fatal("expected caller in context")
		}
		if got.Role != models.RoleAdmin {
			t.Errorf("role: got %q, want admin", got.Role)
		}
	})

	t.Run("missing header leaves caller nil", func(t *testing.T) {
		got = adminCaller() // poison to prove it gets cleared
		req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got != nil {
			t.Error("expected nil caller for anonymous request")
		}
	})

	t.Run("unknown token leaves caller nil", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got != nil {
			t.Error("expected nil caller for unknown token")
		}
	})

	t.Run("malformed header is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
		req.Header.Set("Authorization", "Basic abc123")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if got != nil {
			t.Error("expected nil caller for non-bearer header")
		}
	})

	t.Run("resolver failure degrades to anonymous", func(t *testing.T) {
		failing := LoadCaller(&stubResolver{err: errors.New("valkey down")})(inner)
		req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := httptest.NewRecorder()
		failing.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
		if got != nil {
			t.Error("expected nil caller when resolver fails")
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(inner)

	t.Run("rejects anonymous caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/content", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"success":false`) {
			t.Errorf("expected failure envelope, got %q", rr.Body.String())
		}
	})

	t.Run("rejects editor caller", func(t *testing.T) {
		caller := &models.Caller{ID: uuid.New(), Name: "Editor", Role: models.RoleEditor}
		req := httptest.NewRequest(http.MethodPost, "/api/content", nil)
		req = req.WithContext(context.WithValue(req.Context(), CallerKey, caller))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rr.Code)
		}
	})

	t.Run("passes admin caller through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/content", nil)
		req = req.WithContext(context.WithValue(req.Context(), CallerKey, adminCaller()))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rotomdex/rotomdex/internal/handlers"
	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

type mockAuthService struct {
	ValidateSessionFunc func(ctx context.Context, token string) (*models.User, error)
	GetUserByIDFunc     func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (m *mockAuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if m.ValidateSessionFunc != nil {
		return m.ValidateSessionFunc(ctx, token)
	}
	return nil, services.ErrSessionNotFound
}

func (m *mockAuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, services.ErrUserNotFound
}

func userCapturingHandler(captured **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = handlers.GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_NoTokenPassesAnonymous(t *testing.T) {
	mw := NewAuthMiddleware(&mockAuthService{
		ValidateSessionFunc: func(ctx context.Context, token string) (*models.User, error) {
			t.Fatal("ValidateSession should not be called without a token")
			return nil, nil
		},
	})

	var captured *models.User
	req := httptest.NewRequest(http.MethodGet, "/api/social/feed", nil)
	rr := httptest.NewRecorder()
	mw.Authenticate(userCapturingHandler(&captured)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rr.Code)
	}
	if captured != nil {
		t.Error("anonymous request should carry no user")
	}
}

func TestAuthenticate_CookieSession(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "ash", Role: models.RoleMember}
	mw := NewAuthMiddleware(&mockAuthService{
		ValidateSessionFunc: func(ctx context.Context, token string) (*models.User, error) {
			if token != "cookie-token" {
				t.Errorf("expected cookie token, got %q", token)
			}
			return user, nil
		},
	})

	var captured *models.User
	req := httptest.NewRequest(http.MethodGet, "/api/social/feed", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "cookie-token"})
	rr := httptest.NewRecorder()
	mw.Authenticate(userCapturingHandler(&captured)).ServeHTTP(rr, req)

	if captured == nil || captured.ID != user.ID {
		t.Fatalf("expected user in context, got %v", captured)
	}
}

func TestAuthenticate_BearerFallback(t *testing.T) {
	mw := NewAuthMiddleware(&mockAuthService{
		ValidateSessionFunc: func(ctx context.Context, token string) (*models.User, error) {
			if token != "api-token" {
				t.Errorf("expected bearer token, got %q", token)
			}
			return &models.User{ID: uuid.New(), Role: models.RoleMember}, nil
		},
	})

	var captured *models.User
	req := httptest.NewRequest(http.MethodGet, "/api/social/feed", nil)
	req.Header.Set("Authorization", "Bearer api-token")
	rr := httptest.NewRecorder()
	mw.Authenticate(userCapturingHandler(&captured)).ServeHTTP(rr, req)

	if captured == nil {
		t.Fatal("expected user in context")
	}
}

func TestAuthenticate_InvalidSessionPassesAnonymous(t *testing.T) {
	mw := NewAuthMiddleware(&mockAuthService{})

	var captured *models.User
	req := httptest.NewRequest(http.MethodGet, "/api/social/feed", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "expired"})
	rr := httptest.NewRecorder()
	mw.Authenticate(userCapturingHandler(&captured)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rr.Code)
	}
	if captured != nil {
		t.Error("invalid session should pass through anonymous")
	}
}

func TestRequireAuth_Anonymous(t *testing.T) {
	mw := NewAuthMiddleware(&mockAuthService{})
	req := httptest.NewRequest(http.MethodGet, "/api/social/feed", nil)
	rr := httptest.NewRecorder()
	mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireAuth_Suspended(t *testing.T) {
	suspendedAt := time.Now().Add(-time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleMember, SuspendedAt: &suspendedAt}

	mw := NewAuthMiddleware(&mockAuthService{})
	req := httptest.NewRequest(http.MethodGet, "/api/social/feed", nil)
	req = req.WithContext(handlers.SetUserInContext(req.Context(), user))
	rr := httptest.NewRecorder()
	mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("suspended accounts must not reach handlers")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireAuth_Authenticated(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleMember}
	mw := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/social/feed", nil)
	req = req.WithContext(handlers.SetUserInContext(req.Context(), user))
	rr := httptest.NewRecorder()
	mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequireAdmin_Member(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleMember}
	mw := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stream/ticket", nil)
	req = req.WithContext(handlers.SetUserInContext(req.Context(), user))
	rr := httptest.NewRecorder()
	mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("members must not reach admin handlers")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireAdmin_Admin(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	mw := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stream/ticket", nil)
	req = req.WithContext(handlers.SetUserInContext(req.Context(), user))
	rr := httptest.NewRecorder()
	mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

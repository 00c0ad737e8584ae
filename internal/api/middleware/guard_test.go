package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/policy"
	"github.com/visioncare/clinic-portal/internal/core/ports"
)

type stubRecorder struct {
	events []domain.SessionEvent
}

func (r *stubRecorder) Record(ev domain.SessionEvent) { r.events = append(r.events, ev) }

type stubSessions struct {
	byProfile map[string]*domain.Identity
}

func (s *stubSessions) Restore(_ context.Context, profile string) *domain.Identity {
	return s.byProfile[profile]
}

func (s *stubSessions) Login(context.Context, string, string, string) (*domain.Identity, error) {
	return nil, nil
}

func (s *stubSessions) Logout(context.Context, string) error { return nil }

var (
	doctor  = &domain.Identity{ID: "1", Name: "Dr. Carlos Silva", Email: "dr.carlos@visioncare.com", Role: domain.RoleDoctor}
	staff   = &domain.Identity{ID: "2", Name: "Ana Secretária", Email: "ana@visioncare.com", Role: domain.RoleStaff}
	patient = &domain.Identity{ID: "3", Name: "João Paciente", Email: "joao@email.com", Role: domain.RolePatient}
)

func financesPolicy(t *testing.T) policy.RoutePolicy {
	t.Helper()
	p, ok := policy.DefaultTable().Lookup("/finances")
	if !ok {
		t.Fatalf("finances route missing from default table")
	}
	return p
}

func runGuard(t *testing.T, rp policy.RoutePolicy, id *domain.Identity, audit ports.AuditRecorder) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, rp.Path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ProfileKey, "profile-1")
	if id != nil {
		SetIdentity(c, id)
	}

	called := false
	handler := Guard(rp, audit)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestGuard_AllowsPermittedRole(t *testing.T) {
	rec, called := runGuard(t, financesPolicy(t), doctor, nil)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected render, got called=%v code=%d", called, rec.Code)
	}
}

func TestGuard_RedirectsUnauthenticatedToLogin(t *testing.T) {
	rec, called := runGuard(t, financesPolicy(t), nil, nil)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != policy.LoginPath {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestGuard_RedirectsForbiddenToFallback(t *testing.T) {
	doctorsOnly := policy.RoutePolicy{Path: "/clinic", View: "clinic", AllowedRoles: []domain.Role{domain.RoleDoctor}}

	cases := []struct {
		rp   policy.RoutePolicy
		id   *domain.Identity
		want string
	}{
		{financesPolicy(t), patient, policy.ReportsPath},
		{doctorsOnly, staff, policy.DashboardPath},
		{doctorsOnly, patient, policy.ReportsPath},
	}
	for _, tc := range cases {
		audit := &stubRecorder{}
		rec, called := runGuard(t, tc.rp, tc.id, audit)
		if called {
			t.Fatalf("%s on %s: should not reach next handler", tc.id.Role, tc.rp.Path)
		}
		if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != tc.want {
			t.Fatalf("%s on %s: expected redirect to %s, got %d %q", tc.id.Role, tc.rp.Path, tc.want, rec.Code, rec.Header().Get(echo.HeaderLocation))
		}
		if len(audit.events) != 1 || audit.events[0].Action != domain.ActionAccessDenied || audit.events[0].Path != tc.rp.Path {
			t.Fatalf("%s on %s: expected access_denied event, got %+v", tc.id.Role, tc.rp.Path, audit.events)
		}
	}
}

func TestGuard_StaffRendersFinances(t *testing.T) {
	rec, called := runGuard(t, financesPolicy(t), staff, nil)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected render, got called=%v code=%d", called, rec.Code)
	}
}

func TestGuard_UnauthenticatedIsNotAudited(t *testing.T) {
	audit := &stubRecorder{}
	runGuard(t, financesPolicy(t), nil, audit)
	if len(audit.events) != 0 {
		t.Fatalf("unexpected events: %+v", audit.events)
	}
}

func TestSession_RestoresIdentity(t *testing.T) {
	store := &stubSessions{byProfile: map[string]*domain.Identity{"profile-1": doctor}}

	cases := []struct {
		profile string
		want    *domain.Identity
	}{
		{"profile-1", doctor},
		{"profile-2", nil},
	}
	for _, tc := range cases {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set(ProfileKey, tc.profile)

		var got *domain.Identity
		handler := Session(store)(func(c echo.Context) error {
			got = IdentityFrom(c)
			return nil
		})
		if err := handler(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%s: got %+v want %+v", tc.profile, got, tc.want)
		}
	}
}

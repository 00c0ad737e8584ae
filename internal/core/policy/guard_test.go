package policy

import (
	"testing"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

func identity(role domain.Role) *domain.Identity {
	return &domain.Identity{ID: "x", Name: "X", Email: "x@example.com", Role: role}
}

func TestDecide_EmptyAllowedRendersForEveryRole(t *testing.T) {
	for _, role := range domain.Roles {
		got := Decide(identity(role), nil)
		if got.Decision != Render || got.State != StateAuthorized {
			t.Errorf("role=%s: expected render/authorized, got %+v", role, got)
		}
		if got.Target != "" {
			t.Errorf("role=%s: render must not carry a target, got %q", role, got.Target)
		}
	}
}

func TestDecide_RendersIffRoleInSet(t *testing.T) {
	sets := [][]domain.Role{
		{domain.RoleDoctor},
		{domain.RoleStaff},
		{domain.RolePatient},
		{domain.RoleDoctor, domain.RoleStaff},
		{domain.RoleDoctor, domain.RolePatient},
		{domain.RoleDoctor, domain.RoleStaff, domain.RolePatient},
	}

	for _, allowed := range sets {
		for _, role := range domain.Roles {
			member := false
			for _, r := range allowed {
				if r == role {
					member = true
				}
			}

			got := Decide(identity(role), allowed)
			if member != (got.Decision == Render) {
				t.Errorf("allowed=%v role=%s: member=%v but decision=%s", allowed, role, member, got.Decision)
			}
		}
	}
}

func TestDecide_NoIdentityAlwaysRedirectsToLogin(t *testing.T) {
	sets := [][]domain.Role{
		nil,
		{domain.RoleDoctor},
		{domain.RoleDoctor, domain.RoleStaff, domain.RolePatient},
	}
	for _, allowed := range sets {
		got := Decide(nil, allowed)
		want := Outcome{State: StateUnauthenticated, Decision: RedirectToLogin, Target: LoginPath}
		if got != want {
			t.Errorf("allowed=%v: expected %+v, got %+v", allowed, want, got)
		}
	}
}

func TestDecide_FallbackTargets(t *testing.T) {
	cases := []struct {
		role    domain.Role
		allowed []domain.Role
		target  string
	}{
		{domain.RolePatient, []domain.Role{domain.RoleDoctor, domain.RoleStaff}, ReportsPath},
		{domain.RoleDoctor, []domain.Role{domain.RolePatient}, DashboardPath},
		{domain.RoleStaff, []domain.Role{domain.RoleDoctor}, DashboardPath},
	}

	for _, tc := range cases {
		got := Decide(identity(tc.role), tc.allowed)
		if got.Decision != RedirectToFallback || got.State != StateForbidden {
			t.Errorf("role=%s: expected forbidden fallback, got %+v", tc.role, got)
		}
		if got.Target != tc.target {
			t.Errorf("role=%s: expected target %q, got %q", tc.role, tc.target, got.Target)
		}
	}
}

func TestDecide_Deterministic(t *testing.T) {
	id := identity(domain.RoleStaff)
	allowed := []domain.Role{domain.RoleDoctor}

	first := Decide(id, allowed)
	for i := 0; i < 100; i++ {
		if got := Decide(id, allowed); got != first {
			t.Fatalf("iteration %d: decision changed from %+v to %+v", i, first, got)
		}
	}
}

func TestDecide_DoesNotMutateInputs(t *testing.T) {
	id := identity(domain.RolePatient)
	before := *id
	allowed := []domain.Role{domain.RoleDoctor}

	_ = Decide(id, allowed)

	if *id != before {
		t.Fatalf("identity mutated: %+v", id)
	}
	if len(allowed) != 1 || allowed[0] != domain.RoleDoctor {
		t.Fatalf("allowed roles mutated: %v", allowed)
	}
}

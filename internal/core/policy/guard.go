// Package policy holds the portal's route permission matrix and the guard
// that evaluates an identity against it. Everything here is pure: no I/O,
// no clock, no shared mutable state.
package policy

import "github.com/visioncare/clinic-portal/internal/core/domain"

const (
	LoginPath     = "/login"
	DashboardPath = "/"
	ReportsPath   = "/reports"
)

// State is the guard state a navigation lands in.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthorized      State = "authorized"
	StateForbidden       State = "forbidden"
	// StatePublic marks views outside the policy table (login, not found).
	StatePublic State = "public"
)

// Decision is the action taken for a navigation.
type Decision string

const (
	Render             Decision = "render"
	RedirectToLogin    Decision = "redirect_to_login"
	RedirectToFallback Decision = "redirect_to_fallback"
)

// Outcome is the result of one guard evaluation. Target is empty for Render.
type Outcome struct {
	State    State    `json:"state"`
	Decision Decision `json:"decision"`
	Target   string   `json:"target,omitempty"`
}

// Redirects reports whether the outcome sends the caller elsewhere.
func (o Outcome) Redirects() bool { return o.Decision != Render }

// Decide evaluates identity against a route's allowed roles. An empty allowed
// set admits every authenticated role.
func Decide(identity *domain.Identity, allowed []domain.Role) Outcome {
	if identity == nil {
		return Outcome{State: StateUnauthenticated, Decision: RedirectToLogin, Target: LoginPath}
	}
	if len(allowed) == 0 || identity.HasRole(allowed...) {
		return Outcome{State: StateAuthorized, Decision: Render}
	}
	return Outcome{State: StateForbidden, Decision: RedirectToFallback, Target: FallbackFor(identity.Role)}
}

// FallbackFor is where a role lands when it is refused a view, and after login.
func FallbackFor(role domain.Role) string {
	if role == domain.RolePatient {
		return ReportsPath
	}
	return DashboardPath
}

package policy

import (
	"fmt"
	"strings"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

const (
	ViewLogin    = "login"
	ViewNotFound = "not_found"
)

// RoutePolicy binds a path pattern to a view and the roles allowed to open it.
// Patterns use ":name" for a single dynamic segment, e.g. "/reports/:id".
type RoutePolicy struct {
	Path         string        `yaml:"path"  json:"path"`
	View         string        `yaml:"view"  json:"view"`
	AllowedRoles []domain.Role `yaml:"roles" json:"roles"`
}

// Allows reports whether an identity holding role may render the route.
func (p RoutePolicy) Allows(role domain.Role) bool {
	if len(p.AllowedRoles) == 0 {
		return true
	}
	for _, r := range p.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

type route struct {
	policy   RoutePolicy
	segments []string
	static   bool
}

// Table is an immutable route policy table.
type Table struct {
	routes []route
}

// ReservedPrefixes are served by the API and infrastructure routes and can
// never carry a view.
var ReservedPrefixes = []string{"/api", "/health", "/metrics", "/swagger"}

// NewTable validates policies and builds a table. Paths must be unique,
// absolute, and must not shadow the login view or a reserved prefix. The
// fallback target of every role must resolve to a route that role may open.
func NewTable(policies []RoutePolicy) (*Table, error) {
	t := &Table{routes: make([]route, 0, len(policies))}
	seen := make(map[string]struct{}, len(policies))

	for i, p := range policies {
		path := normalize(p.Path)
		if !strings.HasPrefix(p.Path, "/") {
			return nil, fmt.Errorf("%w: route %d: path %q must start with /", domain.ErrInvalidPolicy, i, p.Path)
		}
		if strings.EqualFold(path, LoginPath) {
			return nil, fmt.Errorf("%w: route %d: %s is reserved for the login view", domain.ErrInvalidPolicy, i, LoginPath)
		}
		if prefix, ok := reserved(path); ok {
			return nil, fmt.Errorf("%w: route %d: %s is reserved", domain.ErrInvalidPolicy, i, prefix)
		}
		if p.View == "" {
			return nil, fmt.Errorf("%w: route %d: view is required", domain.ErrInvalidPolicy, i)
		}
		key := strings.ToLower(path)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate path %q", domain.ErrInvalidPolicy, path)
		}
		seen[key] = struct{}{}

		roles := make([]domain.Role, 0, len(p.AllowedRoles))
		for _, r := range p.AllowedRoles {
			if !r.Valid() {
				return nil, fmt.Errorf("%w: route %q: unknown role %q", domain.ErrInvalidPolicy, path, r)
			}
			roles = append(roles, r)
		}

		segs := split(path)
		static := true
		for _, s := range segs {
			// The same patterns are registered on the HTTP router, which gives
			// these characters a meaning this matcher does not.
			if strings.Contains(s, "*") || strings.LastIndex(s, ":") > 0 {
				return nil, fmt.Errorf("%w: route %q: unsupported segment %q", domain.ErrInvalidPolicy, path, s)
			}
			if strings.HasPrefix(s, ":") {
				if len(s) == 1 {
					return nil, fmt.Errorf("%w: route %q: unnamed parameter", domain.ErrInvalidPolicy, path)
				}
				static = false
			}
		}

		t.routes = append(t.routes, route{
			policy:   RoutePolicy{Path: path, View: p.View, AllowedRoles: roles},
			segments: segs,
			static:   static,
		})
	}

	for _, role := range domain.Roles {
		target := FallbackFor(role)
		p, _, ok := t.Match(target)
		if !ok || !p.Allows(role) {
			return nil, fmt.Errorf("%w: fallback %s for role %s is not open to it", domain.ErrInvalidPolicy, target, role)
		}
	}
	return t, nil
}

func reserved(path string) (string, bool) {
	lower := strings.ToLower(path)
	for _, prefix := range ReservedPrefixes {
		if lower == prefix || strings.HasPrefix(lower, prefix+"/") {
			return prefix, true
		}
	}
	return "", false
}

// MustTable is NewTable for tables known to be valid at compile time.
func MustTable(policies []RoutePolicy) *Table {
	t, err := NewTable(policies)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable is the built-in permission matrix.
func DefaultTable() *Table {
	clinic := []domain.Role{domain.RoleDoctor, domain.RoleStaff}
	everyone := []domain.Role{domain.RoleDoctor, domain.RoleStaff, domain.RolePatient}

	return MustTable([]RoutePolicy{
		{Path: "/", View: "dashboard", AllowedRoles: clinic},
		{Path: "/reports", View: "reports", AllowedRoles: everyone},
		{Path: "/reports/:id", View: "report", AllowedRoles: everyone},
		{Path: "/finances", View: "finances", AllowedRoles: clinic},
		{Path: "/finances/transactions", View: "finance_transactions", AllowedRoles: clinic},
		{Path: "/products", View: "products", AllowedRoles: clinic},
		{Path: "/appointments", View: "appointments", AllowedRoles: clinic},
		{Path: "/logs", View: "logs", AllowedRoles: clinic},
		{Path: "/patients", View: "patients", AllowedRoles: clinic},
		{Path: "/settings", View: "settings", AllowedRoles: everyone},
	})
}

// Policies returns a copy of the table's entries in declaration order.
func (t *Table) Policies() []RoutePolicy {
	out := make([]RoutePolicy, len(t.routes))
	for i, r := range t.routes {
		out[i] = r.policy
		out[i].AllowedRoles = append([]domain.Role(nil), r.policy.AllowedRoles...)
	}
	return out
}

// Lookup returns the policy declared for an exact pattern.
func (t *Table) Lookup(pattern string) (RoutePolicy, bool) {
	pattern = normalize(pattern)
	for _, r := range t.routes {
		if r.policy.Path == pattern {
			return r.policy, true
		}
	}
	return RoutePolicy{}, false
}

// Match resolves a concrete request path. Static segments compare without
// regard to case. Static patterns win over parameterised ones; otherwise
// declaration order decides.
func (t *Table) Match(path string) (RoutePolicy, map[string]string, bool) {
	r, params := t.find(split(normalize(path)))
	if r == nil {
		return RoutePolicy{}, nil, false
	}
	return r.policy, params, true
}

// Canonical rewrites path so its static segments carry the casing of the
// matching pattern. Parameter values are kept as sent.
func (t *Table) Canonical(path string) (string, bool) {
	path = normalize(path)
	if strings.EqualFold(path, LoginPath) {
		return LoginPath, true
	}

	segs := split(path)
	r, _ := t.find(segs)
	if r == nil {
		return "", false
	}
	if len(segs) == 0 {
		return "/", true
	}
	out := make([]string, len(segs))
	for i, s := range r.segments {
		if strings.HasPrefix(s, ":") {
			out[i] = segs[i]
		} else {
			out[i] = s
		}
	}
	return "/" + strings.Join(out, "/"), true
}

func (t *Table) find(segs []string) (*route, map[string]string) {
	var (
		best   *route
		params map[string]string
	)
	for i := range t.routes {
		r := &t.routes[i]
		p, ok := r.match(segs)
		if !ok {
			continue
		}
		if r.static {
			return r, nil
		}
		if best == nil {
			best, params = r, p
		}
	}
	return best, params
}

func (r *route) match(segs []string) (map[string]string, bool) {
	if len(segs) != len(r.segments) {
		return nil, false
	}
	var params map[string]string
	for i, s := range r.segments {
		if strings.HasPrefix(s, ":") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, 1)
			}
			params[s[1:]] = segs[i]
			continue
		}
		if !strings.EqualFold(s, segs[i]) {
			return nil, false
		}
	}
	return params, true
}

// Evaluation is the full answer for one navigation.
type Evaluation struct {
	Path    string            `json:"path"`
	View    string            `json:"view"`
	Params  map[string]string `json:"params,omitempty"`
	Found   bool              `json:"found"`
	Outcome Outcome           `json:"outcome"`
}

// Evaluate resolves path against the table and runs the guard. The login view
// and unknown paths are public and always render.
func (t *Table) Evaluate(identity *domain.Identity, path string) Evaluation {
	path = normalize(path)
	if strings.EqualFold(path, LoginPath) {
		return Evaluation{
			Path:    path,
			View:    ViewLogin,
			Found:   true,
			Outcome: Outcome{State: StatePublic, Decision: Render},
		}
	}

	p, params, ok := t.Match(path)
	if !ok {
		return Evaluation{
			Path:    path,
			View:    ViewNotFound,
			Outcome: Outcome{State: StatePublic, Decision: Render},
		}
	}
	return Evaluation{
		Path:    path,
		View:    p.View,
		Params:  params,
		Found:   true,
		Outcome: Decide(identity, p.AllowedRoles),
	}
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func split(path string) []string {
	if path == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}

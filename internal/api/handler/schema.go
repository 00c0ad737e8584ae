package handler

import (
	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/policy"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// loginRequest bounds field sizes only. Empty fields reach the
// authenticator and fail like any other credential mismatch.
type loginRequest struct {
	Email    string `json:"email"    validate:"max=320"`
	Password string `json:"password" validate:"max=1024"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Identity      *domain.Identity `json:"identity,omitempty"`
	// Landing is where the client should navigate after login.
	Landing string `json:"landing,omitempty"`
}

type viewResponse struct {
	View         string            `json:"view"`
	Path         string            `json:"path"`
	Params       map[string]string `json:"params,omitempty"`
	Identity     *domain.Identity  `json:"identity,omitempty"`
	Navigation   []policy.NavItem  `json:"navigation,omitempty"`
	SettingsTabs []string          `json:"settings_tabs,omitempty"`
}

type navigationResponse struct {
	policy.Evaluation
	Navigation []policy.NavItem `json:"navigation,omitempty"`
}

type logsResponse struct {
	Events []domain.SessionEvent `json:"events"`
	Count  int                   `json:"count"`
}

package policy

import "github.com/visioncare/clinic-portal/internal/core/domain"

// NavItem is one sidebar entry.
type NavItem struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// sidebar is the full menu in display order; each role sees the subset its
// route policies admit.
var sidebar = []NavItem{
	{Label: "Dashboard", Href: "/"},
	{Label: "Reports", Href: "/reports"},
	{Label: "Appointments", Href: "/appointments"},
	{Label: "Patients", Href: "/patients"},
	{Label: "Products", Href: "/products"},
	{Label: "Finances", Href: "/finances"},
	{Label: "Logs", Href: "/logs"},
	{Label: "Settings", Href: "/settings"},
}

// Navigation returns the sidebar entries role may open under t.
func Navigation(t *Table, role domain.Role) []NavItem {
	items := make([]NavItem, 0, len(sidebar))
	for _, item := range sidebar {
		p, _, ok := t.Match(item.Href)
		if !ok || !p.Allows(role) {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Settings tabs.
const (
	TabProfile       = "profile"
	TabNotifications = "notifications"
	TabSecurity      = "security"
	TabClinic        = "clinic"
)

// SettingsTabs returns the settings sections shown to role.
func SettingsTabs(role domain.Role) []string {
	tabs := []string{TabProfile, TabNotifications, TabSecurity}
	switch role {
	case domain.RoleDoctor:
		return append(tabs, TabClinic)
	case domain.RoleStaff, domain.RolePatient:
		return tabs
	default:
		return nil
	}
}

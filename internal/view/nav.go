package view

import "github.com/healthhub/healthhub-web/internal/model"

type NavLink struct {
	Name string
	Href string
}

// LinksFor maps a role to its navigation links. Unknown roles get no
// links; the logout control is rendered separately.
func LinksFor(role model.Role) []NavLink {
	switch role {
	case model.RoleAdmin:
		return []NavLink{
			{Name: "Dashboard", Href: "/admin/dashboard"},
			{Name: "Users", Href: "/admin/users"},
			{Name: "Appointments", Href: "/admin/appointments"},
		}
	case model.RoleDoctor:
		return []NavLink{
			{Name: "Dashboard", Href: "/doctor/dashboard"},
			{Name: "Appointments", Href: "/doctor/appointments"},
		}
	case model.RolePatient:
		return []NavLink{
			{Name: "Dashboard", Href: "/patient/dashboard"},
			{Name: "Book", Href: "/patient/book"},
			{Name: "Appointments", Href: "/patient/appointments"},
		}
	default:
		return nil
	}
}

// DashboardPath is where a freshly logged-in user lands.
func DashboardPath(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return "/admin/dashboard"
	case model.RoleDoctor:
		return "/doctor/dashboard"
	default:
		return "/patient/dashboard"
	}
}

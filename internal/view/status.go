// Package view holds the pure presentation mapping used by the page
// templates: status badges, list filtering, dashboard stats, and the
// date/time formatting the backend leaves to the client.
package view

import "github.com/healthhub/healthhub-web/internal/model"

// Badge is the style class and label a status renders with.
type Badge struct {
	Class string
	Label string
}

var statusBadges = map[model.AppointmentStatus]string{
	model.StatusPending:   "bg-yellow-100 text-yellow-800",
	model.StatusApproved:  "bg-green-100 text-green-800",
	model.StatusCompleted: "bg-blue-100 text-blue-800",
	model.StatusCancelled: "bg-red-100 text-red-800",
	model.StatusRejected:  "bg-orange-100 text-orange-800",
}

const fallbackBadgeClass = "bg-gray-100 text-gray-800"

// StatusBadge maps any status value to a badge. Unknown values get the
// grey fallback so a new backend status never renders unstyled.
func StatusBadge(status model.AppointmentStatus) Badge {
	class, ok := statusBadges[status]
	if !ok {
		class = fallbackBadgeClass
	}
	return Badge{Class: class, Label: string(status)}
}

// CancellationContext annotates terminal appointments with who ended
// them. Empty for every other status.
func CancellationContext(appt model.Appointment) string {
	switch appt.Status {
	case model.StatusCancelled:
		switch appt.CancelledBy {
		case model.RolePatient:
			return "Cancelled by you"
		case model.RoleDoctor:
			return "Cancelled by doctor"
		case model.RoleAdmin:
			return "Cancelled by admin"
		}
		return ""
	case model.StatusRejected:
		return "Rejected by doctor"
	}
	return ""
}

// FilterAll is the filter value that passes every appointment through.
const FilterAll = "ALL"

// FilterValues is the filter button row in display order.
var FilterValues = []string{
	FilterAll,
	string(model.StatusPending),
	string(model.StatusApproved),
	string(model.StatusCompleted),
	string(model.StatusCancelled),
	string(model.StatusRejected),
}

// FilterByStatus returns the subsequence of appts matching the filter,
// preserving input order. FilterAll returns the input unchanged.
func FilterByStatus(appts []model.Appointment, filter string) []model.Appointment {
	if filter == FilterAll || filter == "" {
		return appts
	}
	out := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if string(a.Status) == filter {
			out = append(out, a)
		}
	}
	return out
}

// CanCancel reports whether the cancel action is offered for an
// appointment. Only live appointments can be cancelled.
func CanCancel(appt model.Appointment) bool {
	return appt.Status == model.StatusPending || appt.Status == model.StatusApproved
}

// Stats are the per-status counts shown on the dashboards.
type Stats struct {
	Total     int
	Pending   int
	Approved  int
	Completed int
	Rejected  int
}

func AppointmentStats(appts []model.Appointment) Stats {
	s := Stats{Total: len(appts)}
	for _, a := range appts {
		switch a.Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusApproved:
			s.Approved++
		case model.StatusCompleted:
			s.Completed++
		case model.StatusRejected:
			s.Rejected++
		}
	}
	return s
}

// UserStats are the totals on the admin dashboard.
type UserStats struct {
	Total    int
	Patients int
	Doctors  int
}

func CountUsers(users []model.User) UserStats {
	s := UserStats{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case model.RolePatient:
			s.Patients++
		case model.RoleDoctor:
			s.Doctors++
		}
	}
	return s
}

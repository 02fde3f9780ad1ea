package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/healthhub/healthhub-web/internal/model"
)

// FormatDate renders a YYYY-MM-DD date as "Sunday, June 1, 2025".
// Unparseable input is returned as-is rather than hidden.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatTime renders a 24h HH:MM time as "9:00 AM".
func FormatTime(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

// DoctorSummary renders the confirmation-page doctor line, e.g.
// "Dr. Jane Doe (Cardiology)".
func DoctorSummary(d model.User) string {
	name := strings.TrimSpace(d.FirstName + " " + d.LastName)
	if d.Specialization != "" {
		return fmt.Sprintf("Dr. %s (%s)", name, d.Specialization)
	}
	return "Dr. " + name
}

// DoctorDisplayName is the list-view doctor label: the denormalized
// name when the backend sends one, otherwise the email local part.
func DoctorDisplayName(appt model.Appointment) string {
	if appt.DoctorName != "" {
		return appt.DoctorName
	}
	if at := strings.IndexByte(appt.DoctorEmail, '@'); at > 0 {
		return appt.DoctorEmail[:at]
	}
	return "Unknown"
}

// PatientDisplayName is the admin-view patient label.
func PatientDisplayName(appt model.Appointment) string {
	if appt.PatientName != "" {
		return appt.PatientName
	}
	if appt.PatientEmail != "" {
		return appt.PatientEmail
	}
	return "Unknown"
}

package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthhub/healthhub-web/internal/model"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Sunday, June 1, 2025", FormatDate("2025-06-01"))
	assert.Equal(t, "Wednesday, December 31, 2025", FormatDate("2025-12-31"))
	// Unparseable input passes through unchanged.
	assert.Equal(t, "not-a-date", FormatDate("not-a-date"))
	assert.Equal(t, "", FormatDate(""))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "9:00 AM", FormatTime("09:00"))
	assert.Equal(t, "12:00 PM", FormatTime("12:00"))
	assert.Equal(t, "2:30 PM", FormatTime("14:30"))
	assert.Equal(t, "25:99", FormatTime("25:99"))
}

func TestDoctorSummary(t *testing.T) {
	d := model.User{FirstName: "Jane", LastName: "Doe", Specialization: "Cardiology"}
	assert.Equal(t, "Dr. Jane Doe (Cardiology)", DoctorSummary(d))

	noSpec := model.User{FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Dr. Jane Doe", DoctorSummary(noSpec))
}

func TestDoctorDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", DoctorDisplayName(model.Appointment{DoctorName: "Jane Doe"}))
	assert.Equal(t, "jdoe", DoctorDisplayName(model.Appointment{DoctorEmail: "jdoe@clinic.example"}))
	assert.Equal(t, "Unknown", DoctorDisplayName(model.Appointment{}))
}

func TestPatientDisplayName(t *testing.T) {
	assert.Equal(t, "John Smith", PatientDisplayName(model.Appointment{PatientName: "John Smith"}))
	assert.Equal(t, "js@x.example", PatientDisplayName(model.Appointment{PatientEmail: "js@x.example"}))
	assert.Equal(t, "Unknown", PatientDisplayName(model.Appointment{}))
}

func TestLinksFor(t *testing.T) {
	admin := LinksFor(model.RoleAdmin)
	assert.Len(t, admin, 3)
	assert.Equal(t, "/admin/users", admin[1].Href)

	doctor := LinksFor(model.RoleDoctor)
	assert.Len(t, doctor, 2)

	patient := LinksFor(model.RolePatient)
	assert.Len(t, patient, 3)
	assert.Equal(t, "/patient/book", patient[1].Href)

	assert.Nil(t, LinksFor("NURSE"))
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/admin/dashboard", DashboardPath(model.RoleAdmin))
	assert.Equal(t, "/doctor/dashboard", DashboardPath(model.RoleDoctor))
	assert.Equal(t, "/patient/dashboard", DashboardPath(model.RolePatient))
}

package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthhub/healthhub-web/internal/model"
)

func TestStatusBadgeKnownStatuses(t *testing.T) {
	tests := []struct {
		status model.AppointmentStatus
		class  string
	}{
		{model.StatusPending, "bg-yellow-100 text-yellow-800"},
		{model.StatusApproved, "bg-green-100 text-green-800"},
		{model.StatusCompleted, "bg-blue-100 text-blue-800"},
		{model.StatusCancelled, "bg-red-100 text-red-800"},
		{model.StatusRejected, "bg-orange-100 text-orange-800"},
	}
	for _, tt := range tests {
		badge := StatusBadge(tt.status)
		assert.Equal(t, tt.class, badge.Class, "class for %s", tt.status)
		assert.Equal(t, string(tt.status), badge.Label)
	}
}

func TestStatusBadgeUnknownStatusGetsFallback(t *testing.T) {
	badge := StatusBadge("NO_SHOW")
	assert.Equal(t, "bg-gray-100 text-gray-800", badge.Class)
	assert.Equal(t, "NO_SHOW", badge.Label)
}

func TestStatusBadgeCoversEveryDeclaredStatus(t *testing.T) {
	for _, status := range model.Statuses {
		badge := StatusBadge(status)
		assert.NotEqual(t, "bg-gray-100 text-gray-800", badge.Class,
			"declared status %s should have its own style", status)
	}
}

func TestCancellationContext(t *testing.T) {
	tests := []struct {
		name string
		appt model.Appointment
		want string
	}{
		{"cancelled by patient", model.Appointment{Status: model.StatusCancelled, CancelledBy: model.RolePatient}, "Cancelled by you"},
		{"cancelled by doctor", model.Appointment{Status: model.StatusCancelled, CancelledBy: model.RoleDoctor}, "Cancelled by doctor"},
		{"cancelled by admin", model.Appointment{Status: model.StatusCancelled, CancelledBy: model.RoleAdmin}, "Cancelled by admin"},
		{"cancelled by unknown", model.Appointment{Status: model.StatusCancelled}, ""},
		{"rejected", model.Appointment{Status: model.StatusRejected}, "Rejected by doctor"},
		{"pending", model.Appointment{Status: model.StatusPending, CancelledBy: model.RolePatient}, ""},
		{"approved", model.Appointment{Status: model.StatusApproved}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CancellationContext(tt.appt))
		})
	}
}

func TestFilterByStatus(t *testing.T) {
	appts := []model.Appointment{
		{ID: "a", Status: model.StatusPending},
		{ID: "b", Status: model.StatusApproved},
		{ID: "c", Status: model.StatusPending},
		{ID: "d", Status: model.StatusCancelled},
	}

	t.Run("ALL returns everything in order", func(t *testing.T) {
		got := FilterByStatus(appts, FilterAll)
		assert.Equal(t, appts, got)
	})

	t.Run("empty filter behaves like ALL", func(t *testing.T) {
		assert.Equal(t, appts, FilterByStatus(appts, ""))
	})

	t.Run("single status keeps order", func(t *testing.T) {
		got := FilterByStatus(appts, string(model.StatusPending))
		assert.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "c", got[1].ID)
	})

	t.Run("filter is idempotent", func(t *testing.T) {
		once := FilterByStatus(appts, string(model.StatusApproved))
		twice := FilterByStatus(once, string(model.StatusApproved))
		assert.Equal(t, once, twice)
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		assert.Empty(t, FilterByStatus(appts, string(model.StatusRejected)))
	})
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(model.Appointment{Status: model.StatusPending}))
	assert.True(t, CanCancel(model.Appointment{Status: model.StatusApproved}))
	assert.False(t, CanCancel(model.Appointment{Status: model.StatusCompleted}))
	assert.False(t, CanCancel(model.Appointment{Status: model.StatusCancelled}))
	assert.False(t, CanCancel(model.Appointment{Status: model.StatusRejected}))
}

func TestAppointmentStats(t *testing.T) {
	appts := []model.Appointment{
		{Status: model.StatusPending},
		{Status: model.StatusPending},
		{Status: model.StatusApproved},
		{Status: model.StatusCompleted},
		{Status: model.StatusCancelled},
		{Status: model.StatusRejected},
	}
	s := AppointmentStats(appts)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, 1, s.Approved)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 1, s.Rejected)
}

func TestCountUsers(t *testing.T) {
	users := []model.User{
		{Role: model.RolePatient},
		{Role: model.RolePatient},
		{Role: model.RoleDoctor},
		{Role: model.RoleAdmin},
	}
	s := CountUsers(users)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Patients)
	assert.Equal(t, 1, s.Doctors)
}

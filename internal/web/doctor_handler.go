package web

import (
	"log"
	"net/http"

	"github.com/healthhub/healthhub-web/internal/model"
	"github.com/healthhub/healthhub-web/internal/view"
)

type doctorDashboardPage struct {
	basePage
	Stats  view.Stats
	Recent []model.Appointment
}

func (s *Server) handleDoctorDashboard(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RoleDoctor) {
		return
	}

	appts, err := s.api.GetMyAppointments(r.Context(), token)
	if err != nil {
		log.Printf("load appointments request_id=%s: %v", GetRequestID(r.Context()), err)
		appts = nil
	}

	recent := appts
	if len(recent) > 5 {
		recent = recent[:5]
	}

	s.render(w, http.StatusOK, "doctor_dashboard", doctorDashboardPage{
		basePage: newBasePage("Doctor Dashboard", user),
		Stats:    view.AppointmentStats(appts),
		Recent:   recent,
	})
}

func (s *Server) handleDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RoleDoctor) {
		return
	}

	appts, err := s.api.GetMyAppointments(r.Context(), token)
	if err != nil {
		log.Printf("load appointments request_id=%s: %v", GetRequestID(r.Context()), err)
		appts = nil
	}

	filter := r.URL.Query().Get("status")
	if filter == "" {
		filter = view.FilterAll
	}

	s.render(w, http.StatusOK, "doctor_appointments", appointmentsPage{
		basePage:     newBasePage("Appointments", user),
		Filter:       filter,
		Filters:      view.FilterValues,
		Appointments: view.FilterByStatus(appts, filter),
		ShowPatient:  true,
		CancelReturn: "/doctor/appointments",
	})
}

package web

import (
	"log"
	"net/http"

	"github.com/healthhub/healthhub-web/internal/model"
	"github.com/healthhub/healthhub-web/internal/view"
)

type adminDashboardPage struct {
	basePage
	UserStats         view.UserStats
	TotalAppointments int
	RecentUsers       []model.User
	RecentAppts       []model.Appointment
}

type adminUsersPage struct {
	basePage
	Users []model.User
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RoleAdmin) {
		return
	}

	users, err := s.api.GetAllUsers(r.Context(), token)
	if err != nil {
		log.Printf("load users request_id=%s: %v", GetRequestID(r.Context()), err)
		users = nil
	}
	appts, err := s.api.GetAllAppointments(r.Context(), token)
	if err != nil {
		log.Printf("load appointments request_id=%s: %v", GetRequestID(r.Context()), err)
		appts = nil
	}

	recentUsers := users
	if len(recentUsers) > 5 {
		recentUsers = recentUsers[:5]
	}
	recentAppts := appts
	if len(recentAppts) > 5 {
		recentAppts = recentAppts[:5]
	}

	s.render(w, http.StatusOK, "admin_dashboard", adminDashboardPage{
		basePage:          newBasePage("Admin Dashboard", user),
		UserStats:         view.CountUsers(users),
		TotalAppointments: len(appts),
		RecentUsers:       recentUsers,
		RecentAppts:       recentAppts,
	})
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RoleAdmin) {
		return
	}

	users, err := s.api.GetAllUsers(r.Context(), token)
	if err != nil {
		log.Printf("load users request_id=%s: %v", GetRequestID(r.Context()), err)
		users = nil
	}

	s.render(w, http.StatusOK, "admin_users", adminUsersPage{
		basePage: newBasePage("Users", user),
		Users:    users,
	})
}

func (s *Server) handleAdminAppointments(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RoleAdmin) {
		return
	}

	appts, err := s.api.GetAllAppointments(r.Context(), token)
	if err != nil {
		log.Printf("load appointments request_id=%s: %v", GetRequestID(r.Context()), err)
		appts = nil
	}

	filter := r.URL.Query().Get("status")
	if filter == "" {
		filter = view.FilterAll
	}

	s.render(w, http.StatusOK, "admin_appointments", appointmentsPage{
		basePage:     newBasePage("All Appointments", user),
		Filter:       filter,
		Filters:      view.FilterValues,
		Appointments: view.FilterByStatus(appts, filter),
		ShowPatient:  true,
		CancelReturn: "/admin/appointments",
	})
}

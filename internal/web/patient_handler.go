package web

import (
	"log"
	"net/http"

	"github.com/healthhub/healthhub-web/internal/apiclient"
	"github.com/healthhub/healthhub-web/internal/booking"
	"github.com/healthhub/healthhub-web/internal/model"
	"github.com/healthhub/healthhub-web/internal/view"
)

type patientDashboardPage struct {
	basePage
	Stats  view.Stats
	Recent []model.Appointment
}

type appointmentsPage struct {
	basePage
	Filter       string
	Filters      []string
	Appointments []model.Appointment
	ShowPatient  bool   // admin view shows who booked
	CancelReturn string // where the cancel flow comes back to
	BookLink     bool   // patient view offers "Book New Appointment"
}

func (s *Server) handlePatientDashboard(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RolePatient) {
		return
	}

	// A failed list fetch still renders the dashboard, just empty.
	appts, err := s.api.GetMyAppointments(r.Context(), token)
	if err != nil {
		log.Printf("load appointments request_id=%s: %v", GetRequestID(r.Context()), err)
		appts = nil
	}

	recent := appts
	if len(recent) > 5 {
		recent = recent[:5]
	}

	s.render(w, http.StatusOK, "patient_dashboard", patientDashboardPage{
		basePage: newBasePage("Patient Dashboard", user),
		Stats:    view.AppointmentStats(appts),
		Recent:   recent,
	})
}

func (s *Server) handlePatientAppointments(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RolePatient) {
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

	s.render(w, http.StatusOK, "patient_appointments", appointmentsPage{
		basePage:     newBasePage("My Appointments", user),
		Filter:       filter,
		Filters:      view.FilterValues,
		Appointments: view.FilterByStatus(appts, filter),
		CancelReturn: "/patient/appointments",
		BookLink:     true,
	})
}

type bookEditPage struct {
	basePage
	Doctors   []model.User
	Form      booking.Form
	TimeSlots []booking.TimeSlot
}

type bookConfirmPage struct {
	basePage
	Form       booking.Form
	DoctorLine string
	DateLine   string
	TimeLine   string
}

func (s *Server) handleBookPage(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RolePatient) {
		return
	}
	s.renderBookEdit(w, r, http.StatusOK, user, token, booking.Form{}, "")
}

func (s *Server) renderBookEdit(w http.ResponseWriter, r *http.Request, status int, user *model.User, token string, form booking.Form, errMsg string) {
	doctors, err := s.api.GetDoctors(r.Context(), token)
	if err != nil {
		log.Printf("load doctors request_id=%s: %v", GetRequestID(r.Context()), err)
		doctors = nil
	}
	page := bookEditPage{
		basePage:  newBasePage("Book Appointment", user),
		Doctors:   doctors,
		Form:      form,
		TimeSlots: booking.TimeSlots(),
	}
	page.Error = errMsg
	s.render(w, status, "book_edit", page)
}

func bookingFormFromRequest(r *http.Request) booking.Form {
	return booking.Form{
		DoctorID: r.PostFormValue("doctorId"),
		Date:     r.PostFormValue("appointmentDate"),
		Time:     r.PostFormValue("appointmentTime"),
		Reason:   r.PostFormValue("reason"),
	}
}

// handleBookSubmit is the editing -> confirming step: validate, then
// show the read-only summary.
func (s *Server) handleBookSubmit(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RolePatient) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	wf := booking.New()
	if err := wf.Submit(bookingFormFromRequest(r)); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if wf.State == booking.StateEditing {
		s.renderBookEdit(w, r, http.StatusBadRequest, user, token, wf.Form, wf.Err)
		return
	}

	doctor, found := s.lookupDoctor(r, token, wf.Form.DoctorID)
	if !found {
		s.renderBookEdit(w, r, http.StatusBadRequest, user, token, wf.Form, "Please choose a valid doctor")
		return
	}

	s.render(w, http.StatusOK, "book_confirm", bookConfirmPage{
		basePage:   newBasePage("Confirm Appointment", user),
		Form:       wf.Form,
		DoctorLine: view.DoctorSummary(doctor),
		DateLine:   view.FormatDate(wf.Form.Date),
		TimeLine:   view.FormatTime(wf.Form.Time),
	})
}

// handleBookBack is the confirming -> editing step, keeping the fields.
func (s *Server) handleBookBack(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RolePatient) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	s.renderBookEdit(w, r, http.StatusOK, user, token, bookingFormFromRequest(r), "")
}

// handleBookConfirm runs confirming -> submitting -> succeeded (or back
// to editing with the backend's message, fields intact).
func (s *Server) handleBookConfirm(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user, model.RolePatient) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	wf := booking.New()
	if err := wf.Submit(bookingFormFromRequest(r)); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if wf.State != booking.StateConfirming {
		// The posted fields no longer validate; back to editing.
		s.renderBookEdit(w, r, http.StatusBadRequest, user, token, wf.Form, wf.Err)
		return
	}

	if err := wf.Begin(); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	callErr := s.api.CreateAppointment(r.Context(), token, apiclient.CreateAppointmentRequest{
		DoctorID:        wf.Form.DoctorID,
		AppointmentDate: wf.Form.Date,
		AppointmentTime: wf.Form.Time,
		Reason:          wf.Form.Reason,
	})

	var failMsg string
	if callErr != nil {
		failMsg = apiclient.UserMessage(callErr)
	}
	if err := wf.Finish(callErr == nil, failMsg); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if wf.State == booking.StateSucceeded {
		s.render(w, http.StatusOK, "book_success", newBasePage("Appointment Booked", user))
		return
	}
	s.renderBookEdit(w, r, http.StatusBadRequest, user, token, wf.Form, wf.Err)
}

func (s *Server) lookupDoctor(r *http.Request, token, doctorID string) (model.User, bool) {
	doctors, err := s.api.GetDoctors(r.Context(), token)
	if err != nil {
		return model.User{}, false
	}
	for _, d := range doctors {
		if d.ID == doctorID {
			return d, true
		}
	}
	return model.User{}, false
}

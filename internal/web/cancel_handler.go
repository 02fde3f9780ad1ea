package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/healthhub/healthhub-web/internal/apiclient"
	"github.com/healthhub/healthhub-web/internal/view"
)

type cancelConfirmPage struct {
	basePage
	AppointmentID string
	Return        string
}

// returnPathOr keeps the post-cancel redirect on this site.
func (s *Server) returnPathOr(raw, fallback string) string {
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return raw
	}
	return fallback
}

// handleCancelConfirmPage shows the explicit "are you sure" step before
// any cancel call is issued.
func (s *Server) handleCancelConfirmPage(w http.ResponseWriter, r *http.Request) {
	user, _, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	ret := s.returnPathOr(r.URL.Query().Get("return"), view.DashboardPath(user.Role))

	s.render(w, http.StatusOK, "cancel_confirm", cancelConfirmPage{
		basePage:      newBasePage("Cancel Appointment", user),
		AppointmentID: id,
		Return:        ret,
	})
}

// handleCancel issues the cancel call and sends the browser back to the
// list it came from, which re-fetches the authoritative state.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	user, token, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	ret := s.returnPathOr(r.PostFormValue("return"), view.DashboardPath(user.Role))

	if err := s.api.CancelAppointment(r.Context(), token, id); err != nil {
		page := cancelConfirmPage{
			basePage:      newBasePage("Cancel Appointment", user),
			AppointmentID: id,
			Return:        ret,
		}
		page.Error = apiclient.UserMessage(err)
		s.render(w, http.StatusBadRequest, "cancel_confirm", page)
		return
	}

	http.Redirect(w, r, ret, http.StatusSeeOther)
}

package web

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/healthhub/healthhub-web/internal/apiclient"
	"github.com/healthhub/healthhub-web/internal/model"
	"github.com/healthhub/healthhub-web/internal/session"
	"github.com/healthhub/healthhub-web/internal/view"
)

const sessionCookie = "hh_session"

type Server struct {
	api       *apiclient.Client
	sessions  session.Store
	env       string
	templates map[string]*template.Template
}

func NewServer(api *apiclient.Client, sessions session.Store, env string) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		api:       api,
		sessions:  sessions,
		env:       env,
		templates: templates,
	}, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.env == "prod",
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// currentUser runs the per-page session bootstrap: cookie -> session ->
// profile fetch. Any failure along the way means "not logged in": the
// cookie is dropped and the request is redirected to /login. Callers
// must return immediately when ok is false.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (user *model.User, token string, ok bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, "", false
	}

	sess, err := s.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("session lookup failed request_id=%s: %v", GetRequestID(r.Context()), err)
		}
		s.clearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, "", false
	}

	user, err = s.api.GetProfile(r.Context(), sess.Token)
	if err != nil {
		_ = s.sessions.Delete(r.Context(), sess.ID)
		s.clearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, "", false
	}

	return user, sess.Token, true
}

// requireRole redirects users that landed on another role's page to
// their own dashboard.
func requireRole(w http.ResponseWriter, r *http.Request, user *model.User, role model.Role) bool {
	if user.Role == role {
		return true
	}
	http.Redirect(w, r, view.DashboardPath(user.Role), http.StatusSeeOther)
	return false
}

// handleRoot sends visitors to their dashboard if logged in, otherwise
// to the login page.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	sess, err := s.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		s.clearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	user, err := s.api.GetProfile(r.Context(), sess.Token)
	if err != nil {
		s.clearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, view.DashboardPath(user.Role), http.StatusSeeOther)
}

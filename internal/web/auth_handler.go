package web

import (
	"net/http"
	"unicode/utf8"

	"github.com/healthhub/healthhub-web/internal/apiclient"
	"github.com/healthhub/healthhub-web/internal/model"
	"github.com/healthhub/healthhub-web/internal/view"
)

type loginPage struct {
	basePage
	Email string
}

type registerForm struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Role           string
	Specialization string
}

type registerPage struct {
	basePage
	Form registerForm
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login", loginPage{basePage: newBasePage("Sign In", nil)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	res, err := s.api.Login(r.Context(), email, password)
	if err != nil {
		page := loginPage{basePage: newBasePage("Sign In", nil), Email: email}
		page.Error = apiclient.UserMessage(err)
		s.render(w, http.StatusUnauthorized, "login", page)
		return
	}

	sess, err := s.sessions.Create(r.Context(), res.Token)
	if err != nil {
		page := loginPage{basePage: newBasePage("Sign In", nil), Email: email}
		page.Error = "An error occurred. Please try again."
		s.render(w, http.StatusInternalServerError, "login", page)
		return
	}

	s.setSessionCookie(w, sess.ID)
	http.Redirect(w, r, view.DashboardPath(res.User.Role), http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register", registerPage{
		basePage: newBasePage("Create Account", nil),
		Form:     registerForm{Role: string(model.RolePatient)},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := registerForm{
		FirstName:      r.PostFormValue("firstName"),
		LastName:       r.PostFormValue("lastName"),
		Email:          r.PostFormValue("email"),
		Phone:          r.PostFormValue("phone"),
		Role:           r.PostFormValue("role"),
		Specialization: r.PostFormValue("specialization"),
	}
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirmPassword")

	fail := func(status int, msg string) {
		page := registerPage{basePage: newBasePage("Create Account", nil), Form: form}
		page.Error = msg
		s.render(w, status, "register", page)
	}

	// Same client-side checks the form used to run before any network
	// call.
	if password != confirm {
		fail(http.StatusBadRequest, "Passwords do not match")
		return
	}
	if utf8.RuneCountInString(password) < 6 {
		fail(http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	if form.Phone == "" {
		fail(http.StatusBadRequest, "Phone number is required")
		return
	}
	role := model.Role(form.Role)
	if role != model.RolePatient && role != model.RoleDoctor {
		fail(http.StatusBadRequest, "Please choose a valid account type")
		return
	}
	if role == model.RoleDoctor && form.Specialization == "" {
		fail(http.StatusBadRequest, "Specialization is required for doctors")
		return
	}

	req := apiclient.RegisterRequest{
		Email:     form.Email,
		Password:  password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     form.Phone,
		Role:      role,
	}
	if role == model.RoleDoctor {
		req.Specialization = form.Specialization
	}

	if err := s.api.Register(r.Context(), req); err != nil {
		fail(http.StatusBadRequest, apiclient.UserMessage(err))
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, err := s.sessions.Get(r.Context(), cookie.Value); err == nil {
			// Best effort; the session is gone locally either way.
			_ = s.api.Logout(r.Context(), sess.Token)
			_ = s.sessions.Delete(r.Context(), sess.ID)
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

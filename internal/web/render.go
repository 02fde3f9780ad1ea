package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/healthhub/healthhub-web/internal/model"
	"github.com/healthhub/healthhub-web/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"login",
	"register",
	"patient_dashboard",
	"patient_appointments",
	"book_edit",
	"book_confirm",
	"book_success",
	"doctor_dashboard",
	"doctor_appointments",
	"admin_dashboard",
	"admin_users",
	"admin_appointments",
	"cancel_confirm",
}

var templateFuncs = template.FuncMap{
	"statusBadge":   view.StatusBadge,
	"cancelContext": view.CancellationContext,
	"canCancel":     view.CanCancel,
	"formatDate":    view.FormatDate,
	"formatTime":    view.FormatTime,
	"doctorSummary": view.DoctorSummary,
	"doctorName":    view.DoctorDisplayName,
	"patientName":   view.PatientDisplayName,
	"shortDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("Jan 2, 2006 3:04 PM")
	},
}

func parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/nav.html",
			"templates/appointment_list.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

// basePage carries what the layout and navbar need; page structs embed
// it.
type basePage struct {
	Title string
	User  *model.User
	Links []view.NavLink
	Error string
}

func newBasePage(title string, user *model.User) basePage {
	p := basePage{Title: title, User: user}
	if user != nil {
		p.Links = view.LinksFor(user.Role)
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := s.templates[name]
	if !ok {
		log.Printf("unknown template %q", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Render to a buffer first so a template failure never writes half
	// a page.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

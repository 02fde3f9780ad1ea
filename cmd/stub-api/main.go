// Command stub-api is an in-memory stand-in for the real backend API.
// It serves the same endpoints and envelope shape so the web server can
// be developed and demoed without the production backend running.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthhub/healthhub-web/internal/apiclient"
	"github.com/healthhub/healthhub-web/internal/model"
)

const defaultPassword = "password123"

var specializations = []string{
	"Cardiology", "Dermatology", "Pediatrics", "Neurology", "Orthopedics",
}

type account struct {
	user         model.User
	passwordHash []byte
}

type store struct {
	mu           sync.Mutex
	accounts     map[string]*account // keyed by user ID
	byEmail      map[string]string   // email -> user ID
	appointments map[string]*model.Appointment
	secret       []byte
}

func newStore(secret []byte) *store {
	return &store{
		accounts:     make(map[string]*account),
		byEmail:      make(map[string]string),
		appointments: make(map[string]*model.Appointment),
		secret:       secret,
	}
}

func (s *store) addUser(u model.User, password string) (*account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acct := &account{user: u, passwordHash: hash}
	s.accounts[u.ID] = acct
	s.byEmail[strings.ToLower(u.Email)] = u.ID
	return acct, nil
}

// seed fills the store with one known admin plus faked doctors, patients
// and appointments so every page has something to show.
func (s *store) seed() error {
	faker := gofakeit.New(0)

	admin := model.User{
		ID:        uuid.NewString(),
		Email:     "admin@healthhub.dev",
		Role:      model.RoleAdmin,
		FirstName: "System",
		LastName:  "Admin",
		Phone:     faker.Phone(),
		CreatedAt: time.Now().Add(-90 * 24 * time.Hour),
	}
	if _, err := s.addUser(admin, defaultPassword); err != nil {
		return err
	}

	var doctors, patients []model.User
	for i := 0; i < 5; i++ {
		doc := model.User{
			ID:             uuid.NewString(),
			Email:          fmt.Sprintf("doctor%d@healthhub.dev", i+1),
			Role:           model.RoleDoctor,
			FirstName:      faker.FirstName(),
			LastName:       faker.LastName(),
			Phone:          faker.Phone(),
			Specialization: specializations[i%len(specializations)],
			CreatedAt:      time.Now().Add(-time.Duration(faker.Number(10, 80)) * 24 * time.Hour),
		}
		if _, err := s.addUser(doc, defaultPassword); err != nil {
			return err
		}
		doctors = append(doctors, doc)
	}
	for i := 0; i < 8; i++ {
		pat := model.User{
			ID:        uuid.NewString(),
			Email:     fmt.Sprintf("patient%d@healthhub.dev", i+1),
			Role:      model.RolePatient,
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Phone:     faker.Phone(),
			CreatedAt: time.Now().Add(-time.Duration(faker.Number(1, 60)) * 24 * time.Hour),
		}
		if _, err := s.addUser(pat, defaultPassword); err != nil {
			return err
		}
		patients = append(patients, pat)
	}

	statuses := []model.AppointmentStatus{
		model.StatusPending, model.StatusApproved, model.StatusCompleted,
		model.StatusCancelled, model.StatusRejected,
	}
	for i := 0; i < 20; i++ {
		doc := doctors[faker.Number(0, len(doctors)-1)]
		pat := patients[faker.Number(0, len(patients)-1)]
		status := statuses[i%len(statuses)]
		appt := &model.Appointment{
			ID:                   uuid.NewString(),
			PatientID:            pat.ID,
			DoctorID:             doc.ID,
			PatientName:          pat.FirstName + " " + pat.LastName,
			PatientEmail:         pat.Email,
			DoctorName:           doc.FirstName + " " + doc.LastName,
			DoctorEmail:          doc.Email,
			DoctorSpecialization: doc.Specialization,
			Date:                 time.Now().AddDate(0, 0, faker.Number(-20, 20)).Format("2006-01-02"),
			Time:                 fmt.Sprintf("%02d:%02d", faker.Number(9, 16), 30*faker.Number(0, 1)),
			Reason:               faker.Sentence(8),
			Status:               status,
			CreatedAt:            time.Now().Add(-time.Duration(faker.Number(1, 30)) * 24 * time.Hour),
		}
		if status == model.StatusCancelled {
			appt.CancelledBy = model.RolePatient
		}
		s.appointments[appt.ID] = appt
	}
	return nil
}

func (s *store) issueToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *store) userForToken(r *http.Request) (*model.User, bool) {
	auth := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || raw == "" {
		return nil, false
	}
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[claims.Subject]
	if !ok {
		return nil, false
	}
	user := acct.user
	return &user, true
}

func writeEnvelope(w http.ResponseWriter, status int, env apiclient.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeData(w http.ResponseWriter, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		writeFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeEnvelope(w, http.StatusOK, apiclient.Envelope{Success: true, Data: raw})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, apiclient.Envelope{Success: false, Message: message})
}

type server struct {
	store *store
}

// authed wraps a handler with bearer-token authentication, optionally
// restricted to one role.
func (s *server) authed(role model.Role, next func(http.ResponseWriter, *http.Request, *model.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.store.userForToken(r)
		if !ok {
			writeFail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if role != "" && user.Role != role {
			writeFail(w, http.StatusForbidden, "Not authorized")
			return
		}
		next(w, r, user)
	}
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.store.mu.Lock()
	id, ok := s.store.byEmail[strings.ToLower(req.Email)]
	var acct *account
	if ok {
		acct = s.store.accounts[id]
	}
	s.store.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		writeFail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.store.issueToken(acct.user.ID)
	if err != nil {
		writeFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeData(w, apiclient.LoginResult{User: acct.user, Token: token})
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req apiclient.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		writeFail(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.Role != model.RolePatient && req.Role != model.RoleDoctor {
		writeFail(w, http.StatusBadRequest, "Invalid role")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.byEmail[strings.ToLower(req.Email)]; exists {
		writeFail(w, http.StatusConflict, "An account with this email already exists")
		return
	}

	user := model.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		Role:           req.Role,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		CreatedAt:      time.Now(),
	}
	if _, err := s.store.addUser(user, req.Password); err != nil {
		writeFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeData(w, map[string]model.User{"user": user})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless, nothing to revoke here.
	writeEnvelope(w, http.StatusOK, apiclient.Envelope{Success: true})
}

func (s *server) handleProfile(w http.ResponseWriter, r *http.Request, user *model.User) {
	writeData(w, map[string]*model.User{"user": user})
}

func (s *server) handleDoctors(w http.ResponseWriter, r *http.Request, _ *model.User) {
	s.store.mu.Lock()
	var doctors []model.User
	for _, acct := range s.store.accounts {
		if acct.user.Role == model.RoleDoctor {
			doctors = append(doctors, acct.user)
		}
	}
	s.store.mu.Unlock()

	sort.Slice(doctors, func(i, j int) bool { return doctors[i].LastName < doctors[j].LastName })
	writeData(w, map[string][]model.User{"doctors": doctors})
}

func (s *server) handleUsers(w http.ResponseWriter, r *http.Request, _ *model.User) {
	s.store.mu.Lock()
	var users []model.User
	for _, acct := range s.store.accounts {
		users = append(users, acct.user)
	}
	s.store.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	writeData(w, map[string][]model.User{"users": users})
}

func (s *server) handleMyAppointments(w http.ResponseWriter, r *http.Request, user *model.User) {
	s.store.mu.Lock()
	var appts []model.Appointment
	for _, a := range s.store.appointments {
		if a.PatientID == user.ID || a.DoctorID == user.ID {
			appts = append(appts, *a)
		}
	}
	s.store.mu.Unlock()

	sortAppointments(appts)
	writeData(w, map[string][]model.Appointment{"appointments": appts})
}

func (s *server) handleAllAppointments(w http.ResponseWriter, r *http.Request, _ *model.User) {
	s.store.mu.Lock()
	var appts []model.Appointment
	for _, a := range s.store.appointments {
		appts = append(appts, *a)
	}
	s.store.mu.Unlock()

	sortAppointments(appts)
	writeData(w, map[string][]model.Appointment{"appointments": appts})
}

func sortAppointments(appts []model.Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date > appts[j].Date
		}
		return appts[i].Time > appts[j].Time
	})
}

func (s *server) handleCreateAppointment(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req apiclient.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DoctorID == "" || req.AppointmentDate == "" || req.AppointmentTime == "" || req.Reason == "" {
		writeFail(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	docAcct, ok := s.store.accounts[req.DoctorID]
	if !ok || docAcct.user.Role != model.RoleDoctor {
		writeFail(w, http.StatusBadRequest, "Doctor not found")
		return
	}
	for _, a := range s.store.appointments {
		if a.DoctorID == req.DoctorID && a.Date == req.AppointmentDate && a.Time == req.AppointmentTime &&
			a.Status != model.StatusCancelled && a.Status != model.StatusRejected {
			writeFail(w, http.StatusConflict, "This time slot is already booked. Please choose another time.")
			return
		}
	}

	doc := docAcct.user
	appt := &model.Appointment{
		ID:                   uuid.NewString(),
		PatientID:            user.ID,
		DoctorID:             doc.ID,
		PatientName:          user.FirstName + " " + user.LastName,
		PatientEmail:         user.Email,
		DoctorName:           doc.FirstName + " " + doc.LastName,
		DoctorEmail:          doc.Email,
		DoctorSpecialization: doc.Specialization,
		Date:                 req.AppointmentDate,
		Time:                 req.AppointmentTime,
		Reason:               req.Reason,
		Status:               model.StatusPending,
		CreatedAt:            time.Now(),
	}
	s.store.appointments[appt.ID] = appt
	writeData(w, map[string]*model.Appointment{"appointment": appt})
}

func (s *server) handleCancelAppointment(w http.ResponseWriter, r *http.Request, user *model.User) {
	id := chi.URLParam(r, "id")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	appt, ok := s.store.appointments[id]
	if !ok {
		writeFail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	switch user.Role {
	case model.RoleAdmin:
	case model.RolePatient:
		if appt.PatientID != user.ID {
			writeFail(w, http.StatusForbidden, "Not authorized")
			return
		}
	case model.RoleDoctor:
		if appt.DoctorID != user.ID {
			writeFail(w, http.StatusForbidden, "Not authorized")
			return
		}
	}
	if appt.Status != model.StatusPending && appt.Status != model.StatusApproved {
		writeFail(w, http.StatusConflict, "Only pending or approved appointments can be cancelled")
		return
	}

	appt.Status = model.StatusCancelled
	appt.CancelledBy = user.Role
	writeData(w, map[string]*model.Appointment{"appointment": appt})
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("stub-api starting up")

	port := os.Getenv("STUB_API_PORT")
	if port == "" {
		port = "8080"
	}
	secret := os.Getenv("STUB_API_JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
	}

	st := newStore([]byte(secret))
	if err := st.seed(); err != nil {
		log.Fatalf("seed error: %v", err)
	}
	log.Printf("seeded users=%d appointments=%d", len(st.accounts), len(st.appointments))
	log.Printf("login with admin@healthhub.dev / %s", defaultPassword)

	srv := &server{store: st}

	r := chi.NewRouter()
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	r.Post("/api/auth/login", srv.handleLogin)
	r.Post("/api/auth/register", srv.handleRegister)
	r.Post("/api/auth/logout", srv.handleLogout)
	r.Get("/api/auth/profile", srv.authed("", srv.handleProfile))
	r.Get("/api/users", srv.authed(model.RoleAdmin, srv.handleUsers))
	r.Get("/api/users/doctors", srv.authed("", srv.handleDoctors))
	r.Get("/api/appointments", srv.authed(model.RoleAdmin, srv.handleAllAppointments))
	r.Get("/api/appointments/my", srv.authed("", srv.handleMyAppointments))
	r.Post("/api/appointments", srv.authed(model.RolePatient, srv.handleCreateAppointment))
	r.Post("/api/appointments/{id}/cancel", srv.authed("", srv.handleCancelAppointment))

	log.Printf("listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}

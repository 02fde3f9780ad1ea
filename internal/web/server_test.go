package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthhub/healthhub-web/internal/apiclient"
	"github.com/healthhub/healthhub-web/internal/model"
	"github.com/healthhub/healthhub-web/internal/session"
)

// fakeBackend is a scriptable stand-in for the backend API.
type fakeBackend struct {
	mu          sync.Mutex
	user        model.User
	loginFail   bool
	profileFail bool
	doctors     []model.User
	appts       []model.Appointment
	createMsg   string // non-empty means create fails with this message
	cancelMsg   string // non-empty means cancel fails with this message
	cancelled   []string
}

func (b *fakeBackend) ok(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func (b *fakeBackend) fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == "/api/auth/login":
		if b.loginFail {
			b.fail(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		b.ok(w, map[string]any{"user": b.user, "token": "backend-token"})
	case r.URL.Path == "/api/auth/profile":
		if b.profileFail {
			b.fail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		b.ok(w, map[string]any{"user": b.user})
	case r.URL.Path == "/api/auth/register":
		b.ok(w, nil)
	case r.URL.Path == "/api/auth/logout":
		b.ok(w, nil)
	case r.URL.Path == "/api/users/doctors":
		b.ok(w, map[string]any{"doctors": b.doctors})
	case r.URL.Path == "/api/appointments/my" || (r.URL.Path == "/api/appointments" && r.Method == http.MethodGet):
		b.ok(w, map[string]any{"appointments": b.appts})
	case r.URL.Path == "/api/appointments" && r.Method == http.MethodPost:
		if b.createMsg != "" {
			b.fail(w, http.StatusConflict, b.createMsg)
			return
		}
		b.ok(w, nil)
	case strings.HasPrefix(r.URL.Path, "/api/appointments/") && strings.HasSuffix(r.URL.Path, "/cancel"):
		if b.cancelMsg != "" {
			b.fail(w, http.StatusConflict, b.cancelMsg)
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/appointments/"), "/cancel")
		b.cancelled = append(b.cancelled, id)
		b.ok(w, nil)
	default:
		b.fail(w, http.StatusNotFound, "Not found")
	}
}

type testEnv struct {
	backend  *fakeBackend
	sessions session.Store
	router   http.Handler
}

func newTestEnv(t *testing.T, backend *fakeBackend) *testEnv {
	t.Helper()

	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	sessions := session.NewMemoryStore(time.Hour)
	srv, err := NewServer(apiclient.New(ts.URL), sessions, "dev")
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Server:        srv,
		APIBaseURL:    ts.URL,
		Env:           "dev",
		Version:       "test",
		AuthRateRPS:   100,
		AuthRateBurst: 100,
	})
	return &testEnv{backend: backend, sessions: sessions, router: router}
}

// loggedIn creates a session and returns the cookie to send with
// requests.
func (e *testEnv) loggedIn(t *testing.T) *http.Cookie {
	t.Helper()
	sess, err := e.sessions.Create(context.Background(), "backend-token")
	require.NoError(t, err)
	return &http.Cookie{Name: "hh_session", Value: sess.ID}
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func patientUser() model.User {
	return model.User{
		ID:        "u1",
		Email:     "pat@x.example",
		Role:      model.RolePatient,
		FirstName: "John",
		LastName:  "Smith",
	}
}

func cardiologist() model.User {
	return model.User{
		ID:             "d1",
		Email:          "jane@clinic.example",
		Role:           model.RoleDoctor,
		FirstName:      "Jane",
		LastName:       "Doe",
		Specialization: "Cardiology",
	}
}

func TestRootRedirectsToLoginWithoutSession(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{user: patientUser()})
	rec := env.get("/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLoginSuccessRedirectsToDashboard(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{user: patientUser()})

	rec := env.postForm("/login", url.Values{
		"email":    {"pat@x.example"},
		"password": {"secret"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/patient/dashboard", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "hh_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// The cookie maps to a stored session carrying the backend token.
	sess, err := env.sessions.Get(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "backend-token", sess.Token)
}

func TestLoginFailureRendersMessage(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{user: patientUser(), loginFail: true})

	rec := env.postForm("/login", url.Values{
		"email":    {"pat@x.example"},
		"password": {"wrong"},
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	assert.Contains(t, rec.Body.String(), "pat@x.example", "entered email is kept in the form")
}

func TestAdminLandsOnAdminDashboard(t *testing.T) {
	admin := patientUser()
	admin.Role = model.RoleAdmin
	env := newTestEnv(t, &fakeBackend{user: admin})

	rec := env.postForm("/login", url.Values{"email": {"a"}, "password": {"b"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
}

func TestProfileFailureRedirectsToLoginAndDropsSession(t *testing.T) {
	backend := &fakeBackend{user: patientUser(), profileFail: true}
	env := newTestEnv(t, backend)
	cookie := env.loggedIn(t)

	rec := env.get("/patient/dashboard", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// The session is gone and the cookie is expired.
	_, err := env.sessions.Get(context.Background(), cookie.Value)
	assert.ErrorIs(t, err, session.ErrNotFound)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "hh_session", cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestUnknownSessionCookieRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{user: patientUser()})
	rec := env.get("/patient/dashboard", &http.Cookie{Name: "hh_session", Value: "stale"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestWrongRoleIsRedirectedHome(t *testing.T) {
	doctor := cardiologist()
	env := newTestEnv(t, &fakeBackend{user: doctor})
	cookie := env.loggedIn(t)

	rec := env.get("/patient/dashboard", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/doctor/dashboard", rec.Header().Get("Location"))
}

func TestPatientDashboardRendersStats(t *testing.T) {
	backend := &fakeBackend{
		user: patientUser(),
		appts: []model.Appointment{
			{ID: "a1", Status: model.StatusPending, Date: "2025-06-01", Time: "09:00", DoctorName: "Jane Doe"},
			{ID: "a2", Status: model.StatusApproved, Date: "2025-06-02", Time: "10:00", DoctorName: "Jane Doe"},
		},
	}
	env := newTestEnv(t, backend)

	rec := env.get("/patient/dashboard", env.loggedIn(t))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Patient Dashboard")
	assert.Contains(t, body, "Jane Doe")
}

func TestAppointmentListStatusFilter(t *testing.T) {
	backend := &fakeBackend{
		user: patientUser(),
		appts: []model.Appointment{
			{ID: "a1", Status: model.StatusPending, Date: "2025-06-01", Time: "09:00", Reason: "pending visit reason"},
			{ID: "a2", Status: model.StatusCancelled, Date: "2025-06-02", Time: "10:00", Reason: "cancelled visit reason", CancelledBy: model.RolePatient},
		},
	}
	env := newTestEnv(t, backend)
	cookie := env.loggedIn(t)

	all := env.get("/patient/appointments", cookie)
	require.Equal(t, http.StatusOK, all.Code)
	assert.Contains(t, all.Body.String(), "pending visit reason")
	assert.Contains(t, all.Body.String(), "cancelled visit reason")
	assert.Contains(t, all.Body.String(), "Cancelled by you")

	filtered := env.get("/patient/appointments?status=PENDING", cookie)
	require.Equal(t, http.StatusOK, filtered.Code)
	assert.Contains(t, filtered.Body.String(), "pending visit reason")
	assert.NotContains(t, filtered.Body.String(), "cancelled visit reason")
}

func TestBookSubmitShowsConfirmation(t *testing.T) {
	backend := &fakeBackend{user: patientUser(), doctors: []model.User{cardiologist()}}
	env := newTestEnv(t, backend)

	rec := env.postForm("/patient/book", url.Values{
		"doctorId":        {"d1"},
		"appointmentDate": {"2025-06-01"},
		"appointmentTime": {"09:00"},
		"reason":          {"Persistent headaches for two weeks"},
	}, env.loggedIn(t))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Dr. Jane Doe (Cardiology)")
	assert.Contains(t, body, "Sunday, June 1, 2025")
	assert.Contains(t, body, "9:00 AM")
	assert.Contains(t, body, "Persistent headaches for two weeks")
}

func TestBookSubmitShortReasonStaysEditing(t *testing.T) {
	backend := &fakeBackend{user: patientUser(), doctors: []model.User{cardiologist()}}
	env := newTestEnv(t, backend)

	rec := env.postForm("/patient/book", url.Values{
		"doctorId":        {"d1"},
		"appointmentDate": {"2025-06-01"},
		"appointmentTime": {"09:00"},
		"reason":          {"too short"},
	}, env.loggedIn(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please provide a more detailed reason (at least 10 characters)")
	assert.Contains(t, body, "too short", "entered reason is preserved")
}

func TestBookSubmitMissingFields(t *testing.T) {
	backend := &fakeBackend{user: patientUser(), doctors: []model.User{cardiologist()}}
	env := newTestEnv(t, backend)

	rec := env.postForm("/patient/book", url.Values{
		"doctorId": {"d1"},
	}, env.loggedIn(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please fill in all required fields")
}

func TestBookConfirmSuccess(t *testing.T) {
	backend := &fakeBackend{user: patientUser(), doctors: []model.User{cardiologist()}}
	env := newTestEnv(t, backend)

	rec := env.postForm("/patient/book/confirm", url.Values{
		"doctorId":        {"d1"},
		"appointmentDate": {"2025-06-01"},
		"appointmentTime": {"09:00"},
		"reason":          {"Persistent headaches for two weeks"},
	}, env.loggedIn(t))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Appointment Booked")
	assert.Contains(t, body, "pending approval from the doctor")
}

func TestBookConfirmBackendRejectionReturnsToEditing(t *testing.T) {
	backend := &fakeBackend{
		user:      patientUser(),
		doctors:   []model.User{cardiologist()},
		createMsg: "This time slot is already booked. Please choose another time.",
	}
	env := newTestEnv(t, backend)

	rec := env.postForm("/patient/book/confirm", url.Values{
		"doctorId":        {"d1"},
		"appointmentDate": {"2025-06-01"},
		"appointmentTime": {"09:00"},
		"reason":          {"Persistent headaches for two weeks"},
	}, env.loggedIn(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "This time slot is already booked. Please choose another time.")
	assert.Contains(t, body, "Persistent headaches for two weeks", "fields survive the rejection")
}

func TestBookBackKeepsFields(t *testing.T) {
	backend := &fakeBackend{user: patientUser(), doctors: []model.User{cardiologist()}}
	env := newTestEnv(t, backend)

	rec := env.postForm("/patient/book/back", url.Values{
		"doctorId":        {"d1"},
		"appointmentDate": {"2025-06-01"},
		"appointmentTime": {"09:00"},
		"reason":          {"Persistent headaches for two weeks"},
	}, env.loggedIn(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Persistent headaches for two weeks")
}

func TestCancelConfirmPage(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{user: patientUser()})

	rec := env.get("/appointments/a1/cancel?return=/patient/appointments", env.loggedIn(t))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Are you sure you want to cancel this appointment?")
	assert.Contains(t, body, "/patient/appointments")
}

func TestCancelRedirectsBackToList(t *testing.T) {
	backend := &fakeBackend{user: patientUser()}
	env := newTestEnv(t, backend)

	rec := env.postForm("/appointments/a1/cancel", url.Values{
		"return": {"/patient/appointments?status=PENDING"},
	}, env.loggedIn(t))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/patient/appointments?status=PENDING", rec.Header().Get("Location"))

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, []string{"a1"}, backend.cancelled)
}

func TestCancelFailureRendersMessage(t *testing.T) {
	backend := &fakeBackend{user: patientUser(), cancelMsg: "Only pending or approved appointments can be cancelled"}
	env := newTestEnv(t, backend)

	rec := env.postForm("/appointments/a1/cancel", url.Values{
		"return": {"/patient/appointments"},
	}, env.loggedIn(t))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only pending or approved appointments can be cancelled")
}

func TestCancelReturnPathIsKeptOnSite(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{user: patientUser()})

	rec := env.postForm("/appointments/a1/cancel", url.Values{
		"return": {"//evil.example/phish"},
	}, env.loggedIn(t))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/patient/dashboard", rec.Header().Get("Location"))
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{user: patientUser()})
	cookie := env.loggedIn(t)

	rec := env.postForm("/logout", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	_, err := env.sessions.Get(context.Background(), cookie.Value)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{user: patientUser()})

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{
			"password mismatch",
			url.Values{"password": {"secret1"}, "confirmPassword": {"secret2"}, "phone": {"555"}},
			"Passwords do not match",
		},
		{
			"short password",
			url.Values{"password": {"abc"}, "confirmPassword": {"abc"}, "phone": {"555"}},
			"Password must be at least 6 characters",
		},
		{
			"missing phone",
			url.Values{"password": {"secret1"}, "confirmPassword": {"secret1"}},
			"Phone number is required",
		},
		{
			"admin role rejected",
			url.Values{"password": {"secret1"}, "confirmPassword": {"secret1"}, "phone": {"555"}, "role": {"ADMIN"}},
			"Please choose a valid account type",
		},
		{
			"doctor without specialization",
			url.Values{"password": {"secret1"}, "confirmPassword": {"secret1"}, "phone": {"555"}, "role": {"DOCTOR"}},
			"Specialization is required for doctors",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.postForm("/register", tt.form, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestRegisterSuccessRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, &fakeBackend{user: patientUser()})

	rec := env.postForm("/register", url.Values{
		"firstName":       {"John"},
		"lastName":        {"Smith"},
		"email":           {"new@x.example"},
		"phone":           {"555-0100"},
		"role":            {"PATIENT"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLoginRateLimit(t *testing.T) {
	ts := httptest.NewServer(&fakeBackend{user: patientUser(), loginFail: true})
	t.Cleanup(ts.Close)

	srv, err := NewServer(apiclient.New(ts.URL), session.NewMemoryStore(time.Hour), "dev")
	require.NoError(t, err)
	router := NewRouter(RouterConfig{
		Server:        srv,
		APIBaseURL:    ts.URL,
		Env:           "dev",
		Version:       "test",
		AuthRateRPS:   0.1,
		AuthRateBurst: 2,
	})

	form := url.Values{"email": {"a@b.c"}, "password": {"x"}}
	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// The page GET is not rate limited.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

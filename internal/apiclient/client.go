// Package apiclient is the typed HTTP client for the backend API. Every
// backend response uses the same envelope: success, optional data,
// optional human-readable message on failure.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/healthhub/healthhub-web/internal/model"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Error is a request that reached the backend but came back with a
// non-success envelope. Message is what the backend wants shown to the
// user.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// UserMessage extracts the displayable message from a client call error,
// falling back to a generic line for transport-level failures.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "An error occurred. Please try again."
}

type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type LoginResult struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type RegisterRequest struct {
	Email          string     `json:"email"`
	Password       string     `json:"password"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Phone          string     `json:"phone"`
	Role           model.Role `json:"role"`
	Specialization string     `json:"specialization,omitempty"`
}

type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Reason          string `json:"reason"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", "", req, nil)
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

// GetProfile returns the current user. Any failure, transport or
// envelope, is reported as ErrNotLoggedIn so callers can treat it
// uniformly as an unauthenticated state.
func (c *Client) GetProfile(ctx context.Context, token string) (*model.User, error) {
	var res struct {
		User model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", token, nil, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLoggedIn, err)
	}
	return &res.User, nil
}

func (c *Client) GetDoctors(ctx context.Context, token string) ([]model.User, error) {
	var res struct {
		Doctors []model.User `json:"doctors"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/doctors", token, nil, &res); err != nil {
		return nil, err
	}
	return res.Doctors, nil
}

func (c *Client) GetAllUsers(ctx context.Context, token string) ([]model.User, error) {
	var res struct {
		Users []model.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users", token, nil, &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

func (c *Client) GetMyAppointments(ctx context.Context, token string) ([]model.Appointment, error) {
	return c.appointments(ctx, "/api/appointments/my", token)
}

func (c *Client) GetAllAppointments(ctx context.Context, token string) ([]model.Appointment, error) {
	return c.appointments(ctx, "/api/appointments", token)
}

func (c *Client) appointments(ctx context.Context, path, token string) ([]model.Appointment, error) {
	var res struct {
		Appointments []model.Appointment `json:"appointments"`
	}
	if err := c.do(ctx, http.MethodGet, path, token, nil, &res); err != nil {
		return nil, err
	}
	return res.Appointments, nil
}

func (c *Client) CreateAppointment(ctx context.Context, token string, req CreateAppointmentRequest) error {
	return c.do(ctx, http.MethodPost, "/api/appointments", token, req, nil)
}

func (c *Client) CancelAppointment(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodPost, "/api/appointments/"+id+"/cancel", token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}

	if !env.Success {
		return &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data for %s %s: %w", method, path, err)
		}
	}
	return nil
}

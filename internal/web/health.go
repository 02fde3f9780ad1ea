package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	redis      *redis.Client // nil when sessions are in memory
	apiBaseURL string
	client     *http.Client
	env        string
	version    string
}

func NewHealthHandler(rdb *redis.Client, apiBaseURL, env, version string) *HealthHandler {
	return &HealthHandler{
		redis:      rdb,
		apiBaseURL: apiBaseURL,
		client:     &http.Client{Timeout: 2 * time.Second},
		env:        env,
		version:    version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	status := "ok"

	// Check the session store
	if h.redis != nil {
		redisCtx, redisCancel := context.WithTimeout(ctx, 1*time.Second)
		err := h.redis.Ping(redisCtx).Err()
		redisCancel()
		if err != nil {
			deps["redis"] = "down"
			status = "error"
		} else {
			deps["redis"] = "ok"
		}
	} else {
		deps["sessions"] = "memory"
	}

	// Check the backend API; the frontend degrades but still serves
	// the login page without it.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.apiBaseURL+"/health/live", nil)
	if err == nil {
		resp, doErr := h.client.Do(req)
		if doErr != nil || resp.StatusCode >= 500 {
			deps["backend"] = "down"
			if status == "ok" {
				status = "degraded"
			} else {
				status = "error"
			}
		} else {
			deps["backend"] = "ok"
		}
		if doErr == nil {
			resp.Body.Close()
		}
	}

	resp := ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

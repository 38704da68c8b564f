package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a dependency the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type DependencyStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type HealthResponse struct {
	Status       string             `json:"status"`
	Timestamp    string             `json:"timestamp"`
	Uptime       string             `json:"uptime"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

type dependency struct {
	name   string
	pinger Pinger
}

type HealthHandler struct {
	deps    []dependency
	started time.Time
	timeout time.Duration
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now(), timeout: 3 * time.Second}
}

// Add registers a named dependency, checked in registration order
func (h *HealthHandler) Add(name string, p Pinger) *HealthHandler {
	h.deps = append(h.deps, dependency{name: name, pinger: p})
	return h
}

func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Check)
}

// Check handles GET /health. Any unhealthy dependency turns the response into a 503.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		Dependencies: make([]DependencyStatus, 0, len(h.deps)),
	}

	for _, dep := range h.deps {
		start := time.Now()
		status := DependencyStatus{Name: dep.name, Status: "healthy"}
		if err := dep.pinger.Ping(ctx); err != nil {
			status.Status = "unhealthy"
			status.Error = err.Error()
			resp.Status = "unhealthy"
		}
		status.Latency = time.Since(start).String()
		resp.Dependencies = append(resp.Dependencies, status)
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

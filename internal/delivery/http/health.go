package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Pinger verifies connectivity to a backing component
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// namedPinger pairs a component name with its connectivity check
type namedPinger struct {
	name   string
	pinger Pinger
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	components []namedPinger
	logger     zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(db Pinger, cache Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		components: []namedPinger{
			{name: "postgres", pinger: db},
			{name: "redis", pinger: cache},
		},
		logger: logger,
	}
}

// ServeHTTP implements http.Handler interface
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := make([]ComponentHealth, 0, len(h.components))
	for _, c := range h.components {
		health := ComponentHealth{Name: c.name, Healthy: true}
		if err := c.pinger.Ping(ctx); err != nil {
			health.Healthy = false
			health.Message = err.Error()
		}
		components = append(components, health)
	}

	status := overallStatus(components)

	statusCode := http.StatusOK
	if status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logEvent := h.logger.Debug()
	if status != HealthStatusHealthy {
		logEvent = h.logger.Warn()
	}
	logEvent.
		Str("status", string(status)).
		Int("status_code", statusCode).
		Msg("Health check completed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
	}
}

// overallStatus folds component health into one status
func overallStatus(components []ComponentHealth) HealthStatus {
	allHealthy := true
	anyHealthy := false

	for _, c := range components {
		if c.Healthy {
			anyHealthy = true
		} else {
			allHealthy = false
		}
	}

	if allHealthy {
		return HealthStatusHealthy
	}
	if anyHealthy {
		return HealthStatusDegraded
	}
	return HealthStatusUnhealthy
}

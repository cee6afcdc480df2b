package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthChecker reports whether an optimization run is still making
// progress. The CLI run loop feeds it through RecordRound and RecordFailure.
type HealthChecker struct {
	mu        sync.RWMutex
	lastRound time.Time
	errors    []string
}

// HealthStatus is the JSON payload of the health endpoint.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LastRound time.Time `json:"last_round"`
	Uptime    string    `json:"uptime"`
	Errors    []string  `json:"errors,omitempty"`
}

// NewHealthChecker creates a health checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// ServeHTTP serves the health endpoint.
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if h.lastRound.IsZero() || time.Since(h.lastRound) > time.Hour {
		status = "idle"
	}
	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		LastRound: h.lastRound,
		Uptime:    time.Since(startTime).String(),
		Errors:    h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// RecordRound marks a completed evolution round.
func (h *HealthChecker) RecordRound() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRound = time.Now()
}

// RecordFailure records a run failure. Only the most recent failures are
// kept.
func (h *HealthChecker) RecordFailure(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
	if len(h.errors) > 10 {
		h.errors = h.errors[len(h.errors)-10:]
	}
}

var startTime = time.Now()

package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker exposes process liveness over HTTP. The bot reports the
// last completed cycle, the last dispatched signal and any recent errors.
type HealthChecker struct {
	mu           sync.RWMutex
	lastCycle    time.Time
	lastSignal   time.Time
	signalsToday int
	signalsDay   time.Time
	isConnected  bool
	errors       []string
}

// HealthStatus is the JSON body served on /health.
type HealthStatus struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	LastCycle    time.Time `json:"last_cycle"`
	LastSignal   time.Time `json:"last_signal,omitempty"`
	SignalsToday int       `json:"signals_today"`
	IsConnected  bool      `json:"is_connected"`
	Uptime       string    `json:"uptime"`
	Errors       []string  `json:"errors,omitempty"`
}

// NewHealthChecker creates a health checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// MarkCycle records a completed evaluation cycle.
func (h *HealthChecker) MarkCycle(at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastCycle = at
}

// RecordSignal records a dispatched signal, rolling the daily counter over
// at midnight UTC.
func (h *HealthChecker) RecordSignal(at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	day := at.UTC().Truncate(24 * time.Hour)
	if !day.Equal(h.signalsDay) {
		h.signalsDay = day
		h.signalsToday = 0
	}
	h.signalsToday++
	h.lastSignal = at
}

// SetConnected flags market-data connectivity.
func (h *HealthChecker) SetConnected(connected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.isConnected = connected
}

// AddError appends a recent error, keeping the last ten.
func (h *HealthChecker) AddError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
	if len(h.errors) > 10 {
		h.errors = h.errors[len(h.errors)-10:]
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if !h.isConnected || (!h.lastCycle.IsZero() && time.Since(h.lastCycle) > 2*time.Hour) {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	health := HealthStatus{
		Status:       status,
		Timestamp:    time.Now(),
		LastCycle:    h.lastCycle,
		LastSignal:   h.lastSignal,
		SignalsToday: h.signalsToday,
		IsConnected:  h.isConnected,
		Uptime:       time.Since(startTime).String(),
		Errors:       h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

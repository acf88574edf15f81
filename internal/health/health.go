// Package health provides liveness and readiness endpoints for the robotics API.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Module names this service in probe responses.
const Module = "robotics"

// Checker is a dependency that readiness depends on.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthCheck manages health check functionality.
type HealthCheck struct {
	checkers      []Checker
	version       string
	logger        *zap.Logger
	checkTimeout  time.Duration
	checkInterval time.Duration
	onChange      func(ready bool)

	mu        sync.RWMutex
	ready     bool
	checks    map[string]string
	lastCheck time.Time
}

// NewHealthCheck creates a new HealthCheck instance.
func NewHealthCheck(version string, logger *zap.Logger, checkers ...Checker) *HealthCheck {
	sorted := append([]Checker(nil), checkers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })

	return &HealthCheck{
		checkers:      sorted,
		version:       version,
		logger:        logger,
		checkTimeout:  5 * time.Second,
		checkInterval: 5 * time.Second,
		checks:        map[string]string{},
	}
}

// OnChange registers fn to be called whenever readiness flips.
func (hc *HealthCheck) OnChange(fn func(ready bool)) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.onChange = fn
}

// LivenessResponse represents the response for the liveness check.
type LivenessResponse struct {
	Status  string `json:"status"`
	Module  string `json:"module"`
	Version string `json:"version"`
}

// ReadinessResponse represents the response for the readiness check.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler handles GET /health requests.
// Returns 200 OK if the process is running.
func (hc *HealthCheck) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "healthy",
		Module:  Module,
		Version: hc.version,
	})
}

// ReadinessHandler handles GET /ready requests. A cached positive result is
// served as-is; otherwise the dependencies are checked again.
func (hc *HealthCheck) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ready, checks := hc.snapshot()
	if !ready {
		ctx, cancel := context.WithTimeout(r.Context(), hc.checkTimeout)
		ready, checks = hc.CheckNow(ctx)
		cancel()
	}

	if ready {
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Checks: checks})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Checks: checks})
}

// CheckNow runs every checker, stores the result and returns it.
func (hc *HealthCheck) CheckNow(ctx context.Context) (bool, map[string]string) {
	checks := make(map[string]string, len(hc.checkers))
	ready := true

	for _, c := range hc.checkers {
		if err := c.Check(ctx); err != nil {
			hc.logger.Warn("health check failed", zap.String("check", c.Name()), zap.Error(err))
			checks[c.Name()] = "unhealthy: " + err.Error()
			ready = false
			continue
		}
		checks[c.Name()] = "healthy"
	}

	hc.mu.Lock()
	changed := hc.ready != ready || hc.lastCheck.IsZero()
	hc.ready = ready
	hc.checks = checks
	hc.lastCheck = time.Now()
	onChange := hc.onChange
	hc.mu.Unlock()

	if changed && onChange != nil {
		onChange(ready)
	}

	return ready, copyChecks(checks)
}

// Run re-checks dependencies every interval until ctx is done.
func (hc *HealthCheck) Run(ctx context.Context) {
	ticker := time.NewTicker(hc.checkInterval)
	defer ticker.Stop()

	for {
		checkCtx, cancel := context.WithTimeout(ctx, hc.checkTimeout)
		hc.CheckNow(checkCtx)
		cancel()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// IsReady returns the current readiness status.
func (hc *HealthCheck) IsReady() bool {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.ready
}

// SetReady sets the readiness status (for testing).
func (hc *HealthCheck) SetReady(ready bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.ready = ready
}

func (hc *HealthCheck) snapshot() (bool, map[string]string) {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.ready, copyChecks(hc.checks)
}

func copyChecks(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Package health runs dependency checks behind the readiness route. The
// liveness route never goes through here; it must answer even when every
// dependency is down.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check is a single named dependency probe.
type Check interface {
	Name() string
	Check(ctx context.Context) Result
}

// Result is the outcome of one probe.
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Checker fans registered probes out in parallel and aggregates the result.
type Checker struct {
	checks []Check
	mu     sync.RWMutex
}

func NewChecker() *Checker {
	return &Checker{checks: make([]Check, 0)}
}

func (c *Checker) Register(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check)
}

func (c *Checker) Check(ctx context.Context) map[string]Result {
	c.mu.RLock()
	checks := make([]Check, len(c.checks))
	copy(checks, c.checks)
	c.mu.RUnlock()

	results := make(map[string]Result)
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, check := range checks {
		wg.Add(1)
		go func(ch Check) {
			defer wg.Done()
			start := time.Now()
			res := ch.Check(ctx)
			res.Duration = time.Since(start)
			mu.Lock()
			results[ch.Name()] = res
			mu.Unlock()
		}(check)
	}
	wg.Wait()
	return results
}

func (c *Checker) OverallStatus(results map[string]Result) Status {
	hasDegraded := false
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// Handler serves the readiness route: 200 when every probe passes, 503
// otherwise.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		results := c.Check(ctx)
		overall := c.OverallStatus(results)
		resp := map[string]interface{}{
			"status":    overall,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    results,
		}
		w.Header().Set("Content-Type", "application/json")
		statusCode := http.StatusOK
		if overall == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(resp)
	}
}

// Pinger is the store surface the database probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseCheck probes store connectivity.
type DatabaseCheck struct {
	db Pinger
}

func NewDatabaseCheck(db Pinger) *DatabaseCheck {
	return &DatabaseCheck{db: db}
}

func (d *DatabaseCheck) Name() string { return "database" }

func (d *DatabaseCheck) Check(ctx context.Context) Result {
	start := time.Now()
	err := d.db.Ping(ctx)
	duration := time.Since(start)
	res := Result{Name: d.Name(), Duration: duration}
	switch {
	case err != nil:
		res.Status = StatusUnhealthy
		res.Message = "database connection failed"
	case duration > 100*time.Millisecond:
		res.Status = StatusDegraded
		res.Message = "database responding slowly"
	default:
		res.Status = StatusHealthy
	}
	return res
}

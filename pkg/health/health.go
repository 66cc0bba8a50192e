// Package health reports whether the process can answer queries. Components
// register checks that return nil when healthy; the report is served next to
// the Prometheus metrics.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// ErrDegraded marks a check failure that leaves the process usable, such as
// an unreachable optional cache.
var ErrDegraded = errors.New("degraded")

// Check probes one component.
type Check func(ctx context.Context) error

type ComponentHealth struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency"`
}

type Report struct {
	Status     Status            `json:"status"`
	Components []ComponentHealth `json:"components"`
	Timestamp  string            `json:"timestamp"`
}

type Checker struct {
	mu     sync.RWMutex
	names  []string
	checks map[string]Check
}

func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// Register adds or replaces the check called name.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.checks[name]; !ok {
		c.names = append(c.names, name)
		sort.Strings(c.names)
	}
	c.checks[name] = check
}

// Run executes every check concurrently. The overall status is the worst
// component status.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	names := append([]string(nil), c.names...)
	checks := make([]Check, len(names))
	for i, n := range names {
		checks[i] = c.checks[n]
	}
	c.mu.RUnlock()

	components := make([]ComponentHealth, len(names))
	var g errgroup.Group
	g.SetLimit(4)
	for i := range names {
		g.Go(func() error {
			start := time.Now()
			err := checks[i](ctx)
			ch := ComponentHealth{
				Name:    names[i],
				Status:  StatusUp,
				Latency: time.Since(start).Round(time.Microsecond).String(),
			}
			switch {
			case err == nil:
			case errors.Is(err, ErrDegraded):
				ch.Status = StatusDegraded
				ch.Message = err.Error()
			default:
				ch.Status = StatusDown
				ch.Message = err.Error()
			}
			components[i] = ch
			return nil
		})
	}
	g.Wait()

	report := Report{
		Status:     StatusUp,
		Components: components,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	for _, comp := range components {
		switch comp.Status {
		case StatusDown:
			report.Status = StatusDown
			return report
		case StatusDegraded:
			report.Status = StatusDegraded
		}
	}
	return report
}

// Handler serves the report as JSON, with 503 when any component is down.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report := c.Run(ctx)
		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusDown {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(report)
	}
}

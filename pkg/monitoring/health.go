package monitoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a single health check
type HealthCheck struct {
	Name        string        `json:"name"`
	Status      HealthStatus  `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration"`
}

// HealthReport represents the overall health report
type HealthReport struct {
	Status    HealthStatus  `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Service   string        `json:"service"`
	Checks    []HealthCheck `json:"checks"`
}

// HealthChecker interface for health check implementations
type HealthChecker interface {
	Check(ctx context.Context) HealthCheck
}

// HealthManager manages health checks
type HealthManager struct {
	serviceName string
	checkers    map[string]HealthChecker
	mu          sync.RWMutex
	timeout     time.Duration
}

// NewHealthManager creates a new health manager
func NewHealthManager(serviceName string) *HealthManager {
	return &HealthManager{
		serviceName: serviceName,
		checkers:    make(map[string]HealthChecker),
		timeout:     5 * time.Second,
	}
}

// Register adds a health checker under the given name
func (m *HealthManager) Register(name string, checker HealthChecker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers[name] = checker
}

// Report runs every registered checker and aggregates the results
func (m *HealthManager) Report(ctx context.Context) HealthReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report := HealthReport{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Service:   m.serviceName,
	}

	for _, checker := range m.checkers {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		check := checker.Check(checkCtx)
		cancel()

		if check.Status != HealthStatusHealthy {
			report.Status = HealthStatusUnhealthy
		}
		report.Checks = append(report.Checks, check)
	}

	return report
}

// Handler returns an HTTP handler serving the health report
func (m *HealthManager) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := m.Report(r.Context())

		statusCode := http.StatusOK
		if report.Status != HealthStatusHealthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(report)
	})
}

// DatabaseHealthChecker checks database connectivity
type DatabaseHealthChecker struct {
	db   *sql.DB
	name string
}

// NewDatabaseHealthChecker creates a new database health checker
func NewDatabaseHealthChecker(db *sql.DB, name string) *DatabaseHealthChecker {
	return &DatabaseHealthChecker{db: db, name: name}
}

// Check pings the database
func (c *DatabaseHealthChecker) Check(ctx context.Context) HealthCheck {
	start := time.Now()
	check := HealthCheck{
		Name:        c.name,
		Status:      HealthStatusHealthy,
		LastChecked: start,
	}

	if err := c.db.PingContext(ctx); err != nil {
		check.Status = HealthStatusUnhealthy
		check.Message = err.Error()
	}

	check.Duration = time.Since(start)
	return check
}

// Package monitoring tracks request and task-store call metrics and runs health checks.
package monitoring

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type RequestMetrics struct {
	RequestCount    int64            `json:"request_count"`
	AvgDurationMs   float64          `json:"avg_request_duration_ms"`
	ActiveRequests  int64            `json:"active_requests"`
	ErrorCount      int64            `json:"error_count"`
	StatusCodes     map[string]int64 `json:"status_codes"`
	Endpoints       map[string]int64 `json:"endpoint_calls"`
	StartTime       time.Time        `json:"start_time"`
	LastRequest     time.Time        `json:"last_request"`
	totalDuration   time.Duration
}

// StoreCallMetrics aggregates calls made by the task store client, per operation.
type StoreCallMetrics struct {
	Calls         int64   `json:"calls"`
	Failures      int64   `json:"failures"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	LastError     string  `json:"last_error,omitempty"`
	totalDuration time.Duration
}

type HealthCheck struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	LastRun time.Time `json:"last_run"`
}

type HealthCheckFunc func(ctx context.Context) error

type Monitor struct {
	mu         sync.RWMutex
	requests   RequestMetrics
	storeCalls map[string]*StoreCallMetrics
	checks     map[string]HealthCheckFunc
	timeout    time.Duration
}

func New() *Monitor {
	return &Monitor{
		requests: RequestMetrics{
			StatusCodes: make(map[string]int64),
			Endpoints:   make(map[string]int64),
			StartTime:   time.Now(),
		},
		storeCalls: make(map[string]*StoreCallMetrics),
		checks:     make(map[string]HealthCheckFunc),
		timeout:    5 * time.Second,
	}
}

func (m *Monitor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mu.Lock()
		m.requests.ActiveRequests++
		m.mu.Unlock()

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()
		endpoint := c.Request.Method + " " + c.FullPath()

		m.mu.Lock()
		defer m.mu.Unlock()
		r := &m.requests
		r.RequestCount++
		r.ActiveRequests--
		r.totalDuration += duration
		r.AvgDurationMs = float64(r.totalDuration.Milliseconds()) / float64(r.RequestCount)
		r.LastRequest = time.Now()
		if statusCode >= 400 {
			r.ErrorCount++
		}
		r.StatusCodes[http.StatusText(statusCode)]++
		r.Endpoints[endpoint]++
	}
}

// RecordStoreCall has the shape of client.Observer.
func (m *Monitor) RecordStoreCall(op string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.storeCalls[op]
	if !ok {
		s = &StoreCallMetrics{}
		m.storeCalls[op] = s
	}
	s.Calls++
	s.totalDuration += duration
	s.AvgDurationMs = float64(s.totalDuration.Milliseconds()) / float64(s.Calls)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.Failures++
		s.LastError = err.Error()
	}
}

func (m *Monitor) Requests() RequestMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.requests
	out.StatusCodes = make(map[string]int64, len(m.requests.StatusCodes))
	out.Endpoints = make(map[string]int64, len(m.requests.Endpoints))
	for k, v := range m.requests.StatusCodes {
		out.StatusCodes[k] = v
	}
	for k, v := range m.requests.Endpoints {
		out.Endpoints[k] = v
	}
	return out
}

func (m *Monitor) StoreCalls() map[string]StoreCallMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]StoreCallMetrics, len(m.storeCalls))
	for op, s := range m.storeCalls {
		out[op] = *s
	}
	return out
}

func (m *Monitor) RegisterHealthCheck(name string, check HealthCheckFunc) {
	m.mu.Lock()
	m.checks[name] = check
	m.mu.Unlock()
}

// RunHealthChecks runs every registered check with its own timeout.
func (m *Monitor) RunHealthChecks(ctx context.Context) []HealthCheck {
	m.mu.RLock()
	names := make([]string, 0, len(m.checks))
	funcs := make(map[string]HealthCheckFunc, len(m.checks))
	for name, fn := range m.checks {
		names = append(names, name)
		funcs[name] = fn
	}
	m.mu.RUnlock()
	sort.Strings(names)

	results := make([]HealthCheck, 0, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := funcs[name](checkCtx)
		cancel()

		check := HealthCheck{Name: name, Status: "healthy", LastRun: time.Now()}
		if err != nil {
			check.Status = "unhealthy"
			check.Message = err.Error()
		}
		results = append(results, check)
	}
	return results
}

type SystemMetrics struct {
	Uptime         string      `json:"uptime"`
	MemoryUsage    MemoryStats `json:"memory"`
	GoroutineCount int         `json:"goroutine_count"`
	CPUCount       int         `json:"cpu_count"`
	GoVersion      string      `json:"go_version"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc_mb"`
	TotalAlloc uint64 `json:"total_alloc_mb"`
	Sys        uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
}

func (m *Monitor) System() SystemMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return SystemMetrics{
		Uptime: time.Since(m.requests.StartTime).Round(time.Second).String(),
		MemoryUsage: MemoryStats{
			Alloc:      bToMb(ms.Alloc),
			TotalAlloc: bToMb(ms.TotalAlloc),
			Sys:        bToMb(ms.Sys),
			NumGC:      ms.NumGC,
		},
		GoroutineCount: runtime.NumGoroutine(),
		CPUCount:       runtime.NumCPU(),
		GoVersion:      runtime.Version(),
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

func (m *Monitor) MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"application": m.Requests(),
			"store_calls": m.StoreCalls(),
			"system":      m.System(),
			"timestamp":   time.Now(),
		})
	}
}

func healthy(checks []HealthCheck) bool {
	for _, check := range checks {
		if check.Status != "healthy" {
			return false
		}
	}
	return true
}

func (m *Monitor) HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := m.RunHealthChecks(c.Request.Context())

		overallStatus, status := "healthy", http.StatusOK
		if !healthy(checks) {
			overallStatus, status = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":    overallStatus,
			"timestamp": time.Now(),
			"checks":    checks,
			"uptime":    time.Since(m.requests.StartTime).Round(time.Second).String(),
		})
	}
}

func (m *Monitor) ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if healthy(m.RunHealthChecks(c.Request.Context())) {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "timestamp": time.Now()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "timestamp": time.Now()})
	}
}

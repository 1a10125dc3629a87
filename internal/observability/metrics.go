package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps per-route counters in process memory. Request counters key
// on method, path and status so a burst of failures on one route stands out
// from its healthy traffic; error counters key on the mapped domain code.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*routeStats
	errors   map[string]int64
}

type routeStats struct {
	count   int64
	elapsed time.Duration
}

// NewMetrics returns an empty counter set.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*routeStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts one served request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := routeKey(method, path, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &routeStats{}
		m.requests[key] = stats
	}
	stats.count++
	stats.elapsed += duration
}

// RecordError counts one request that ended in a mapped domain error.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[routeKey(method, path, code)]++
}

func routeKey(method, path, suffix string) string {
	return method + " " + path + " " + suffix
}

package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorIdleTimeout = 3 * time.Minute
	cleanupInterval    = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitManager keeps one token bucket per client IP and evicts idle ones.
type RateLimitManager struct {
	visitors   map[string]*visitor
	visitorsMu sync.Mutex
	limit      rate.Limit
	burst      int
	disabled   bool
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewRateLimitManager allows requestsPerWindow requests per windowSeconds per
// client. A non-positive requestsPerWindow disables limiting.
func NewRateLimitManager(ctx context.Context, requestsPerWindow, windowSeconds, burst int) *RateLimitManager {
	managerCtx, cancel := context.WithCancel(ctx)

	m := &RateLimitManager{
		visitors: make(map[string]*visitor),
		ctx:      managerCtx,
		cancel:   cancel,
	}

	if requestsPerWindow <= 0 {
		m.disabled = true
		return m
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	if burst < requestsPerWindow {
		burst = requestsPerWindow
	}
	m.limit = rate.Limit(float64(requestsPerWindow) / float64(windowSeconds))
	m.burst = burst

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// Allow reports whether a request from ip fits in its bucket.
func (m *RateLimitManager) Allow(ip string) bool {
	if m == nil || m.disabled {
		return true
	}
	return m.visitorFor(ip).Allow()
}

func (m *RateLimitManager) visitorFor(ip string) *rate.Limiter {
	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()

	v, exists := m.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (m *RateLimitManager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup(time.Now())
		}
	}
}

func (m *RateLimitManager) cleanup(now time.Time) {
	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()

	for ip, v := range m.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTimeout {
			delete(m.visitors, ip)
		}
	}
}

// Shutdown stops the cleanup goroutine and waits for it to finish
// Done is closed once Shutdown has been called.
func (m *RateLimitManager) Done() <-chan struct{} {
	return m.ctx.Done()
}

func (m *RateLimitManager) Shutdown() error {
	m.cancel()
	m.wg.Wait()
	return nil
}

package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Collector counts HTTP traffic since process start. It is safe for
// concurrent use.
type Collector struct {
	startedAt     time.Time
	requests      atomic.Uint64
	clientErrors  atomic.Uint64
	serverErrors  atomic.Uint64
	rateLimited   atomic.Uint64
	durationMs    atomic.Uint64
	maxDurationMs atomic.Uint64
}

type Snapshot struct {
	StartedAt        time.Time `json:"startedAt"`
	UptimeSeconds    int64     `json:"uptimeSeconds"`
	RequestsTotal    uint64    `json:"requestsTotal"`
	ClientErrors     uint64    `json:"clientErrorsTotal"`
	ServerErrors     uint64    `json:"serverErrorsTotal"`
	RateLimitedTotal uint64    `json:"rateLimitedTotal"`
	AvgDurationMs    float64   `json:"avgDurationMs"`
	MaxDurationMs    uint64    `json:"maxDurationMs"`
}

func New() *Collector {
	return &Collector{startedAt: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	switch {
	case status == http.StatusTooManyRequests:
		c.rateLimited.Add(1)
		c.clientErrors.Add(1)
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	ms := uint64(max(duration.Milliseconds(), 0))
	c.durationMs.Add(ms)
	for {
		current := c.maxDurationMs.Load()
		if ms <= current || c.maxDurationMs.CompareAndSwap(current, ms) {
			break
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	total := c.requests.Load()
	snap := Snapshot{
		StartedAt:        c.startedAt,
		UptimeSeconds:    int64(time.Since(c.startedAt).Seconds()),
		RequestsTotal:    total,
		ClientErrors:     c.clientErrors.Load(),
		ServerErrors:     c.serverErrors.Load(),
		RateLimitedTotal: c.rateLimited.Load(),
		MaxDurationMs:    c.maxDurationMs.Load(),
	}
	if total > 0 {
		snap.AvgDurationMs = float64(c.durationMs.Load()) / float64(total)
	}
	return snap
}

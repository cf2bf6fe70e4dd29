package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int64
	end   time.Time
}

// MemoryLimiter keeps windows in process memory. Use it when no Redis is
// configured; counts are not shared between replicas.
//
// At most MaxKeys windows are held. When the table is full a new key displaces
// the live window with the fewest attempts, so keys close to or over their
// limit stay throttled.
type MemoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	windows map[string]*window
	maxKeys int
}

type MemoryConfig struct {
	Now     func() time.Time
	MaxKeys int
}

func NewMemoryLimiter(cfg MemoryConfig) *MemoryLimiter {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = defaultMaxKeys
	}
	return &MemoryLimiter{
		now:     cfg.Now,
		windows: make(map[string]*window),
		maxKeys: cfg.MaxKeys,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string, limit int, d time.Duration) (Decision, error) {
	if limit <= 0 {
		return unlimited(limit), nil
	}
	if d <= 0 {
		d = defaultWindow
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if ok && !now.Before(w.end) {
		delete(m.windows, key)
		ok = false
	}
	if !ok {
		if len(m.windows) >= m.maxKeys {
			m.sweep(now)
		}
		if len(m.windows) >= m.maxKeys {
			m.evict()
		}
		w = &window{end: now.Add(d)}
		m.windows[key] = w
	}

	w.count++
	return Decision{
		Allowed:   w.count <= int64(limit),
		Limit:     limit,
		Remaining: remaining(limit, w.count),
		ResetAt:   w.end,
	}, nil
}

func (m *MemoryLimiter) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.windows, key)
	m.mu.Unlock()
	return nil
}

// sweep drops expired windows. Caller holds mu.
func (m *MemoryLimiter) sweep(now time.Time) {
	for key, w := range m.windows {
		if !now.Before(w.end) {
			delete(m.windows, key)
		}
	}
}

// evict drops the window with the fewest attempts, the soonest-ending one on
// ties. Caller holds mu.
func (m *MemoryLimiter) evict() {
	var (
		victim string
		least  *window
	)
	for key, w := range m.windows {
		if least == nil || w.count < least.count || (w.count == least.count && w.end.Before(least.end)) {
			victim, least = key, w
		}
	}
	if least != nil {
		delete(m.windows, victim)
	}
}

package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

func (s *Session) touch(now time.Time) {
	s.lastActive.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// StartJanitor evicts idle sessions every interval until ctx is done. It is
// a no-op when IdleTTL is zero.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if m.cfg.IdleTTL <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	m.clock.TickerFunc(ctx, interval, func() error {
		m.expireIdle(ctx, m.clock.Now())
		return nil
	}, "session", "janitor")
}

// expireIdle drops sessions idle for at least IdleTTL. A session whose lock
// is held is in use and is skipped.
func (m *Manager) expireIdle(ctx context.Context, now time.Time) int {
	expired := 0
	for _, id := range m.sessions.IDs() {
		s, err := m.sessions.Get(ctx, id)
		if err != nil {
			continue
		}
		if now.Sub(s.idleSince()) < m.cfg.IdleTTL {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		// a lookup may have touched it since the first check
		if now.Sub(s.idleSince()) < m.cfg.IdleTTL {
			s.mu.Unlock()
			continue
		}
		err = m.sessions.Delete(ctx, id)
		if err == nil {
			s.evicted = true
		}
		s.mu.Unlock()
		if err != nil {
			continue
		}
		expired++
		metricSessionExpired.Add(1)
	}
	if expired > 0 {
		log.Info().Int("expired", expired).Int("active", m.sessions.Len()).Msg("session_janitor_swept")
	}
	return expired
}

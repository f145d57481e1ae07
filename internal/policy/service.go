package policy

import (
	"context"
	"errors"
	"time"

	"github.com/coder/quartz"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"pixel-poker/internal/game"
)

// Source is the external decision backend.
type Source interface {
	Decide(ctx context.Context, req Request) (Decision, error)
}

type Config struct {
	Timeout   time.Duration
	Retries   int
	CacheSize int
}

type Option func(*Service)

func WithClock(c quartz.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// Service picks the opponent's action. It never fails: every error path ends
// in the local heuristic.
type Service struct {
	source    Source
	cfg       Config
	cache     *lru.Cache[string, Decision]
	heuristic Heuristic
	clock     quartz.Clock
	group     singleflight.Group
}

// NewService builds a Service around source. A nil source runs the
// heuristic only; a zero CacheSize disables caching.
func NewService(source Source, cfg Config, opts ...Option) (*Service, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2500 * time.Millisecond
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	s := &Service{source: source, cfg: cfg, clock: quartz.NewReal()}
	if cfg.CacheSize > 0 {
		c, err := lru.New[string, Decision](cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Decide(ctx context.Context, st *game.HandState, budget *Budget) game.Action {
	legal := game.LegalActions(st)
	if s.source == nil || len(legal) == 0 {
		return s.fallback(st, "no_source")
	}

	req, err := BuildRequest(st)
	if err != nil {
		return s.fallback(st, "request_build_failed")
	}

	if s.cache != nil {
		if d, ok := s.cache.Get(req.Fingerprint); ok {
			if a, ok := s.validate(st, d); ok {
				metricCacheHitTotal.Add(1)
				return a
			}
			s.cache.Remove(req.Fingerprint)
		}
		metricCacheMissTotal.Add(1)
	}

	if ctx.Err() != nil {
		return s.fallback(st, "canceled")
	}
	if !budget.TryAcquire() {
		metricBudgetExhaustedTotal.Add(1)
		return s.fallback(st, "budget_exhausted")
	}

	// Shared by every caller with this fingerprint; attempt timeouts bound it.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(req.Fingerprint, func() (any, error) {
		return s.callWithRetry(shared, req)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return s.fallback(st, "canceled")
	}
	if res.Err != nil {
		return s.fallback(st, "source_failed")
	}
	d := res.Val.(Decision)
	a, ok := s.validate(st, d)
	if !ok {
		metricInvalidDecisionTotal.Add(1)
		log.Warn().
			Str("hand_id", st.HandID).
			Str("action_type", string(d.ActionType)).
			Msg("policy_invalid_decision")
		return s.fallback(st, "invalid_decision")
	}
	if s.cache != nil {
		s.cache.Add(req.Fingerprint, d)
	}
	return a
}

// callWithRetry runs 1+Retries attempts, each under its own timeout.
func (s *Service) callWithRetry(ctx context.Context, req Request) (Decision, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		d, err := s.attempt(ctx, req)
		if err == nil {
			return d, nil
		}
		lastErr = err
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Str("fingerprint", req.Fingerprint[:12]).
			Msg("policy_attempt_failed")
		if ctx.Err() != nil {
			break
		}
	}
	return Decision{}, lastErr
}

// attempt returns when the source answers or the timeout fires, whichever is
// first. A source that ignores cancellation is left behind.
func (s *Service) attempt(ctx context.Context, req Request) (Decision, error) {
	actx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	timer := s.clock.AfterFunc(s.cfg.Timeout, func() {
		cancel(ErrPolicyTimeout)
	})
	defer timer.Stop()

	type result struct {
		d   Decision
		err error
	}
	done := make(chan result, 1)
	metricExternalCallTotal.Add(1)
	go func() {
		d, err := s.source.Decide(actx, req)
		done <- result{d: d, err: err}
	}()

	select {
	case r := <-done:
		if r.err == nil {
			return r.d, nil
		}
		if errors.Is(context.Cause(actx), ErrPolicyTimeout) {
			metricTimeoutTotal.Add(1)
			return Decision{}, ErrPolicyTimeout
		}
		metricTransportErrorTotal.Add(1)
		var te *TransportError
		if errors.As(r.err, &te) {
			return Decision{}, te
		}
		return Decision{}, &TransportError{Err: r.err}
	case <-actx.Done():
		if errors.Is(context.Cause(actx), ErrPolicyTimeout) {
			metricTimeoutTotal.Add(1)
			return Decision{}, ErrPolicyTimeout
		}
		return Decision{}, ctx.Err()
	}
}

func (s *Service) validate(st *game.HandState, d Decision) (game.Action, bool) {
	a := toAction(st, d)
	if err := game.ValidateAction(st, a); err != nil {
		return game.Action{}, false
	}
	return a, true
}

func (s *Service) fallback(st *game.HandState, reason string) game.Action {
	metricFallbackTotal.Add(1)
	a := s.heuristic.Decide(st)
	log.Debug().
		Str("hand_id", st.HandID).
		Str("reason", reason).
		Str("action_type", string(a.Type)).
		Int64("amount", a.Amount).
		Msg("policy_fallback")
	return a
}

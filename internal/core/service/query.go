package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// FetchFunc loads a single value with the session token.
type FetchFunc[V any] func(ctx context.Context, token string) (V, error)

// QuerySnapshot is a consistent copy of a Query's state.
type QuerySnapshot[V any] struct {
	Phase Phase  `json:"phase"`
	Value *V     `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// Query holds one read-only value (stats, bookings, dashboard) with the same
// loading, error and notification rules as a Store fetch.
type Query[V any] struct {
	name  string
	fetch FetchFunc[V]
	deps  Deps
	log   zerolog.Logger

	mu     sync.RWMutex
	phase  Phase
	value  *V
	errMsg string
	seq    uint64
}

// NewQuery builds a Query. name is used in the fallback error message
// ("Failed to fetch <name>").
func NewQuery[V any](name string, fetch FetchFunc[V], deps Deps) *Query[V] {
	return &Query[V]{
		name:  name,
		fetch: fetch,
		deps:  deps,
		log:   deps.Log.With().Str("component", "query").Str("query", name).Logger(),
		phase: PhaseIdle,
	}
}

// Refetch loads the value. Without a session token it does nothing.
func (q *Query[V]) Refetch(ctx context.Context) error {
	if q.deps.Tokens == nil {
		return nil
	}
	token, ok := q.deps.Tokens.Token(ctx)
	if !ok || token == "" {
		return nil
	}

	q.mu.Lock()
	q.seq++
	seq := q.seq
	q.phase = PhaseLoading
	q.errMsg = ""
	q.mu.Unlock()

	v, err := q.fetch(ctx, token)

	q.mu.Lock()
	if seq != q.seq {
		q.mu.Unlock()
		return nil
	}
	if err != nil {
		msg := domain.Message(err, "Failed to fetch "+q.name)
		q.phase = PhaseFailed
		q.errMsg = msg
		q.mu.Unlock()

		q.log.Warn().Err(err).Msg("query failed")
		if q.deps.Notifier != nil {
			q.deps.Notifier.Notify(domain.Failure(msg))
		}
		return err
	}
	q.value = &v
	q.phase = PhaseReady
	q.mu.Unlock()
	return nil
}

// Reset forgets the value and drops any in-flight result.
func (q *Query[V]) Reset() {
	q.mu.Lock()
	q.seq++
	q.phase = PhaseIdle
	q.value = nil
	q.errMsg = ""
	q.mu.Unlock()
}

// Snapshot returns the current state. Value is nil until the first success.
func (q *Query[V]) Snapshot() QuerySnapshot[V] {
	q.mu.RLock()
	defer q.mu.RUnlock()

	snap := QuerySnapshot[V]{Phase: q.phase, Error: q.errMsg}
	if q.value != nil {
		v := *q.value
		snap.Value = &v
	}
	return snap
}

// Value returns the last loaded value and whether one exists.
func (q *Query[V]) Value() (V, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.value == nil {
		var zero V
		return zero, false
	}
	return *q.value, true
}

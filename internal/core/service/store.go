package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
	"github.com/kmtdiscovery/admin-console/internal/pkg/metrics"
)

// Phase is the fetch state of a store.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Deps are the collaborators shared by every store.
type Deps struct {
	Tokens    ports.TokenProvider
	Notifier  ports.Notifier
	Validator ports.Validator     // optional
	Keys      ports.KeySerializer // optional; nil lets same-id mutations interleave
	Log       zerolog.Logger
}

type options struct {
	autoFetch            bool
	refetchAfterMutation bool
	query                domain.ListQuery
}

// Option configures a Store.
type Option func(*options)

// WithAutoFetch controls whether Mount and session changes trigger a fetch.
func WithAutoFetch(on bool) Option {
	return func(o *options) { o.autoFetch = on }
}

// WithRefetchAfterMutation reloads the collection after every successful
// create, update or delete.
func WithRefetchAfterMutation() Option {
	return func(o *options) { o.refetchAfterMutation = true }
}

// WithQuery sets the list query sent on every fetch.
func WithQuery(q domain.ListQuery) Option {
	return func(o *options) { o.query = q }
}

// Labels name a resource in logs, metrics and notifications.
type Labels[T any] struct {
	Resource string // plural, e.g. "events"
	Noun     string // singular, e.g. "event"
	Created  func(T) domain.Notification
	Updated  func(T) domain.Notification
	Deleted  func(id string) domain.Notification
}

// Snapshot is a consistent copy of a store's state.
type Snapshot[T any] struct {
	Phase      Phase              `json:"phase"`
	Items      []T                `json:"items"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
	Error      string             `json:"error,omitempty"`
	Creating   bool               `json:"creating"`
	UpdatingID string             `json:"updatingId,omitempty"`
	DeletingID string             `json:"deletingId,omitempty"`
}

// Store holds one collection fetched from the remote API together with the
// flags of its in-flight mutations. Successful mutations are applied to the
// local collection first; the notification follows.
type Store[T domain.Resource, C, U any] struct {
	client ports.ResourceClient[T, C, U]
	deps   Deps
	labels Labels[T]
	opts   options
	log    zerolog.Logger

	mu         sync.RWMutex
	phase      Phase
	items      []T
	pagination *domain.Pagination
	errMsg     string
	creating   int
	updating   []string // in-flight ids, most recent last
	deleting   []string
	lastToken  string
	fetchSeq   uint64
	unmounted  bool
}

// NewStore builds a Store. It does not fetch until Mount is called.
func NewStore[T domain.Resource, C, U any](client ports.ResourceClient[T, C, U], deps Deps, labels Labels[T], opts ...Option) *Store[T, C, U] {
	o := options{autoFetch: true}
	for _, opt := range opts {
		opt(&o)
	}
	if deps.Keys == nil {
		deps.Keys = direct{}
	}
	return &Store[T, C, U]{
		client: client,
		deps:   deps,
		labels: labels,
		opts:   o,
		log:    deps.Log.With().Str("component", "store").Str("resource", labels.Resource).Logger(),
		phase:  PhaseIdle,
	}
}

// Mount performs the initial fetch when auto-fetch is on and a session
// token is present. Without a token the store stays idle.
func (s *Store[T, C, U]) Mount(ctx context.Context) error {
	token, ok := s.token(ctx)

	s.mu.Lock()
	s.unmounted = false
	s.lastToken = token
	s.mu.Unlock()

	if !ok || !s.opts.autoFetch {
		return nil
	}
	return s.fetch(ctx, token)
}

// SessionChanged refetches when a new token became available. When the
// session went away the store returns to idle and forgets the collection.
func (s *Store[T, C, U]) SessionChanged(ctx context.Context) error {
	token, ok := s.token(ctx)

	s.mu.Lock()
	changed := token != s.lastToken
	s.lastToken = token
	unmounted := s.unmounted
	if !ok && changed && !unmounted {
		s.reset()
	}
	s.mu.Unlock()

	if !ok || !changed || unmounted || !s.opts.autoFetch {
		return nil
	}
	return s.fetch(ctx, token)
}

// reset drops the collection and any in-flight fetch result. Callers hold mu.
func (s *Store[T, C, U]) reset() {
	s.fetchSeq++
	s.phase = PhaseIdle
	s.items = nil
	s.pagination = nil
	s.errMsg = ""
	s.log.Debug().Msg("session ended; collection cleared")
}

// Refetch reloads the collection from any state. It is a no-op without a
// session token. A failure keeps the previous items.
func (s *Store[T, C, U]) Refetch(ctx context.Context) error {
	token, ok := s.token(ctx)
	if !ok {
		return nil
	}
	return s.fetch(ctx, token)
}

// Unmount detaches the store: results arriving afterwards are not applied.
func (s *Store[T, C, U]) Unmount() {
	s.mu.Lock()
	s.unmounted = true
	s.mu.Unlock()
}

func (s *Store[T, C, U]) fetch(ctx context.Context, token string) error {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		return nil
	}
	s.fetchSeq++
	seq := s.fetchSeq
	s.phase = PhaseLoading
	s.errMsg = ""
	s.mu.Unlock()

	page, err := s.client.List(ctx, s.opts.query, token)

	s.mu.Lock()
	if s.unmounted || seq != s.fetchSeq {
		s.mu.Unlock()
		s.log.Debug().Uint64("seq", seq).Msg("stale fetch result dropped")
		return nil
	}
	if err != nil {
		msg := domain.Message(err, "Failed to fetch "+s.labels.Resource)
		s.phase = PhaseFailed
		s.errMsg = msg
		s.mu.Unlock()

		metrics.StoreFetchesTotal.WithLabelValues(s.labels.Resource, "error").Inc()
		s.log.Warn().Err(err).Msg("fetch failed")
		s.notify(domain.Failure(msg))
		return err
	}
	s.items = page.Items
	s.pagination = page.Pagination
	s.phase = PhaseReady
	s.mu.Unlock()

	metrics.StoreFetchesTotal.WithLabelValues(s.labels.Resource, "ok").Inc()
	s.log.Debug().Int("count", len(page.Items)).Msg("collection loaded")
	return nil
}

// Create sends in and prepends the created resource.
func (s *Store[T, C, U]) Create(ctx context.Context, in C) (T, error) {
	item, err := s.create(ctx, in)
	if err == nil {
		s.afterMutation(ctx)
	}
	return item, err
}

func (s *Store[T, C, U]) create(ctx context.Context, in C) (T, error) {
	var zero T
	token, err := s.authorize(ctx, "create")
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	s.creating++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.creating--
		s.mu.Unlock()
	}()

	if err := s.validate(in); err != nil {
		return zero, s.fail("create", err)
	}

	item, err := s.client.Create(ctx, in, token)
	if err != nil {
		return zero, s.fail("create", err)
	}

	s.apply(func() {
		s.items = prepend(s.items, item)
	})
	s.succeed("create", s.labels.Created, item)
	return item, nil
}

// Update sends in for id and replaces the matching element with the
// server's copy. Updates and deletes of the same id run one at a time.
func (s *Store[T, C, U]) Update(ctx context.Context, id string, in U) (T, error) {
	item, err := s.update(ctx, id, in)
	if err == nil {
		s.afterMutation(ctx)
	}
	return item, err
}

func (s *Store[T, C, U]) update(ctx context.Context, id string, in U) (T, error) {
	var zero T
	token, err := s.authorize(ctx, "update")
	if err != nil {
		return zero, err
	}

	s.track(&s.updating, id)
	defer s.untrack(&s.updating, id)

	if err := s.validate(in); err != nil {
		return zero, s.fail("update", err)
	}

	var updated T
	err = s.deps.Keys.Do(ctx, s.labels.Resource+":"+id, func(ctx context.Context) error {
		item, err := s.client.Update(ctx, id, in, token)
		if err != nil {
			return err
		}
		s.apply(func() {
			s.items = replace(s.items, id, item)
		})
		updated = item
		return nil
	})
	if err != nil {
		return zero, s.fail("update", err)
	}

	s.succeed("update", s.labels.Updated, updated)
	return updated, nil
}

// Delete removes id on the server and then from the collection.
func (s *Store[T, C, U]) Delete(ctx context.Context, id string) error {
	err := s.delete(ctx, id)
	if err == nil {
		s.afterMutation(ctx)
	}
	return err
}

func (s *Store[T, C, U]) delete(ctx context.Context, id string) error {
	token, err := s.authorize(ctx, "delete")
	if err != nil {
		return err
	}

	s.track(&s.deleting, id)
	defer s.untrack(&s.deleting, id)

	err = s.deps.Keys.Do(ctx, s.labels.Resource+":"+id, func(ctx context.Context) error {
		if err := s.client.Delete(ctx, id, token); err != nil {
			return err
		}
		s.apply(func() {
			s.items = remove(s.items, id)
		})
		return nil
	})
	if err != nil {
		return s.fail("delete", err)
	}

	metrics.StoreMutationsTotal.WithLabelValues(s.labels.Resource, "delete", "ok").Inc()
	if s.labels.Deleted != nil {
		s.notify(s.labels.Deleted(id))
	}
	return nil
}

// Get fetches a single resource without touching the collection. It returns
// (nil, nil) when the server does not know id.
func (s *Store[T, C, U]) Get(ctx context.Context, id string) (*T, error) {
	token, err := s.authorize(ctx, "get")
	if err != nil {
		return nil, err
	}

	item, err := s.client.GetByID(ctx, id, token)
	if err != nil {
		msg := domain.Message(err, fmt.Sprintf("Failed to fetch %s", s.labels.Noun))
		s.setError(msg)
		s.log.Warn().Err(err).Str("id", id).Msg("get failed")
		s.notify(domain.Failure(msg))
		return nil, err
	}
	return item, nil
}

// Snapshot returns a copy of the current state.
func (s *Store[T, C, U]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]T, len(s.items))
	copy(items, s.items)

	var pagination *domain.Pagination
	if s.pagination != nil {
		p := *s.pagination
		pagination = &p
	}
	return Snapshot[T]{
		Phase:      s.phase,
		Items:      items,
		Pagination: pagination,
		Error:      s.errMsg,
		Creating:   s.creating > 0,
		UpdatingID: last(s.updating),
		DeletingID: last(s.deleting),
	}
}

// Items returns a copy of the collection.
func (s *Store[T, C, U]) Items() []T { return s.Snapshot().Items }

// Phase returns the fetch phase.
func (s *Store[T, C, U]) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Err returns the message of the last failure, or "".
func (s *Store[T, C, U]) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Creating reports whether a create is in flight.
func (s *Store[T, C, U]) Creating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creating > 0
}

// UpdatingID returns the id of the most recently started update still in flight.
func (s *Store[T, C, U]) UpdatingID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return last(s.updating)
}

// DeletingID returns the id of the most recently started delete still in flight.
func (s *Store[T, C, U]) DeletingID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return last(s.deleting)
}

// Resource returns the plural resource name.
func (s *Store[T, C, U]) Resource() string { return s.labels.Resource }

// --- helpers ---

func (s *Store[T, C, U]) token(ctx context.Context) (string, bool) {
	if s.deps.Tokens == nil {
		return "", false
	}
	token, ok := s.deps.Tokens.Token(ctx)
	if token == "" {
		ok = false
	}
	return token, ok
}

// authorize is the auth guard: no token, no network call.
func (s *Store[T, C, U]) authorize(ctx context.Context, op string) (string, error) {
	if token, ok := s.token(ctx); ok {
		return token, nil
	}
	s.setError(domain.MsgAuthRequired)
	metrics.StoreMutationsTotal.WithLabelValues(s.labels.Resource, op, "unauthorized").Inc()
	s.notify(domain.Notification{
		Variant:     domain.VariantDestructive,
		Title:       "Unauthorized",
		Description: domain.MsgAuthRequired,
	})
	return "", fmt.Errorf("%s %s: %w", op, s.labels.Noun, domain.ErrUnauthorized)
}

func (s *Store[T, C, U]) validate(in any) error {
	if s.deps.Validator == nil {
		return nil
	}
	return s.deps.Validator.Validate(in)
}

// fail records err as the store error, emits one destructive notification
// and returns err unchanged.
func (s *Store[T, C, U]) fail(op string, err error) error {
	msg := domain.Message(err, fmt.Sprintf("Failed to %s %s", op, s.labels.Noun))
	s.setError(msg)

	metrics.StoreMutationsTotal.WithLabelValues(s.labels.Resource, op, "error").Inc()
	evt := s.log.Warn()
	if errors.Is(err, domain.ErrValidation) {
		evt = s.log.Debug()
	}
	evt.Err(err).Str("op", op).Msg("mutation failed")

	s.notify(domain.Failure(msg))
	return err
}

func (s *Store[T, C, U]) succeed(op string, label func(T) domain.Notification, item T) {
	metrics.StoreMutationsTotal.WithLabelValues(s.labels.Resource, op, "ok").Inc()
	s.log.Info().Str("op", op).Str("id", item.ResourceID()).Msg("mutation applied")
	if label != nil {
		s.notify(label(item))
	}
}

func (s *Store[T, C, U]) afterMutation(ctx context.Context) {
	if !s.opts.refetchAfterMutation {
		return
	}
	_ = s.Refetch(ctx)
}

// apply runs fn under the write lock unless the store was unmounted.
func (s *Store[T, C, U]) apply(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unmounted {
		return
	}
	fn()
}

func (s *Store[T, C, U]) setError(msg string) {
	s.apply(func() { s.errMsg = msg })
}

func (s *Store[T, C, U]) notify(n domain.Notification) {
	if s.deps.Notifier != nil {
		s.deps.Notifier.Notify(n)
	}
}

func (s *Store[T, C, U]) track(ids *[]string, id string) {
	s.mu.Lock()
	*ids = append(*ids, id)
	s.mu.Unlock()
}

func (s *Store[T, C, U]) untrack(ids *[]string, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(*ids) - 1; i >= 0; i-- {
		if (*ids)[i] == id {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return
		}
	}
}

// prepend puts item first and drops any older copy with the same id.
func prepend[T domain.Resource](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	for _, it := range items {
		if it.ResourceID() != item.ResourceID() {
			out = append(out, it)
		}
	}
	return out
}

// replace swaps the element with id for item. Another element already
// carrying item's id is dropped so ids stay unique.
func replace[T domain.Resource](items []T, id string, item T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		switch it.ResourceID() {
		case id:
			out = append(out, item)
		case item.ResourceID():
		default:
			out = append(out, it)
		}
	}
	return out
}

func remove[T domain.Resource](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.ResourceID() != id {
			out = append(out, it)
		}
	}
	return out
}

func last(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[len(ids)-1]
}

// direct runs mutations without per-key ordering.
type direct struct{}

func (direct) Do(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}

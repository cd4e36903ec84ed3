package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubTokens struct {
	mu    sync.Mutex
	token string
}

func (s *stubTokens) Token(context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *stubTokens) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

type recordingNotifier struct {
	mu     sync.Mutex
	got    []domain.Notification
	onSend func(domain.Notification)
}

func (r *recordingNotifier) Notify(n domain.Notification) {
	if r.onSend != nil {
		r.onSend(n)
	}
	r.mu.Lock()
	r.got = append(r.got, n)
	r.mu.Unlock()
}

func (r *recordingNotifier) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.got...)
}

func (r *recordingNotifier) count(v domain.Variant) int {
	n := 0
	for _, got := range r.all() {
		if got.Variant == v {
			n++
		}
	}
	return n
}

type stubClient[T domain.Resource, C, U any] struct {
	mu    sync.Mutex
	calls []string

	listFn   func(ctx context.Context, q domain.ListQuery) (domain.Page[T], error)
	createFn func(ctx context.Context, in C) (T, error)
	updateFn func(ctx context.Context, id string, in U) (T, error)
	deleteFn func(ctx context.Context, id string) error
	getFn    func(ctx context.Context, id string) (*T, error)
}

func (c *stubClient[T, C, U]) record(call string) {
	c.mu.Lock()
	c.calls = append(c.calls, call)
	c.mu.Unlock()
}

func (c *stubClient[T, C, U]) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *stubClient[T, C, U]) List(ctx context.Context, q domain.ListQuery, _ string) (domain.Page[T], error) {
	c.record("list")
	if c.listFn == nil {
		return domain.Page[T]{}, nil
	}
	return c.listFn(ctx, q)
}

func (c *stubClient[T, C, U]) Create(ctx context.Context, in C, _ string) (T, error) {
	c.record("create")
	return c.createFn(ctx, in)
}

func (c *stubClient[T, C, U]) Update(ctx context.Context, id string, in U, _ string) (T, error) {
	c.record("update " + id)
	return c.updateFn(ctx, id, in)
}

func (c *stubClient[T, C, U]) Delete(ctx context.Context, id, _ string) error {
	c.record("delete " + id)
	if c.deleteFn == nil {
		return nil
	}
	return c.deleteFn(ctx, id)
}

func (c *stubClient[T, C, U]) GetByID(ctx context.Context, id, _ string) (*T, error) {
	c.record("get " + id)
	if c.getFn == nil {
		return nil, nil
	}
	return c.getFn(ctx, id)
}

type contactClient = stubClient[domain.Contact, domain.CreateContactInput, domain.UpdateContactInput]

type stubContactClient struct {
	*contactClient
	stats domain.ContactStats
}

func (c *stubContactClient) Stats(context.Context, string) (domain.ContactStats, error) {
	return c.stats, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func contacts(n int) []domain.Contact {
	out := make([]domain.Contact, n)
	for i := range out {
		out[i] = domain.Contact{
			ID:     fmt.Sprintf("c%d", i+1),
			Name:   fmt.Sprintf("Visitor %d", i+1),
			Status: domain.ContactUnread,
		}
	}
	return out
}

func listOf[T domain.Resource](items []T) func(context.Context, domain.ListQuery) (domain.Page[T], error) {
	return func(context.Context, domain.ListQuery) (domain.Page[T], error) {
		return domain.Page[T]{Items: append([]T(nil), items...)}, nil
	}
}

func newDeps(tokens *stubTokens, n *recordingNotifier) Deps {
	return Deps{Tokens: tokens, Notifier: n, Log: zerolog.Nop()}
}

func newContactStore(client *contactClient, deps Deps, opts ...Option) *ContactStore {
	return NewContactStore(&stubContactClient{contactClient: client}, deps, opts...)
}

// Package app wires the console: remote API clients, session, notification
// sinks and the resource stores built on them.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/service"
	"github.com/kmtdiscovery/admin-console/internal/infrastructure/config"
	"github.com/kmtdiscovery/admin-console/internal/infrastructure/db/redis"
	"github.com/kmtdiscovery/admin-console/internal/infrastructure/notify"
	"github.com/kmtdiscovery/admin-console/internal/infrastructure/queue"
	"github.com/kmtdiscovery/admin-console/internal/infrastructure/restapi"
	"github.com/kmtdiscovery/admin-console/internal/infrastructure/session"
	"github.com/kmtdiscovery/admin-console/internal/pkg/validation"
)

// Store is the part of every resource store the console drives on
// session changes and from the gateway.
type Store interface {
	Resource() string
	Mount(ctx context.Context) error
	SessionChanged(ctx context.Context) error
	Refetch(ctx context.Context) error
	Unmount()
}

type Console struct {
	Session *session.Manager
	Notices *notify.Recorder

	Articles    *service.ArticleStore
	Categories  *service.CategoryStore
	Contacts    *service.ContactStore
	Events      *service.EventStore
	Users       *service.UserStore
	Invitations *service.InvitationStore

	Dashboard    *service.Query[domain.Dashboard]
	ContactStats *service.Query[domain.ContactStats]

	cfg        *config.Config
	log        zerolog.Logger
	deps       service.Deps
	transport  *restapi.Transport
	dashboards *restapi.DashboardClient
	redis      *goredis.Client
}

// Options overrides collaborators, mainly for tests.
type Options struct {
	HTTPClient *http.Client
	Cache      session.Cache
}

// New builds the console from cfg. When REDIS_ADDR is set the session is
// cached in Redis; a Redis that cannot be reached is logged and skipped.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) (*Console, error) {
	transport, err := restapi.NewTransport(restapi.Config{
		BaseURL:    cfg.API.URL,
		Timeout:    cfg.API.Timeout,
		HTTPClient: opts.HTTPClient,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	c := &Console{cfg: cfg, log: log, transport: transport}

	cache := opts.Cache
	if cache == nil && cfg.RedisEnabled() {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("session cache disabled")
		} else {
			c.redis = client
			cache = redis.NewSessionCache(client, cfg.Env)
		}
	}

	c.Session = session.NewManager(restapi.NewAuthClient(transport), cache, cfg.Session.TTL, log)
	c.Notices = notify.NewRecorder(0)
	c.deps = service.Deps{
		Tokens:    c.Session,
		Notifier:  notify.Fanout{notify.NewLog(log), c.Notices},
		Validator: validation.New(),
		Keys:      queue.NewSerializer(cfg.Mutation.Shards),
		Log:       log,
	}

	c.Articles = service.NewArticleStore(restapi.NewArticleClient(transport), c.deps)
	c.Categories = service.NewCategoryStore(restapi.NewCategoryClient(transport), c.deps)
	contacts := restapi.NewContactClient(transport)
	c.Contacts = service.NewContactStore(contacts, c.deps)
	c.Events = service.NewEventStore(restapi.NewEventClient(transport), c.deps)
	c.Users = service.NewUserStore(restapi.NewUserClient(transport), c.deps)
	c.Invitations = service.NewInvitationStore(restapi.NewInvitationClient(transport), c.deps)

	c.dashboards = restapi.NewDashboardClient(transport)
	c.Dashboard = service.NewDashboard(c.dashboards, c.deps)
	c.ContactStats = c.Contacts.Stats()
	return c, nil
}

// Stores lists every resource store.
func (c *Console) Stores() []Store {
	return []Store{c.Articles, c.Categories, c.Contacts, c.Events, c.Users, c.Invitations}
}

// Store returns the store serving resource, or nil.
func (c *Console) Store(resource string) Store {
	for _, s := range c.Stores() {
		if s.Resource() == resource {
			return s
		}
	}
	return nil
}

// Start establishes the session and mounts every store. The session comes
// from API_TOKEN, then the cache, then CONSOLE_EMAIL/CONSOLE_PASSWORD. A
// console without any of them starts signed out.
func (c *Console) Start(ctx context.Context) error {
	if err := c.signIn(ctx); err != nil {
		return err
	}
	c.Session.OnChange(c.sessionChanged)

	var errs []error
	for _, s := range c.Stores() {
		if err := s.Mount(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mount %s: %w", s.Resource(), err))
		}
	}
	if _, ok := c.Session.Current(); ok {
		_ = c.Dashboard.Refetch(ctx)
	}
	if err := errors.Join(errs...); err != nil {
		c.log.Warn().Err(err).Msg("initial fetch incomplete")
	}
	return nil
}

func (c *Console) signIn(ctx context.Context) error {
	if c.cfg.API.Token != "" {
		c.Session.SetToken(ctx, c.cfg.API.Token)
		return nil
	}

	restored, err := c.Session.Restore(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("session restore failed")
	}
	if restored {
		c.log.Info().Msg("session restored from cache")
		return nil
	}

	if c.cfg.Session.Email == "" {
		c.log.Info().Msg("no credentials configured; console is signed out")
		return nil
	}
	if _, err := c.Session.Login(ctx, c.cfg.Session.Email, c.cfg.Session.Password); err != nil {
		return fmt.Errorf("app: sign in: %w", err)
	}
	return nil
}

// sessionChanged propagates a login or logout to every store. Signed out,
// the dashboard and contact stats are dropped as well.
func (c *Console) sessionChanged(ctx context.Context) {
	for _, s := range c.Stores() {
		if err := s.SessionChanged(ctx); err != nil {
			c.log.Warn().Err(err).Str("resource", s.Resource()).Msg("refetch after session change failed")
		}
	}
	if _, ok := c.Session.Current(); !ok {
		c.Dashboard.Reset()
		c.ContactStats.Reset()
	}
}

// Analytics builds a query for one reporting period.
func (c *Console) Analytics(period domain.AnalyticsPeriod) *service.Query[domain.Analytics] {
	return service.NewAnalytics(c.dashboards, period, c.deps)
}

// ArticleDetail builds a query for one article.
func (c *Console) ArticleDetail(id string) *service.Query[domain.Article] {
	return service.NewArticleDetail(restapi.NewArticleClient(c.transport), id, c.deps)
}

// Checks returns the readiness probes: the remote API must answer and the
// session cache, when configured, must respond to a ping.
func (c *Console) Checks() map[string]func(ctx context.Context) error {
	checks := map[string]func(ctx context.Context) error{
		"api": c.transport.Ping,
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.redis.Ping(ctx).Err() }
	}
	return checks
}

// Role reports the role of the signed-in operator, if the session knows it.
func (c *Console) Role() (domain.Role, bool) {
	s, ok := c.Session.Current()
	if !ok || s.User.Role == "" {
		return "", false
	}
	return s.User.Role, true
}

// Ready reports whether the console holds a live session.
func (c *Console) Ready(context.Context) error {
	if _, err := c.Session.Require(); err != nil {
		return fmt.Errorf("app: not ready: %w", err)
	}
	return nil
}

// Close unmounts the stores and releases the Redis client.
func (c *Console) Close() error {
	for _, s := range c.Stores() {
		s.Unmount()
	}
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

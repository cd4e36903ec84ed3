// Package api is the console gateway: an HTTP surface over the resource
// stores, their derived views and the operator session.
package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/api/handler"
	"github.com/kmtdiscovery/admin-console/internal/api/middleware"
	"github.com/kmtdiscovery/admin-console/internal/app"
	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/pkg/validation"
)

// Options configures the gateway.
type Options struct {
	// GatewayKey guards every /v1 route when set.
	GatewayKey string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(console *app.Console, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))

	// --- Health probes and metrics (no auth required) ---
	checks := make(map[string]handler.Check)
	for name, fn := range console.Checks() {
		checks[name] = handler.Check(fn)
	}
	health := handler.NewHealthHandler(checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1", middleware.GatewayKey(opts.GatewayKey))
	adminOnly := middleware.RequireRole(console.Role, domain.RoleAdmin, domain.RoleSuperAdmin)

	// --- Session ---
	sessions := handler.NewSessionHandler(console.Session)
	v1.POST("/session/login", sessions.Login)
	v1.DELETE("/session", sessions.Logout)
	v1.GET("/session", sessions.Current)

	// --- Views (static segments win over /:id) ---
	views := handler.NewViewHandler(console.Events, console.Articles, console.Users, console.Invitations)
	v1.GET("/events/by-status", views.EventsByStatus)
	v1.GET("/articles/stats", views.ArticleStats)
	v1.GET("/users/view", views.Users, adminOnly)
	v1.GET("/invitations/view", views.Invitations, adminOnly)

	// --- Queries ---
	queries := handler.NewQueryHandler(
		func(eventID string) handler.BookingService { return console.Events.Bookings(eventID) },
		func(p domain.AnalyticsPeriod) handler.Loader[domain.Analytics] { return console.Analytics(p) },
	)
	v1.GET("/contacts/stats", handler.ServeQuery(handler.Fixed[domain.ContactStats](console.ContactStats)))
	v1.GET("/dashboard", handler.ServeQuery(handler.Fixed[domain.Dashboard](console.Dashboard)))
	v1.GET("/analytics", queries.Analytics)
	v1.GET("/articles/:id/detail", handler.ServeQuery(func(c echo.Context) (handler.Loader[domain.Article], error) {
		return console.ArticleDetail(c.Param("id")), nil
	}))
	v1.GET("/events/:id/bookings", queries.EventBookings)
	v1.PUT("/events/:id/bookings/:bookingId", queries.UpdateBooking)

	// --- Resources ---
	handler.NewResourceHandler[domain.Article, domain.CreateArticleInput, domain.UpdateArticleInput](console.Articles, "article").
		Register(v1.Group("/articles"), handler.AllOps)
	handler.NewResourceHandler[domain.Event, domain.CreateEventInput, domain.UpdateEventInput](console.Events, "event").
		Register(v1.Group("/events"), handler.AllOps)
	handler.NewResourceHandler[domain.Category, domain.CreateCategoryInput, domain.UpdateCategoryInput](console.Categories, "category").
		Register(v1.Group("/categories"), handler.AllOps)
	handler.NewResourceHandler[domain.Contact, domain.CreateContactInput, domain.UpdateContactInput](console.Contacts, "contact").
		Register(v1.Group("/contacts"), handler.AllOps)
	handler.NewResourceHandler[domain.Invitation, domain.CreateInvitationInput, domain.NoInput](console.Invitations, "invitation").
		Register(v1.Group("/invitations", adminOnly), handler.OpCreate|handler.OpDelete)
	handler.NewResourceHandler[domain.User, domain.NoInput, domain.UpdateUserInput](console.Users, "user").
		Register(v1.Group("/users", adminOnly), handler.OpUpdate|handler.OpDelete)

	// --- Notifications ---
	v1.GET("/notifications", handler.NewNotificationHandler(console.Notices).List)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

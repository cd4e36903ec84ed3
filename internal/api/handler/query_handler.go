package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/service"
)

// Loader is a single-value query.
type Loader[V any] interface {
	Refetch(ctx context.Context) error
	Snapshot() service.QuerySnapshot[V]
}

// BookingService is the bookings query of one event.
type BookingService interface {
	Loader[domain.EventBookings]
	UpdateStatus(ctx context.Context, bookingID string, in domain.UpdateBookingInput) error
}

// ServeQuery returns a handler that resolves a Loader from the request,
// refreshes it and renders its snapshot.
func ServeQuery[V any](resolve func(c echo.Context) (Loader[V], error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := resolve(c)
		if err != nil {
			return err
		}
		if err := q.Refetch(c.Request().Context()); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, q.Snapshot())
	}
}

// Fixed resolves to q on every request.
func Fixed[V any](q Loader[V]) func(echo.Context) (Loader[V], error) {
	return func(echo.Context) (Loader[V], error) { return q, nil }
}

// QueryHandler serves the query-backed pages that need request parameters.
type QueryHandler struct {
	bookings  func(eventID string) BookingService
	analytics func(period domain.AnalyticsPeriod) Loader[domain.Analytics]
}

func NewQueryHandler(bookings func(eventID string) BookingService, analytics func(domain.AnalyticsPeriod) Loader[domain.Analytics]) *QueryHandler {
	return &QueryHandler{bookings: bookings, analytics: analytics}
}

// EventBookings handles GET /v1/events/:id/bookings.
func (h *QueryHandler) EventBookings(c echo.Context) error {
	return ServeQuery(func(echo.Context) (Loader[domain.EventBookings], error) {
		return h.bookings(c.Param("id")), nil
	})(c)
}

// UpdateBooking handles PUT /v1/events/:id/bookings/:bookingId and answers
// with the reloaded bookings.
func (h *QueryHandler) UpdateBooking(c echo.Context) error {
	var in domain.UpdateBookingInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	b := h.bookings(c.Param("id"))
	if err := b.UpdateStatus(c.Request().Context(), c.Param("bookingId"), in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b.Snapshot())
}

// Analytics handles GET /v1/analytics?period=7d|30d|90d|1y. The period
// defaults to 30d.
func (h *QueryHandler) Analytics(c echo.Context) error {
	period := domain.AnalyticsPeriod(c.QueryParam("period"))
	if period == "" {
		period = domain.Period30d
	}
	if !period.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "period must be one of 7d, 30d, 90d, 1y")
	}
	return ServeQuery(func(echo.Context) (Loader[domain.Analytics], error) {
		return h.analytics(period), nil
	})(c)
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/service"
)

type EventGrouper interface {
	ByStatus() map[domain.EventStatus][]domain.Event
}

type ArticleStatser interface {
	Stats() domain.ArticleStats
}

type UserViewer interface {
	View(f service.UserFilter, page, limit int) service.UserView
}

type InvitationViewer interface {
	View(f service.InvitationFilter, page, limit int, now time.Time) service.InvitationView
}

// ViewHandler serves the derived, read-only views computed from the stores'
// current collections. None of them fetches.
type ViewHandler struct {
	events      EventGrouper
	articles    ArticleStatser
	users       UserViewer
	invitations InvitationViewer
	now         func() time.Time
}

func NewViewHandler(events EventGrouper, articles ArticleStatser, users UserViewer, invitations InvitationViewer) *ViewHandler {
	return &ViewHandler{
		events:      events,
		articles:    articles,
		users:       users,
		invitations: invitations,
		now:         time.Now,
	}
}

// EventsByStatus handles GET /v1/events/by-status.
func (h *ViewHandler) EventsByStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.events.ByStatus())
}

// ArticleStats handles GET /v1/articles/stats.
func (h *ViewHandler) ArticleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.articles.Stats())
}

// Users handles GET /v1/users/view?search&status&role&country&page&limit.
func (h *ViewHandler) Users(c echo.Context) error {
	p, err := bindPage(c)
	if err != nil {
		return err
	}
	f := service.UserFilter{
		Search:  c.QueryParam("search"),
		Status:  domain.UserStatus(c.QueryParam("status")),
		Role:    domain.Role(c.QueryParam("role")),
		Country: c.QueryParam("country"),
	}
	return c.JSON(http.StatusOK, h.users.View(f, p.Page, p.Limit))
}

// Invitations handles GET /v1/invitations/view?state&role&search&page&limit.
func (h *ViewHandler) Invitations(c echo.Context) error {
	p, err := bindPage(c)
	if err != nil {
		return err
	}
	f := service.InvitationFilter{
		State:  domain.InvitationState(c.QueryParam("state")),
		Role:   domain.Role(c.QueryParam("role")),
		Search: c.QueryParam("search"),
	}
	return c.JSON(http.StatusOK, h.invitations.View(f, p.Page, p.Limit, h.now()))
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmtdiscovery/admin-console/internal/infrastructure/notify"
)

type NotificationSource interface {
	Drain() []notify.Entry
	Recent(n int) []notify.Entry
}

type NotificationHandler struct {
	source NotificationSource
}

func NewNotificationHandler(source NotificationSource) *NotificationHandler {
	return &NotificationHandler{source: source}
}

type notificationsResponse struct {
	Notifications []notify.Entry `json:"notifications"`
}

// List handles GET /v1/notifications. It drains the pending notifications
// unless ?peek=true, which returns the most recent ones (?limit, default 20)
// and keeps them.
func (h *NotificationHandler) List(c echo.Context) error {
	var (
		peek  bool
		limit = 20
	)
	err := echo.QueryParamsBinder(c).
		Bool("peek", &peek).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	var entries []notify.Entry
	if peek {
		entries = h.source.Recent(limit)
	} else {
		entries = h.source.Drain()
	}
	if entries == nil {
		entries = []notify.Entry{}
	}
	return c.JSON(http.StatusOK, notificationsResponse{Notifications: entries})
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/infrastructure/session"
)

// SessionService is the operator session the console signs in with.
type SessionService interface {
	Login(ctx context.Context, email, password string) (session.Session, error)
	Logout(ctx context.Context) error
	Current() (session.Session, bool)
}

type SessionHandler struct {
	sessions SessionService
}

func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// sessionResponse never carries the bearer token.
type sessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	User          *domain.SessionUser `json:"user,omitempty"`
	ExpiresAt     *time.Time          `json:"expiresAt,omitempty"`
}

func toSessionResponse(s session.Session, ok bool) sessionResponse {
	if !ok {
		return sessionResponse{}
	}
	resp := sessionResponse{Authenticated: true, ExpiresAt: s.ExpiresAt}
	if s.User.ID != "" {
		u := s.User
		resp.User = &u
	}
	return resp
}

// Login handles POST /v1/session/login.
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(s, true))
}

// Logout handles DELETE /v1/session.
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Current handles GET /v1/session.
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Current()))
}

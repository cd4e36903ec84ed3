package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/service"
)

// ResourceStore is the store surface the resource routes drive.
type ResourceStore[T domain.Resource, C, U any] interface {
	Snapshot() service.Snapshot[T]
	Refetch(ctx context.Context) error
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in C) (T, error)
	Update(ctx context.Context, id string, in U) (T, error)
	Delete(ctx context.Context, id string) error
}

// Ops selects the write routes a resource exposes.
type Ops uint8

const (
	OpCreate Ops = 1 << iota
	OpUpdate
	OpDelete

	AllOps = OpCreate | OpUpdate | OpDelete
)

// ResourceHandler serves one resource store over HTTP.
type ResourceHandler[T domain.Resource, C, U any] struct {
	store ResourceStore[T, C, U]
	noun  string
}

func NewResourceHandler[T domain.Resource, C, U any](store ResourceStore[T, C, U], noun string) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{store: store, noun: noun}
}

// Register mounts the read routes and the write routes selected by ops on g.
// Write routes left out answer 405.
func (h *ResourceHandler[T, C, U]) Register(g *echo.Group, ops Ops) {
	g.GET("", h.List)
	g.POST("/refetch", h.Refetch)
	g.GET("/:id", h.Get)
	g.POST("", h.either(ops&OpCreate != 0, h.Create))
	g.PUT("/:id", h.either(ops&OpUpdate != 0, h.Update))
	g.DELETE("/:id", h.either(ops&OpDelete != 0, h.Delete))
}

func (h *ResourceHandler[T, C, U]) either(enabled bool, fn echo.HandlerFunc) echo.HandlerFunc {
	if enabled {
		return fn
	}
	return func(echo.Context) error {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, h.noun+" does not support this operation")
	}
}

// List handles GET /v1/<resource>: the store's current snapshot, no fetch.
func (h *ResourceHandler[T, C, U]) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot())
}

// Refetch handles POST /v1/<resource>/refetch.
func (h *ResourceHandler[T, C, U]) Refetch(c echo.Context) error {
	if err := h.store.Refetch(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.Snapshot())
}

// Get handles GET /v1/<resource>/:id. It reads through to the remote API.
func (h *ResourceHandler[T, C, U]) Get(c echo.Context) error {
	item, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if item == nil {
		return echo.NewHTTPError(http.StatusNotFound, h.noun+" not found")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[T, C, U]) Create(c echo.Context) error {
	var in C
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.store.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ResourceHandler[T, C, U]) Update(c echo.Context) error {
	var in U
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.store.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[T, C, U]) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

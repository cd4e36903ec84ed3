package restapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/pkg/metrics"
)

// Routes maps the CRUD operations of a resource to API paths. An empty
// Create or nil func marks the operation as unsupported.
type Routes struct {
	List         string
	Create       string
	Item         func(id string) string
	Update       func(id string) string
	Delete       func(id string) string
	UpdateMethod string // defaults to PUT
}

// Collection describes one remote collection.
type Collection struct {
	Resource string
	Keys     Keys
	Routes   Routes
}

// itemPath returns a route func of the form base/{id}suffix.
func itemPath(base, suffix string) func(string) string {
	return func(id string) string {
		return base + "/" + url.PathEscape(id) + suffix
	}
}

// ResourceClient implements ports.ResourceClient for any collection described
// by a Collection.
type ResourceClient[T domain.Resource, C, U any] struct {
	t   *Transport
	col Collection
	log zerolog.Logger
}

func NewResourceClient[T domain.Resource, C, U any](t *Transport, col Collection) *ResourceClient[T, C, U] {
	if col.Routes.UpdateMethod == "" {
		col.Routes.UpdateMethod = http.MethodPut
	}
	return &ResourceClient[T, C, U]{
		t:   t,
		col: col,
		log: t.log.With().Str("resource", col.Resource).Logger(),
	}
}

// Resource returns the collection name.
func (c *ResourceClient[T, C, U]) Resource() string { return c.col.Resource }

func (c *ResourceClient[T, C, U]) List(ctx context.Context, q domain.ListQuery, token string) (domain.Page[T], error) {
	if c.col.Routes.List == "" {
		return domain.Page[T]{}, errNoRoute(c.col.Resource, "list")
	}

	resp, err := c.t.Do(ctx, Request{
		Resource: c.col.Resource,
		Method:   http.MethodGet,
		Path:     c.col.Routes.List,
		Query:    queryValues(q),
		Token:    token,
	})
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("list %s: %w", c.col.Resource, err)
	}

	list, err := DecodeList[T](resp.Body, c.col.Keys)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("list %s: %w", c.col.Resource, err)
	}
	c.observe(list.Shape)

	if list.Shape == ShapeUnrecognized {
		c.log.Warn().
			Strs("keys", list.TopKeys).
			Str("request_id", resp.RequestID).
			Msg("unrecognized list envelope, treating as empty")
	}
	if list.Dropped > 0 {
		c.log.Warn().Int("dropped", list.Dropped).Msg("list items without id or with duplicate id dropped")
	}

	return domain.Page[T]{Items: list.Items, Pagination: list.Pagination}, nil
}

func (c *ResourceClient[T, C, U]) Create(ctx context.Context, in C, token string) (T, error) {
	var zero T
	if c.col.Routes.Create == "" {
		return zero, errNoRoute(c.col.Resource, "create")
	}
	item, err := c.send(ctx, http.MethodPost, c.col.Routes.Create, in, token)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", c.col.Keys.Singular, err)
	}
	return item, nil
}

func (c *ResourceClient[T, C, U]) Update(ctx context.Context, id string, in U, token string) (T, error) {
	var zero T
	if c.col.Routes.Update == nil {
		return zero, errNoRoute(c.col.Resource, "update")
	}
	item, err := c.send(ctx, c.col.Routes.UpdateMethod, c.col.Routes.Update(id), in, token)
	if err != nil {
		return zero, fmt.Errorf("update %s %s: %w", c.col.Keys.Singular, id, err)
	}
	return item, nil
}

func (c *ResourceClient[T, C, U]) Delete(ctx context.Context, id, token string) error {
	if c.col.Routes.Delete == nil {
		return errNoRoute(c.col.Resource, "delete")
	}
	_, err := c.t.Do(ctx, Request{
		Resource: c.col.Resource,
		Method:   http.MethodDelete,
		Path:     c.col.Routes.Delete(id),
		Token:    token,
	})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", c.col.Keys.Singular, id, err)
	}
	return nil
}

func (c *ResourceClient[T, C, U]) GetByID(ctx context.Context, id, token string) (*T, error) {
	if c.col.Routes.Item == nil {
		return nil, errNoRoute(c.col.Resource, "get")
	}
	return c.getAt(ctx, c.col.Routes.Item(id), token)
}

func (c *ResourceClient[T, C, U]) getAt(ctx context.Context, path, token string) (*T, error) {
	resp, err := c.t.Do(ctx, Request{
		Resource:      c.col.Resource,
		Method:        http.MethodGet,
		Path:          path,
		Token:         token,
		AllowNotFound: true,
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", c.col.Keys.Singular, err)
	}
	if resp.NotFound() {
		return nil, nil
	}

	item, shape, err := DecodeItem[T](resp.Body, c.col.Keys)
	c.observe(shape)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", c.col.Keys.Singular, err)
	}
	return &item, nil
}

func (c *ResourceClient[T, C, U]) send(ctx context.Context, method, path string, body any, token string) (T, error) {
	var zero T
	resp, err := c.t.Do(ctx, Request{
		Resource: c.col.Resource,
		Method:   method,
		Path:     path,
		Body:     body,
		Token:    token,
	})
	if err != nil {
		return zero, err
	}

	item, shape, err := DecodeItem[T](resp.Body, c.col.Keys)
	c.observe(shape)
	if err != nil {
		return zero, err
	}
	return item, nil
}

func (c *ResourceClient[T, C, U]) observe(shape Shape) {
	metrics.EnvelopeShapesTotal.WithLabelValues(c.col.Resource, shape.String()).Inc()
}

func queryValues(q domain.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for k, val := range q.Extra {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

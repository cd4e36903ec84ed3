// Package restapi is the HTTP client of the KMT Discovery REST API. It sends
// authenticated requests, turns error answers into domain errors and
// normalizes the several response envelopes the server uses.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/pkg/metrics"
)

const (
	defaultTimeout = 15 * time.Second

	headerRequestID = "X-Request-ID"
)

// Config captures the settings of the remote API connection.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Transport executes requests against the remote API.
type Transport struct {
	baseURL string
	client  *resty.Client
	log     zerolog.Logger
}

// NewTransport validates cfg and returns a Transport. A default timeout is
// applied when no HTTP client is provided.
func NewTransport(cfg Config, log zerolog.Logger) (*Transport, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("restapi: invalid base url %q", cfg.BaseURL)
	}

	log = log.With().Str("component", "restapi").Logger()
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = resty.New().SetTimeout(timeout)
	}
	client.
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})

	return &Transport{baseURL: baseURL, client: client, log: log}, nil
}

// BaseURL returns the API root every path is resolved against.
func (t *Transport) BaseURL() string { return t.baseURL }

// Request describes a single API call.
type Request struct {
	Resource string // metrics label
	Method   string
	Path     string
	Query    url.Values
	Token    string

	// Body is JSON-encoded. File and Fields are sent as a multipart form
	// instead.
	Body   any
	File   *File
	Fields map[string]string

	// AllowNotFound turns a 404 answer into a Response instead of an error.
	AllowNotFound bool
}

// File is one uploaded file of a multipart request.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Response is a successful (or tolerated 404) answer.
type Response struct {
	Status    int
	Body      []byte
	RequestID string
}

// NotFound reports whether the server answered 404.
func (r *Response) NotFound() bool { return r.Status == http.StatusNotFound }

// errorBody is the JSON error answer of the API. message is usually a
// string; anything else is ignored.
type errorBody struct {
	Message json.RawMessage `json:"message"`
}

func (b *errorBody) message() string {
	if b == nil || len(b.Message) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(b.Message, &msg); err != nil {
		return ""
	}
	return strings.TrimSpace(msg)
}

// Do sends req. Non-2xx answers become *domain.RequestFailedError; transport
// failures wrap domain.ErrUnavailable.
func (t *Transport) Do(ctx context.Context, req Request) (*Response, error) {
	requestID := uuid.NewString()
	r := t.build(ctx, req, requestID)

	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	elapsed := time.Since(start)
	metrics.APIRequestDuration.WithLabelValues(req.Resource, req.Method).Observe(elapsed.Seconds())

	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(req.Resource, req.Method, "error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, ctxErr)
		}
		t.log.Warn().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("request_id", requestID).
			Msg("api request failed")
		return nil, fmt.Errorf("%s %s: %w: %v", req.Method, req.Path, domain.ErrUnavailable, err)
	}

	status := resp.StatusCode()
	metrics.APIRequestsTotal.WithLabelValues(req.Resource, req.Method, strconv.Itoa(status)).Inc()

	t.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", status).
		Dur("duration", elapsed).
		Str("request_id", requestID).
		Msg("api request")

	out := &Response{Status: status, Body: resp.Body(), RequestID: requestID}
	if resp.IsSuccess() {
		return out, nil
	}
	if status == http.StatusNotFound && req.AllowNotFound {
		return out, nil
	}

	body, _ := resp.Error().(*errorBody)
	failed := &domain.RequestFailedError{
		Status:        status,
		StatusText:    statusText(status, resp.Status()),
		ServerMessage: body.message(),
	}
	t.log.Warn().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", status).
		Str("request_id", requestID).
		Str("server_message", failed.ServerMessage).
		Msg("api request rejected")
	return nil, failed
}

func (t *Transport) build(ctx context.Context, req Request, requestID string) *resty.Request {
	r := t.client.R().
		SetContext(ctx).
		SetHeader(headerRequestID, requestID).
		SetError(&errorBody{})

	if req.Token != "" {
		r.SetAuthToken(req.Token)
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}

	switch {
	case req.File != nil:
		contentType := req.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		r.SetMultipartField(req.File.Field, req.File.Filename, contentType, bytes.NewReader(req.File.Data))
		if len(req.Fields) > 0 {
			r.SetMultipartFormData(req.Fields)
		}
	case req.Body != nil:
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}
	return r
}

// statusText returns the reason phrase the server sent, falling back to the
// standard one. status is resty's "<code> <reason>" line.
func statusText(code int, status string) string {
	prefix := strconv.Itoa(code) + " "
	if text := strings.TrimPrefix(status, prefix); text != status && text != "" {
		return text
	}
	return http.StatusText(code)
}

// restyLogger routes resty's own diagnostics into zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }

// errNoRoute is returned for operations a resource does not expose.
func errNoRoute(resource, op string) error {
	return fmt.Errorf("%s %s: %w", resource, op, domain.ErrUnsupported)
}

// Ping checks that the API answers at all. Any HTTP status counts as
// reachable; only transport failures are reported.
func (t *Transport) Ping(ctx context.Context) error {
	_, err := t.Do(ctx, Request{Resource: "health", Method: http.MethodGet, Path: "/"})
	var rf *domain.RequestFailedError
	if err == nil || errors.As(err, &rf) {
		return nil
	}
	return err
}

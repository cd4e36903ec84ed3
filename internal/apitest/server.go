// Package apitest runs an in-memory stand-in for the KMT Discovery REST API.
// Tests seed collections, register operators and inject failures or
// alternative response envelopes.
package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// Envelope selects how list responses are wrapped.
type Envelope int

const (
	EnvelopeData       Envelope = iota // {data:[…]}
	EnvelopeBare                       // […]
	EnvelopePlural                     // {<plural>:[…]}
	EnvelopeDataPlural                 // {data:{<plural>:[…], pagination:{…}}}
	EnvelopeUnknown                    // {result:[…]}
)

type object = map[string]any

type operator struct {
	hash []byte
	user domain.SessionUser
}

type failure struct {
	status  int
	message string
}

// Server is a fake KMT API. All methods are safe for concurrent use.
type Server struct {
	srv    *httptest.Server
	secret []byte

	mu          sync.Mutex
	operators   map[string]operator
	collections map[string][]object
	envelopes   map[string]Envelope
	failures    map[string]failure
	bookings    map[string]domain.EventBookings
	dashboard   domain.Dashboard
	analytics   map[domain.AnalyticsPeriod]domain.Analytics
	calls       []string
}

// New starts a Server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:      []byte(uuid.NewString()),
		operators:   make(map[string]operator),
		collections: make(map[string][]object),
		envelopes:   make(map[string]Envelope),
		failures:    make(map[string]failure),
		bookings:    make(map[string]domain.EventBookings),
		analytics:   make(map[domain.AnalyticsPeriod]domain.Analytics),
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API base URL, including the /api prefix.
func (s *Server) URL() string { return s.srv.URL + "/api" }

// AddOperator registers credentials accepted by POST /auth/login.
func (s *Server) AddOperator(email, password string, user domain.SessionUser) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if user.Email == "" {
		user.Email = email
	}
	s.mu.Lock()
	s.operators[email] = operator{hash: hash, user: user}
	s.mu.Unlock()
	return nil
}

// IssueToken signs an access token accepted by the server.
func (s *Server) IssueToken(subject string, ttl time.Duration) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
	}).SignedString(s.secret)
}

// Seed appends items to resource's collection. Items are stored in their
// JSON form.
func (s *Server) Seed(resource string, items ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		obj, err := toObject(it)
		if err != nil {
			return err
		}
		s.collections[resource] = append(s.collections[resource], obj)
	}
	return nil
}

// Len returns the number of items stored for resource.
func (s *Server) Len(resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[resource])
}

// Item returns a copy of one stored item.
func (s *Server) Item(resource, id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(resource, id)
	if i < 0 {
		return nil, false
	}
	out := make(map[string]any, len(s.collections[resource][i]))
	for k, v := range s.collections[resource][i] {
		out[k] = v
	}
	return out, true
}

// UseEnvelope changes how list responses of resource are wrapped.
func (s *Server) UseEnvelope(resource string, e Envelope) {
	s.mu.Lock()
	s.envelopes[resource] = e
	s.mu.Unlock()
}

// Fail makes every "<method> <path>" request answer status with
// {"message": message}. path is relative to the API root, e.g. "/events/e1".
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	s.failures[method+" /api"+path] = failure{status: status, message: message}
	s.mu.Unlock()
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	s.failures = make(map[string]failure)
	s.mu.Unlock()
}

func (s *Server) SetBookings(b domain.EventBookings) {
	s.mu.Lock()
	s.bookings[b.EventID] = b
	s.mu.Unlock()
}

func (s *Server) SetDashboard(d domain.Dashboard) {
	s.mu.Lock()
	s.dashboard = d
	s.mu.Unlock()
}

func (s *Server) SetAnalytics(a domain.Analytics) {
	s.mu.Lock()
	s.analytics[domain.AnalyticsPeriod(a.Period)] = a
	s.mu.Unlock()
}

// Calls returns every request received so far as "<METHOD> <path>".
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallCount counts received requests whose "<METHOD> <path>" starts with prefix.
func (s *Server) CallCount(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// --- routing ---

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record, s.inject)

	api := e.Group("/api")
	api.GET("/", func(c echo.Context) error { return c.JSON(http.StatusOK, object{"status": "ok"}) })
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.authenticate)

	for _, r := range []string{"articles", "events", "categories", "contacts", "invitations"} {
		g := authed.Group("/" + r)
		g.GET("", s.list(r))
		g.POST("", s.create(r))
		g.GET("/:id", s.get(r))
		g.PUT("/:id", s.update(r))
		g.DELETE("/:id", s.remove(r))
	}

	authed.GET("/contacts/stats", s.contactStats)
	authed.PATCH("/contacts/:id/status", s.update("contacts"))

	authed.POST("/articles/:id/images", s.uploadImage)
	authed.DELETE("/articles/:id/images/:imageId", s.deleteImage)

	authed.GET("/events/admin/:id/bookings", s.eventBookings)
	authed.PUT("/events/admin/booking/:id/update-status", s.updateBooking)

	authed.GET("/admin/users", s.list("users"))
	authed.PUT("/admin/users/:id/update", s.update("users"))
	authed.DELETE("/admin/users/:id/delete", s.remove("users"))
	authed.GET("/users/:id", s.get("users"))

	authed.GET("/dashboard/homepage", s.homepage)
	authed.GET("/dashboard/analytics", s.analyticsFor)

	return e
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.calls = append(s.calls, c.Request().Method+" "+c.Request().URL.Path)
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		f, ok := s.failures[c.Request().Method+" "+c.Request().URL.Path]
		s.mu.Unlock()
		if ok {
			return message(c, f.status, f.message)
		}
		return next(c)
	}
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			return message(c, http.StatusUnauthorized, "Unauthorized")
		}
		_, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
			if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil {
			return message(c, http.StatusUnauthorized, "Invalid or expired token")
		}
		return next(c)
	}
}

// --- handlers ---

func (s *Server) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid payload")
	}

	s.mu.Lock()
	op, ok := s.operators[req.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(op.hash, []byte(req.Password)) != nil {
		return message(c, http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.IssueToken(op.user.ID, time.Hour)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, object{
		"success": true,
		"data":    object{"user": op.user, "accessToken": token},
	})
}

func (s *Server) list(resource string) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		items := append([]object{}, s.collections[resource]...)
		env := s.envelopes[resource]
		s.mu.Unlock()

		if status := c.QueryParam("status"); status != "" {
			kept := items[:0]
			for _, it := range items {
				if fmt.Sprint(it["status"]) == status {
					kept = append(kept, it)
				}
			}
			items = kept
		}

		switch env {
		case EnvelopeBare:
			return c.JSON(http.StatusOK, items)
		case EnvelopePlural:
			return c.JSON(http.StatusOK, object{resource: items})
		case EnvelopeDataPlural:
			page, limit := queryInt(c, "page", 1), queryInt(c, "limit", 10)
			return c.JSON(http.StatusOK, object{"data": object{
				resource:     pageOf(items, page, limit),
				"pagination": pagination(len(items), page, limit),
			}})
		case EnvelopeUnknown:
			return c.JSON(http.StatusOK, object{"result": items})
		default:
			return c.JSON(http.StatusOK, object{"success": true, "data": items})
		}
	}
}

func (s *Server) create(resource string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in object
		if err := c.Bind(&in); err != nil {
			return message(c, http.StatusBadRequest, "Invalid payload")
		}
		in["id"] = uuid.NewString()
		in["createdAt"] = time.Now().UTC().Format(time.RFC3339)
		if resource == "invitations" {
			if _, ok := in["expiresAt"]; !ok {
				in["expiresAt"] = time.Now().Add(7 * 24 * time.Hour).UTC().Format(time.RFC3339)
			}
		}

		s.mu.Lock()
		s.collections[resource] = append(s.collections[resource], in)
		s.mu.Unlock()
		return c.JSON(http.StatusCreated, object{"success": true, "data": in})
	}
}

func (s *Server) get(resource string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		s.mu.Lock()
		i := s.indexOf(resource, id)
		if i < 0 && resource == "categories" {
			i = s.indexByName(resource, id)
		}
		var item object
		if i >= 0 {
			item = s.collections[resource][i]
		}
		s.mu.Unlock()

		if item == nil {
			return message(c, http.StatusNotFound, "Not found")
		}
		return c.JSON(http.StatusOK, object{"success": true, "data": item})
	}
}

func (s *Server) update(resource string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch object
		if err := c.Bind(&patch); err != nil {
			return message(c, http.StatusBadRequest, "Invalid payload")
		}

		s.mu.Lock()
		i := s.indexOf(resource, c.Param("id"))
		if i < 0 {
			s.mu.Unlock()
			return message(c, http.StatusNotFound, "Not found")
		}
		item := s.collections[resource][i]
		for k, v := range patch {
			if k != "id" {
				item[k] = v
			}
		}
		s.mu.Unlock()
		return c.JSON(http.StatusOK, object{"success": true, "data": item})
	}
}

func (s *Server) remove(resource string) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		i := s.indexOf(resource, c.Param("id"))
		if i >= 0 {
			items := s.collections[resource]
			s.collections[resource] = append(items[:i:i], items[i+1:]...)
		}
		s.mu.Unlock()

		if i < 0 {
			return message(c, http.StatusNotFound, "Not found")
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (s *Server) contactStats(c echo.Context) error {
	s.mu.Lock()
	stats := domain.ContactStats{Total: len(s.collections["contacts"])}
	for _, it := range s.collections["contacts"] {
		switch domain.ContactStatus(fmt.Sprint(it["status"])) {
		case domain.ContactUnread:
			stats.Unread++
		case domain.ContactRead:
			stats.Read++
		case domain.ContactInProgress:
			stats.InProgress++
		case domain.ContactResolved:
			stats.Resolved++
		}
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, object{"success": true, "data": object{"stats": stats}})
}

func (s *Server) uploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return message(c, http.StatusBadRequest, "image is required")
	}
	img := domain.ArticleImage{
		ID:        uuid.NewString(),
		ArticleID: c.Param("id"),
		URL:       "https://cdn.kmt.test/" + file.Filename,
		AltText:   c.FormValue("altText"),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	i := s.indexOf("articles", c.Param("id"))
	if i >= 0 {
		item := s.collections["articles"][i]
		images, _ := item["images"].([]any)
		item["images"] = append(images, img)
	}
	s.mu.Unlock()

	if i < 0 {
		return message(c, http.StatusNotFound, "Article not found")
	}
	return c.JSON(http.StatusCreated, object{"success": true, "data": object{"image": img}})
}

func (s *Server) deleteImage(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf("articles", c.Param("id")) < 0 {
		return message(c, http.StatusNotFound, "Article not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) eventBookings(c echo.Context) error {
	s.mu.Lock()
	b, ok := s.bookings[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		return message(c, http.StatusNotFound, "Event not found")
	}
	return c.JSON(http.StatusOK, object{"success": true, "data": b})
}

func (s *Server) updateBooking(c echo.Context) error {
	var in domain.UpdateBookingInput
	if err := c.Bind(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for eventID, eb := range s.bookings {
		for i := range eb.Bookings {
			if eb.Bookings[i].BookingID != c.Param("id") {
				continue
			}
			eb.Bookings[i].Status = in.Status
			if in.PaymentStatus != "" {
				eb.Bookings[i].PaymentStatus = in.PaymentStatus
			}
			s.bookings[eventID] = eb
			return c.JSON(http.StatusOK, object{"success": true})
		}
	}
	return message(c, http.StatusNotFound, "Booking not found")
}

func (s *Server) homepage(c echo.Context) error {
	s.mu.Lock()
	d := s.dashboard
	s.mu.Unlock()
	return c.JSON(http.StatusOK, object{"success": true, "data": object{"dashboard": d}})
}

func (s *Server) analyticsFor(c echo.Context) error {
	period := domain.AnalyticsPeriod(c.QueryParam("period"))
	s.mu.Lock()
	a, ok := s.analytics[period]
	s.mu.Unlock()
	if !ok {
		a = domain.Analytics{Period: string(period)}
	}
	return c.JSON(http.StatusOK, object{"success": true, "data": object{"analytics": a}})
}

// --- helpers ---

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, object{"success": false, "message": msg})
}

func (s *Server) indexOf(resource, id string) int {
	for i, it := range s.collections[resource] {
		if fmt.Sprint(it["id"]) == id {
			return i
		}
	}
	return -1
}

func (s *Server) indexByName(resource, name string) int {
	for i, it := range s.collections[resource] {
		if fmt.Sprint(it["name"]) == name {
			return i
		}
	}
	return -1
}

func toObject(v any) (object, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if obj == nil {
		return nil, errors.New("seed: item is not a JSON object")
	}
	return obj, nil
}

func queryInt(c echo.Context, name string, def int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func pageOf(items []object, page, limit int) []object {
	start := (page - 1) * limit
	if start >= len(items) {
		return []object{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}

func pagination(total, page, limit int) domain.Pagination {
	pages := int(math.Ceil(float64(total) / float64(limit)))
	return domain.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

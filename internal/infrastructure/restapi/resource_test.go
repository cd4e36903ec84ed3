package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

func newTestTransport(t *testing.T, h http.HandlerFunc) *Transport {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	tr, err := NewTransport(Config{BaseURL: srv.URL + "/api"}, zerolog.Nop())
	require.NoError(t, err)
	return tr
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewTransport_InvalidBaseURL(t *testing.T) {
	_, err := NewTransport(Config{BaseURL: "not a url"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestTransport_Headers(t *testing.T) {
	var auth, requestID atomic.Value
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		requestID.Store(r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, `[]`)
	})
	client := NewArticleClient(tr)

	_, err := client.List(context.Background(), domain.ListQuery{}, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", auth.Load())
	assert.NotEmpty(t, requestID.Load())

	_, err = client.List(context.Background(), domain.ListQuery{}, "")
	require.NoError(t, err)
	assert.Equal(t, "", auth.Load(), "no Authorization header without a token")
}

func TestResourceClient_ListQuery(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/articles", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "PUBLISHED", r.URL.Query().Get("status"))
		writeJSON(w, http.StatusOK, `{"data":{"articles":[{"id":"a1"}],"pagination":{"currentPage":2,"totalPages":2}}}`)
	})

	page, err := NewArticleClient(tr).List(context.Background(), domain.ListQuery{Page: 2, Limit: 20, Status: "PUBLISHED"}, "tok")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	require.NotNil(t, page.Pagination)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

func TestResourceClient_UnrecognizedListIsEmpty(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"result":"weird"}`)
	})

	page, err := NewCategoryClient(tr).List(context.Background(), domain.ListQuery{}, "tok")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestResourceClient_ServerMessage(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message":"DB unavailable"}`)
	})

	_, err := NewEventClient(tr).Update(context.Background(), "e1", domain.UpdateEventInput{}, "tok")
	require.Error(t, err)

	var rf *domain.RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, http.StatusInternalServerError, rf.Status)
	assert.Equal(t, "DB unavailable", rf.ServerMessage)
	assert.True(t, rf.Transient())
	assert.Equal(t, "DB unavailable", domain.Message(err, "Failed to update event"))
}

func TestResourceClient_StatusTextFallback(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := NewEventClient(tr).Delete(context.Background(), "e1", "tok")
	assert.True(t, errors.Is(err, domain.ErrRequestFailed))
	assert.Equal(t, "Request failed: 503 Service Unavailable", domain.Message(err, "x"))
}

func TestResourceClient_NonStringMessageIgnored(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"message":["title is required"]}`)
	})

	err := NewEventClient(tr).Delete(context.Background(), "e1", "tok")
	var rf *domain.RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Empty(t, rf.ServerMessage)
	assert.Equal(t, "Request failed: 400 Bad Request", domain.Message(err, "x"))
}

func TestResourceClient_CreateSendsJSON(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Insects", in["name"])
		writeJSON(w, http.StatusCreated, `{"data":{"category":{"id":"cat9","name":"Insects"}}}`)
	})

	got, err := NewCategoryClient(tr).Create(context.Background(), domain.CreateCategoryInput{Name: "Insects"}, "tok")
	require.NoError(t, err)
	assert.Equal(t, "cat9", got.ID)
}

func TestResourceClient_GetByIDNotFound(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/missing", r.URL.Path)
		writeJSON(w, http.StatusNotFound, `{"message":"Category not found"}`)
	})

	got, err := NewCategoryClient(tr).GetByID(context.Background(), "missing", "tok")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResourceClient_GetByIDFound(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"category":{"id":"c1","name":"Birds"}}}`)
	})

	got, err := NewCategoryClient(tr).GetByID(context.Background(), "c1", "tok")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Birds", got.Name)
}

func TestCategoryClient_GetByNameEscapes(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/Big%20Cats", r.URL.EscapedPath())
		writeJSON(w, http.StatusNotFound, `{}`)
	})

	got, err := NewCategoryClient(tr).GetByName(context.Background(), "Big Cats", "tok")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestContactClient_UpdateUsesPatchStatus(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/contacts/c3/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "RESOLVED", body["status"])
		writeJSON(w, http.StatusOK, `{"data":{"contact":{"id":"c3","status":"RESOLVED"}}}`)
	})

	got, err := NewContactClient(tr).Update(context.Background(), "c3", domain.UpdateContactInput{Status: domain.ContactResolved}, "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.ContactResolved, got.Status)
}

func TestResourceClient_UnsupportedMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := NewUserClient(tr).Create(context.Background(), domain.NoInput{}, "tok")
	assert.True(t, errors.Is(err, domain.ErrUnsupported))

	_, err = NewInvitationClient(tr).Update(context.Background(), "i1", domain.NoInput{}, "tok")
	assert.True(t, errors.Is(err, domain.ErrUnsupported))
	assert.Zero(t, calls.Load())
}

func TestResourceClient_UserRoutes(t *testing.T) {
	var paths []string
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"user":{"id":"u1","firstName":"Ana"}}}`)
		}
	})
	client := NewUserClient(tr)
	ctx := context.Background()

	status := domain.UserSuspended
	_, err := client.Update(ctx, "u1", domain.UpdateUserInput{Status: &status}, "tok")
	require.NoError(t, err)
	require.NoError(t, client.Delete(ctx, "u1", "tok"))
	_, err = client.GetByID(ctx, "u1", "tok")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"PUT /api/admin/users/u1/update",
		"DELETE /api/admin/users/u1/delete",
		"GET /api/users/u1",
	}, paths)
}

func TestTransport_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	tr, err := NewTransport(Config{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)

	_, err = NewArticleClient(tr).List(context.Background(), domain.ListQuery{}, "tok")
	assert.True(t, errors.Is(err, domain.ErrUnavailable), "got %v", err)
	assert.Equal(t, domain.MsgUnavailable, domain.Message(err, "x"))
}

func TestArticleClient_UploadImage(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/articles/a1/images", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "gorilla.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
		assert.Equal(t, "A silverback", r.FormValue("altText"))

		writeJSON(w, http.StatusCreated, `{"data":{"image":{"id":"img1","articleId":"a1","url":"https://cdn/x.png"}}}`)
	})

	img, err := NewArticleClient(tr).UploadImage(context.Background(), "a1", ports.ImageUpload{
		Filename:    "gorilla.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 'P', 'N', 'G'},
		AltText:     "A silverback",
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, "img1", img.ID)
}

func TestEventClient_Bookings(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/api/events/admin/e1/bookings", r.URL.Path)
			writeJSON(w, http.StatusOK, `{"message":"ok","status":"success","eventId":"e1","eventTitle":"Trek",
				"totalBookings":1,"totalAttendees":1,
				"bookings":[{"bookingId":"b1","status":"PENDING","paymentStatus":"UNPAID","user":{"id":"u1","email":"u@kmt.org"}}]}`)
		case http.MethodPut:
			assert.Equal(t, "/api/events/admin/booking/b1/update-status", r.URL.Path)
			writeJSON(w, http.StatusOK, `{"message":"updated"}`)
		}
	})
	client := NewEventClient(tr)

	b, err := client.Bookings(context.Background(), "e1", "tok")
	require.NoError(t, err)
	assert.Equal(t, "Trek", b.EventTitle)
	require.Len(t, b.Bookings, 1)
	assert.Equal(t, domain.BookingPending, b.Bookings[0].Status)

	err = client.UpdateBookingStatus(context.Background(), "b1", domain.UpdateBookingInput{Status: domain.BookingConfirmed}, "tok")
	require.NoError(t, err)
}

func TestContactClient_Stats(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contacts/stats", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"data":{"stats":{"total":9,"unread":4}}}`)
	})

	stats, err := NewContactClient(tr).Stats(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 9, stats.Total)
	assert.Equal(t, 4, stats.Unread)
}

func TestDashboardClient(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dashboard/homepage":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"dashboard":{"admin":{"users":{"total":120}}}}}`)
		case "/api/dashboard/analytics":
			assert.Equal(t, "7d", r.URL.Query().Get("period"))
			writeJSON(w, http.StatusOK, `{"data":{"analytics":{"period":"7d"}}}`)
		}
	})
	client := NewDashboardClient(tr)

	d, err := client.Homepage(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 120, d.Admin.Users.Total)

	a, err := client.Analytics(context.Background(), domain.Period7d, "tok")
	require.NoError(t, err)
	assert.Equal(t, "7d", a.Period)
}

func TestAuthClient_Login(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "s3cret" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"data":{"user":{"id":"op1","email":"op@kmt.org","role":"ADMIN"},"accessToken":"jwt-token"}}`)
	})
	client := NewAuthClient(tr)

	token, user, err := client.Login(context.Background(), "op@kmt.org", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, _, err = client.Login(context.Background(), "op@kmt.org", "wrong")
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestTransport_Ping(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message":"no route"}`)
	})
	assert.NoError(t, tr.Ping(context.Background()), "any answer means reachable")

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	down, err := NewTransport(Config{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)
	assert.ErrorIs(t, down.Ping(context.Background()), domain.ErrUnavailable)
}

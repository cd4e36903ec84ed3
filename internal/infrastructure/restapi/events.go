package restapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

type EventClient struct {
	*ResourceClient[domain.Event, domain.CreateEventInput, domain.UpdateEventInput]
}

func NewEventClient(t *Transport) *EventClient {
	return &EventClient{NewResourceClient[domain.Event, domain.CreateEventInput, domain.UpdateEventInput](t, Collection{
		Resource: "events",
		Keys:     Keys{Singular: "event", Plural: "events"},
		Routes: Routes{
			List:   "/events",
			Create: "/events",
			Item:   itemPath("/events", ""),
			Update: itemPath("/events", ""),
			Delete: itemPath("/events", ""),
		},
	})}
}

// Bookings returns the admin bookings view of one event.
func (c *EventClient) Bookings(ctx context.Context, eventID, token string) (domain.EventBookings, error) {
	resp, err := c.t.Do(ctx, Request{
		Resource: "events",
		Method:   http.MethodGet,
		Path:     "/events/admin/" + url.PathEscape(eventID) + "/bookings",
		Token:    token,
	})
	if err != nil {
		return domain.EventBookings{}, fmt.Errorf("event bookings %s: %w", eventID, err)
	}

	out, err := DecodeValue[domain.EventBookings](resp.Body, "")
	if err != nil {
		return domain.EventBookings{}, fmt.Errorf("event bookings %s: %w", eventID, err)
	}
	if out.EventID == "" {
		out.EventID = eventID
	}
	return out, nil
}

func (c *EventClient) UpdateBookingStatus(ctx context.Context, bookingID string, in domain.UpdateBookingInput, token string) error {
	_, err := c.t.Do(ctx, Request{
		Resource: "events",
		Method:   http.MethodPut,
		Path:     "/events/admin/booking/" + url.PathEscape(bookingID) + "/update-status",
		Body:     in,
		Token:    token,
	})
	if err != nil {
		return fmt.Errorf("update booking %s: %w", bookingID, err)
	}
	return nil
}

package service

import (
	"context"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

type EventClient interface {
	ports.ResourceClient[domain.Event, domain.CreateEventInput, domain.UpdateEventInput]
	ports.EventBookingClient
}

type EventStore struct {
	*Store[domain.Event, domain.CreateEventInput, domain.UpdateEventInput]
	bookings ports.EventBookingClient
	deps     Deps
}

func eventLabels() Labels[domain.Event] {
	return Labels[domain.Event]{
		Resource: "events",
		Noun:     "event",
		Created: func(e domain.Event) domain.Notification {
			return domain.Success("Event Created", e.Title+" has been created successfully")
		},
		Updated: func(e domain.Event) domain.Notification {
			return domain.Success("Event Updated", e.Title+" has been updated")
		},
		Deleted: func(string) domain.Notification {
			return domain.Success("Event Deleted", "Event has been removed successfully")
		},
	}
}

func NewEventStore(client EventClient, deps Deps, opts ...Option) *EventStore {
	return &EventStore{
		Store:    NewStore[domain.Event, domain.CreateEventInput, domain.UpdateEventInput](client, deps, eventLabels(), opts...),
		bookings: client,
		deps:     deps,
	}
}

// ByStatus groups the current events; all four statuses are always present.
func (s *EventStore) ByStatus() map[domain.EventStatus][]domain.Event {
	return GroupBy(s.Items(), func(e domain.Event) domain.EventStatus { return e.Status },
		domain.EventUpcoming, domain.EventOngoing, domain.EventCompleted, domain.EventCancelled)
}

// Bookings returns a query over the bookings of eventID.
func (s *EventStore) Bookings(eventID string) *EventBookings {
	return NewEventBookings(s.bookings, eventID, s.deps)
}

// EventBookings is the admin bookings view of one event.
type EventBookings struct {
	*Query[domain.EventBookings]
	client  ports.EventBookingClient
	eventID string
}

func NewEventBookings(client ports.EventBookingClient, eventID string, deps Deps) *EventBookings {
	return &EventBookings{
		Query: NewQuery[domain.EventBookings]("event bookings", func(ctx context.Context, token string) (domain.EventBookings, error) {
			return client.Bookings(ctx, eventID, token)
		}, deps),
		client:  client,
		eventID: eventID,
	}
}

// UpdateStatus changes a booking's status, then reloads the bookings.
func (b *EventBookings) UpdateStatus(ctx context.Context, bookingID string, in domain.UpdateBookingInput) error {
	token, ok := "", false
	if b.deps.Tokens != nil {
		token, ok = b.deps.Tokens.Token(ctx)
	}
	if !ok || token == "" {
		b.notify(domain.Notification{Variant: domain.VariantDestructive, Title: "Unauthorized", Description: domain.MsgAuthRequired})
		return domain.ErrUnauthorized
	}
	if b.deps.Validator != nil {
		if err := b.deps.Validator.Validate(in); err != nil {
			b.notify(domain.Failure(domain.Message(err, "Invalid booking update")))
			return err
		}
	}

	if err := b.client.UpdateBookingStatus(ctx, bookingID, in, token); err != nil {
		b.notify(domain.Failure(domain.Message(err, "Failed to update booking")))
		return err
	}
	b.notify(domain.Success("Booking Updated", "Booking status has been updated"))
	return b.Refetch(ctx)
}

func (b *EventBookings) notify(n domain.Notification) {
	if b.deps.Notifier != nil {
		b.deps.Notifier.Notify(n)
	}
}

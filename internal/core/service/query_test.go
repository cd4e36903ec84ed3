package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

func TestQuery_Refetch(t *testing.T) {
	calls := 0
	q := NewQuery[domain.ContactStats]("contact stats", func(_ context.Context, token string) (domain.ContactStats, error) {
		calls++
		if token != "tok" {
			t.Errorf("unexpected token %q", token)
		}
		return domain.ContactStats{Total: 7}, nil
	}, newDeps(&stubTokens{token: "tok"}, &recordingNotifier{}))

	if err := q.Refetch(context.Background()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	snap := q.Snapshot()
	if snap.Phase != PhaseReady || snap.Value == nil || snap.Value.Total != 7 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestQuery_NoTokenStaysIdle(t *testing.T) {
	q := NewQuery[int]("n", func(context.Context, string) (int, error) {
		t.Fatalf("must not fetch without a token")
		return 0, nil
	}, newDeps(&stubTokens{}, &recordingNotifier{}))

	_ = q.Refetch(context.Background())
	if q.Snapshot().Phase != PhaseIdle {
		t.Errorf("expected idle")
	}
	if _, ok := q.Value(); ok {
		t.Errorf("expected no value")
	}
}

func TestQuery_ResetForgetsValue(t *testing.T) {
	q := NewQuery[int]("n", func(context.Context, string) (int, error) {
		return 4, nil
	}, newDeps(&stubTokens{token: "tok"}, &recordingNotifier{}))

	_ = q.Refetch(context.Background())
	if _, ok := q.Value(); !ok {
		t.Fatalf("expected a value after refetch")
	}

	q.Reset()
	snap := q.Snapshot()
	if snap.Phase != PhaseIdle || snap.Value != nil || snap.Error != "" {
		t.Errorf("unexpected snapshot after reset: %+v", snap)
	}
}

func TestQuery_FailureNotifies(t *testing.T) {
	n := &recordingNotifier{}
	q := NewQuery[domain.Dashboard]("dashboard data", func(context.Context, string) (domain.Dashboard, error) {
		return domain.Dashboard{}, errors.New("socket closed")
	}, newDeps(&stubTokens{token: "tok"}, n))

	if err := q.Refetch(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	snap := q.Snapshot()
	if snap.Phase != PhaseFailed || snap.Error != "Failed to fetch dashboard data" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if n.count(domain.VariantDestructive) != 1 {
		t.Errorf("expected one destructive notification")
	}
}

func TestEventBookings_UpdateStatusRefetches(t *testing.T) {
	client := &stubEventClient{
		stubClient: &stubClient[domain.Event, domain.CreateEventInput, domain.UpdateEventInput]{},
		bookings:   domain.EventBookings{EventID: "e1", TotalBookings: 1},
	}
	n := &recordingNotifier{}
	store := NewEventStore(client, newDeps(&stubTokens{token: "tok"}, n), WithAutoFetch(false))
	bookings := store.Bookings("e1")

	err := bookings.UpdateStatus(context.Background(), "b1", domain.UpdateBookingInput{Status: domain.BookingConfirmed})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(client.updatedWith) != 1 || client.updatedWith[0].Status != domain.BookingConfirmed {
		t.Errorf("unexpected update calls: %+v", client.updatedWith)
	}
	if v, ok := bookings.Value(); !ok || v.TotalBookings != 1 {
		t.Errorf("expected bookings reloaded, got %+v", v)
	}
	if got := n.all(); len(got) != 1 || got[0].Title != "Booking Updated" {
		t.Errorf("unexpected notifications: %+v", got)
	}
}

func TestEventBookings_UpdateStatusUnauthorized(t *testing.T) {
	client := &stubEventClient{stubClient: &stubClient[domain.Event, domain.CreateEventInput, domain.UpdateEventInput]{}}
	store := NewEventStore(client, newDeps(&stubTokens{}, &recordingNotifier{}), WithAutoFetch(false))

	err := store.Bookings("e1").UpdateStatus(context.Background(), "b1", domain.UpdateBookingInput{Status: domain.BookingConfirmed})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got: %v", err)
	}
	if len(client.updatedWith) != 0 {
		t.Errorf("expected no network call")
	}
}

func TestNewAnalytics_InvalidPeriodDefaults(t *testing.T) {
	var gotPeriod domain.AnalyticsPeriod
	client := stubDashboardClient{analyticsFn: func(p domain.AnalyticsPeriod) { gotPeriod = p }}

	q := NewAnalytics(client, "2w", newDeps(&stubTokens{token: "tok"}, &recordingNotifier{}))
	_ = q.Refetch(context.Background())
	if gotPeriod != domain.Period30d {
		t.Errorf("expected 30d fallback, got %q", gotPeriod)
	}
}

type stubDashboardClient struct {
	analyticsFn func(domain.AnalyticsPeriod)
}

func (stubDashboardClient) Homepage(context.Context, string) (domain.Dashboard, error) {
	return domain.Dashboard{}, nil
}

func (c stubDashboardClient) Analytics(_ context.Context, p domain.AnalyticsPeriod, _ string) (domain.Analytics, error) {
	c.analyticsFn(p)
	return domain.Analytics{Period: string(p)}, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	cases := []struct {
		name        string
		page, limit int
		want        []int
		hasNext     bool
		hasPrev     bool
	}{
		{"first page", 1, 3, []int{1, 2, 3}, true, false},
		{"last partial page", 3, 3, []int{7}, false, true},
		{"past the end", 9, 3, []int{}, false, true},
		{"defaults", 0, 0, []int{1, 2, 3, 4, 5, 6, 7}, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, p := Paginate(items, tc.page, tc.limit)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
			if p.Total != 7 || p.HasNext != tc.hasNext || p.HasPrev != tc.hasPrev {
				t.Errorf("unexpected pagination: %+v", p)
			}
		})
	}
}

func TestEventStore_ByStatus(t *testing.T) {
	client := &stubEventClient{stubClient: &stubClient[domain.Event, domain.CreateEventInput, domain.UpdateEventInput]{
		listFn: listOf([]domain.Event{
			{ID: "e1", Status: domain.EventUpcoming},
			{ID: "e2", Status: domain.EventCompleted},
			{ID: "e3", Status: domain.EventUpcoming},
		}),
	}}
	store := NewEventStore(client, newDeps(&stubTokens{token: "tok"}, &recordingNotifier{}))
	_ = store.Mount(context.Background())

	groups := store.ByStatus()
	if len(groups[domain.EventUpcoming]) != 2 || len(groups[domain.EventCompleted]) != 1 {
		t.Errorf("unexpected grouping: %+v", groups)
	}
	if groups[domain.EventOngoing] == nil || len(groups[domain.EventCancelled]) != 0 {
		t.Errorf("every status must be present, got %+v", groups)
	}
}

func TestArticleStore_Stats(t *testing.T) {
	client := &stubArticleClient{stubClient: &stubClient[domain.Article, domain.CreateArticleInput, domain.UpdateArticleInput]{
		listFn: listOf([]domain.Article{
			{ID: "a1", Status: domain.ArticlePublished, ViewCount: 10},
			{ID: "a2", Status: domain.ArticleDraft, ViewCount: 1},
			{ID: "a3", Status: domain.ArticlePublished, ViewCount: 4},
		}),
	}}
	store := NewArticleStore(client, newDeps(&stubTokens{token: "tok"}, &recordingNotifier{}))
	_ = store.Mount(context.Background())

	got := store.Stats()
	want := domain.ArticleStats{Total: 3, Published: 2, Draft: 1, TotalViews: 15}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if len(store.ByStatus()[domain.ArticleArchived]) != 0 {
		t.Errorf("expected no archived articles")
	}
}

func TestUserStore_View(t *testing.T) {
	users := []domain.User{
		{ID: "u1", FirstName: "Ana", LastName: "Mugisha", Email: "ana@kmt.org", Role: domain.RoleExpert, Status: domain.UserActive, Country: "RW"},
		{ID: "u2", FirstName: "Ben", LastName: "Okello", Email: "ben@kmt.org", Role: domain.RoleGuide, Status: domain.UserSuspended, Country: "UG"},
		{ID: "u3", FirstName: "Cleo", LastName: "Anan", Email: "cleo@kmt.org", Role: domain.RoleExpert, Status: domain.UserActive, Country: "RW"},
	}
	client := &stubClient[domain.User, domain.NoInput, domain.UpdateUserInput]{listFn: listOf(users)}
	store := NewUserStore(client, newDeps(&stubTokens{token: "tok"}, &recordingNotifier{}))
	_ = store.Mount(context.Background())

	v := store.View(UserFilter{Search: "AN"}, 1, 10)
	if len(v.Users) != 2 || v.Users[0].ID != "u1" || v.Users[1].ID != "u3" {
		t.Errorf("search must match first/last name and email case-insensitively, got %+v", v.Users)
	}

	v = store.View(UserFilter{Role: domain.RoleExpert, Country: "RW", Status: "all"}, 2, 1)
	if len(v.Users) != 1 || v.Users[0].ID != "u3" {
		t.Errorf("unexpected page: %+v", v.Users)
	}
	if v.Pagination.Total != 2 || v.Pagination.TotalPages != 2 || v.Pagination.HasNext {
		t.Errorf("unexpected pagination: %+v", v.Pagination)
	}
}

func TestInvitationStore_View(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	accepted := now.Add(-time.Hour)
	invites := []domain.Invitation{
		{ID: "i1", Email: "guide@kmt.org", Role: domain.RoleGuide, ExpiresAt: now.Add(24 * time.Hour)},
		{ID: "i2", Email: "old@kmt.org", Role: domain.RoleExpert, ExpiresAt: now.Add(-24 * time.Hour)},
		{ID: "i3", Email: "done@kmt.org", Role: domain.RoleExpert, ExpiresAt: now.Add(-24 * time.Hour), AcceptedAt: &accepted},
	}
	client := &stubClient[domain.Invitation, domain.CreateInvitationInput, domain.NoInput]{listFn: listOf(invites)}
	store := NewInvitationStore(client, newDeps(&stubTokens{token: "tok"}, &recordingNotifier{}))
	_ = store.Mount(context.Background())

	v := store.View(InvitationFilter{}, 1, 10, now)
	if v.Counts["pending"] != 1 || v.Counts["expired"] != 1 || v.Counts["accepted"] != 1 || v.Counts["total"] != 3 {
		t.Errorf("unexpected counts: %+v", v.Counts)
	}

	v = store.View(InvitationFilter{State: domain.InvitationExpired}, 1, 10, now)
	if len(v.Invitations) != 1 || v.Invitations[0].ID != "i2" {
		t.Errorf("expected only i2 expired, got %+v", v.Invitations)
	}

	v = store.View(InvitationFilter{Search: "expert"}, 1, 10, now)
	if len(v.Invitations) != 2 {
		t.Errorf("search must match role, got %+v", v.Invitations)
	}
}

func TestInvitationStore_SendNotifies(t *testing.T) {
	client := &stubClient[domain.Invitation, domain.CreateInvitationInput, domain.NoInput]{
		createFn: func(_ context.Context, in domain.CreateInvitationInput) (domain.Invitation, error) {
			return domain.Invitation{ID: "i9", Email: in.Email, Role: in.Role}, nil
		},
	}
	n := &recordingNotifier{}
	store := NewInvitationStore(client, newDeps(&stubTokens{token: "tok"}, n), WithAutoFetch(false))

	if _, err := store.Send(context.Background(), domain.CreateInvitationInput{Email: "new@kmt.org", Role: domain.RoleStudent}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	got := n.all()
	if len(got) != 1 || got[0].Title != "Invitation Sent" || got[0].Description != "Invitation sent to new@kmt.org successfully." {
		t.Errorf("unexpected notification: %+v", got)
	}
}

type stubEventClient struct {
	*stubClient[domain.Event, domain.CreateEventInput, domain.UpdateEventInput]
	bookings    domain.EventBookings
	bookingErr  error
	updatedWith []domain.UpdateBookingInput
}

func (c *stubEventClient) Bookings(context.Context, string, string) (domain.EventBookings, error) {
	return c.bookings, nil
}

func (c *stubEventClient) UpdateBookingStatus(_ context.Context, _ string, in domain.UpdateBookingInput, _ string) error {
	if c.bookingErr != nil {
		return c.bookingErr
	}
	c.updatedWith = append(c.updatedWith, in)
	return nil
}

type stubArticleClient struct {
	*stubClient[domain.Article, domain.CreateArticleInput, domain.UpdateArticleInput]
}

func (c *stubArticleClient) UploadImage(context.Context, string, ports.ImageUpload, string) (domain.ArticleImage, error) {
	return domain.ArticleImage{ID: "img1"}, nil
}

func (c *stubArticleClient) DeleteImage(context.Context, string, string, string) error {
	return nil
}

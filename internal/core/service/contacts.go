package service

import (
	"context"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

type ContactClient interface {
	ports.ResourceClient[domain.Contact, domain.CreateContactInput, domain.UpdateContactInput]
	ports.ContactStatsClient
}

type ContactStore struct {
	*Store[domain.Contact, domain.CreateContactInput, domain.UpdateContactInput]
	stats ports.ContactStatsClient
	deps  Deps
}

func contactLabels() Labels[domain.Contact] {
	return Labels[domain.Contact]{
		Resource: "contacts",
		Noun:     "contact",
		Created: func(c domain.Contact) domain.Notification {
			return domain.Success("Contact Created", "Message from "+c.Name+" has been recorded")
		},
		Updated: func(c domain.Contact) domain.Notification {
			return domain.Success("Contact Updated", "Contact marked as "+string(c.Status))
		},
		Deleted: func(string) domain.Notification {
			return domain.Success("Contact Deleted", "Contact has been removed successfully")
		},
	}
}

func NewContactStore(client ContactClient, deps Deps, opts ...Option) *ContactStore {
	return &ContactStore{
		Store: NewStore[domain.Contact, domain.CreateContactInput, domain.UpdateContactInput](client, deps, contactLabels(), opts...),
		stats: client,
		deps:  deps,
	}
}

// UpdateStatus moves a contact through the triage workflow.
func (s *ContactStore) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) (domain.Contact, error) {
	return s.Update(ctx, id, domain.UpdateContactInput{Status: status})
}

func (s *ContactStore) ByStatus() map[domain.ContactStatus][]domain.Contact {
	return GroupBy(s.Items(), func(c domain.Contact) domain.ContactStatus { return c.Status },
		domain.ContactUnread, domain.ContactRead, domain.ContactInProgress, domain.ContactResolved)
}

// Stats returns a query over the server-computed contact counters.
func (s *ContactStore) Stats() *Query[domain.ContactStats] {
	return NewQuery[domain.ContactStats]("contact stats", s.stats.Stats, s.deps)
}

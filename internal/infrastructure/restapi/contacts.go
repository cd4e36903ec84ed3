package restapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// ContactClient talks to /contacts. Updates only change the status and go
// through PATCH /contacts/{id}/status.
type ContactClient struct {
	*ResourceClient[domain.Contact, domain.CreateContactInput, domain.UpdateContactInput]
}

func NewContactClient(t *Transport) *ContactClient {
	return &ContactClient{NewResourceClient[domain.Contact, domain.CreateContactInput, domain.UpdateContactInput](t, Collection{
		Resource: "contacts",
		Keys:     Keys{Singular: "contact", Plural: "contacts"},
		Routes: Routes{
			List:         "/contacts",
			Create:       "/contacts",
			Item:         itemPath("/contacts", ""),
			Update:       itemPath("/contacts", "/status"),
			Delete:       itemPath("/contacts", ""),
			UpdateMethod: http.MethodPatch,
		},
	})}
}

func (c *ContactClient) Stats(ctx context.Context, token string) (domain.ContactStats, error) {
	resp, err := c.t.Do(ctx, Request{
		Resource: "contacts",
		Method:   http.MethodGet,
		Path:     "/contacts/stats",
		Token:    token,
	})
	if err != nil {
		return domain.ContactStats{}, fmt.Errorf("contact stats: %w", err)
	}

	stats, err := DecodeValue[domain.ContactStats](resp.Body, "stats")
	if err != nil {
		return domain.ContactStats{}, fmt.Errorf("contact stats: %w", err)
	}
	return stats, nil
}

package restapi

import "github.com/kmtdiscovery/admin-console/internal/core/domain"

// NewInvitationClient returns the /invitations client. Invitations cannot be
// edited; Delete revokes.
func NewInvitationClient(t *Transport) *ResourceClient[domain.Invitation, domain.CreateInvitationInput, domain.NoInput] {
	return NewResourceClient[domain.Invitation, domain.CreateInvitationInput, domain.NoInput](t, Collection{
		Resource: "invitations",
		Keys:     Keys{Singular: "invitation", Plural: "invitations"},
		Routes: Routes{
			List:   "/invitations",
			Create: "/invitations",
			Item:   itemPath("/invitations", ""),
			Delete: itemPath("/invitations", ""),
		},
	})
}

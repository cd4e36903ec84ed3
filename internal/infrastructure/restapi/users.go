package restapi

import "github.com/kmtdiscovery/admin-console/internal/core/domain"

// NewUserClient returns the admin users client. Accounts are created through
// invitations, so Create is unsupported.
func NewUserClient(t *Transport) *ResourceClient[domain.User, domain.NoInput, domain.UpdateUserInput] {
	return NewResourceClient[domain.User, domain.NoInput, domain.UpdateUserInput](t, Collection{
		Resource: "users",
		Keys:     Keys{Singular: "user", Plural: "users"},
		Routes: Routes{
			List:   "/admin/users",
			Item:   itemPath("/users", ""),
			Update: itemPath("/admin/users", "/update"),
			Delete: itemPath("/admin/users", "/delete"),
		},
	})
}

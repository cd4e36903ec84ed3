package service

import (
	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

type UserClient = ports.ResourceClient[domain.User, domain.NoInput, domain.UpdateUserInput]

// UserStore loads every user once and filters and pages locally.
type UserStore struct {
	*Store[domain.User, domain.NoInput, domain.UpdateUserInput]
}

func userLabels() Labels[domain.User] {
	return Labels[domain.User]{
		Resource: "users",
		Noun:     "user",
		Updated: func(domain.User) domain.Notification {
			return domain.Success("User Updated", "User updated successfully.")
		},
		Deleted: func(string) domain.Notification {
			return domain.Success("User Deleted", "User has been deleted successfully.")
		},
	}
}

func NewUserStore(client UserClient, deps Deps, opts ...Option) *UserStore {
	return &UserStore{Store: NewStore(client, deps, userLabels(), opts...)}
}

// UserFilter narrows the user list. Empty fields (or "all") match everything.
type UserFilter struct {
	Search  string
	Status  domain.UserStatus
	Role    domain.Role
	Country string
}

type UserView struct {
	Users      []domain.User     `json:"users"`
	Pagination domain.Pagination `json:"pagination"`
}

// View applies f, then returns the requested page.
func (s *UserStore) View(f UserFilter, page, limit int) UserView {
	var preds []func(domain.User) bool
	if f.Search != "" {
		preds = append(preds, func(u domain.User) bool {
			return containsFold(u.FirstName, f.Search) ||
				containsFold(u.LastName, f.Search) ||
				containsFold(u.Email, f.Search)
		})
	}
	if f.Status != "" && f.Status != "all" {
		preds = append(preds, func(u domain.User) bool { return u.Status == f.Status })
	}
	if f.Role != "" && f.Role != "all" {
		preds = append(preds, func(u domain.User) bool { return u.Role == f.Role })
	}
	if f.Country != "" && f.Country != "all" {
		preds = append(preds, func(u domain.User) bool { return u.Country == f.Country })
	}

	users, p := Paginate(Filter(s.Items(), preds...), page, limit)
	return UserView{Users: users, Pagination: p}
}

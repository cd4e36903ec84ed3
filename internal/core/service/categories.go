package service

import (
	"context"
	"fmt"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

type CategoryClient interface {
	ports.ResourceClient[domain.Category, domain.CreateCategoryInput, domain.UpdateCategoryInput]
	ports.CategoryLookup
}

type CategoryStore struct {
	*Store[domain.Category, domain.CreateCategoryInput, domain.UpdateCategoryInput]
	lookup ports.CategoryLookup
}

func categoryLabels() Labels[domain.Category] {
	return Labels[domain.Category]{
		Resource: "categories",
		Noun:     "category",
		Created: func(c domain.Category) domain.Notification {
			return domain.Success("Category Created", c.Name+" has been added successfully")
		},
		Updated: func(c domain.Category) domain.Notification {
			return domain.Success("Category Updated", c.Name+" has been updated")
		},
		Deleted: func(string) domain.Notification {
			return domain.Success("Category Deleted", "Category has been removed successfully")
		},
	}
}

func NewCategoryStore(client CategoryClient, deps Deps, opts ...Option) *CategoryStore {
	return &CategoryStore{
		Store:  NewStore[domain.Category, domain.CreateCategoryInput, domain.UpdateCategoryInput](client, deps, categoryLabels(), opts...),
		lookup: client,
	}
}

// GetByName returns the category called name, or nil when none exists.
func (s *CategoryStore) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	token, err := s.authorize(ctx, "get")
	if err != nil {
		return nil, err
	}

	c, err := s.lookup.GetByName(ctx, name, token)
	if err != nil {
		msg := domain.Message(err, fmt.Sprintf("Failed to fetch category %q", name))
		s.setError(msg)
		s.notify(domain.Failure(msg))
		return nil, err
	}
	return c, nil
}

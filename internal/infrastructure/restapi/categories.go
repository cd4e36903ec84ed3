package restapi

import (
	"context"
	"net/url"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

type CategoryClient struct {
	*ResourceClient[domain.Category, domain.CreateCategoryInput, domain.UpdateCategoryInput]
}

func NewCategoryClient(t *Transport) *CategoryClient {
	return &CategoryClient{NewResourceClient[domain.Category, domain.CreateCategoryInput, domain.UpdateCategoryInput](t, Collection{
		Resource: "categories",
		Keys:     Keys{Singular: "category", Plural: "categories"},
		Routes: Routes{
			List:   "/categories",
			Create: "/categories",
			Item:   itemPath("/categories", ""),
			Update: itemPath("/categories", ""),
			Delete: itemPath("/categories", ""),
		},
	})}
}

// GetByName looks a category up by its display name. The server resolves
// /categories/{name} the same way it resolves ids; 404 yields nil.
func (c *CategoryClient) GetByName(ctx context.Context, name, token string) (*domain.Category, error) {
	return c.getAt(ctx, "/categories/"+url.PathEscape(name), token)
}

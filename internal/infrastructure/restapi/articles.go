package restapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

// ArticleClient talks to /articles, including image management.
type ArticleClient struct {
	*ResourceClient[domain.Article, domain.CreateArticleInput, domain.UpdateArticleInput]
}

func NewArticleClient(t *Transport) *ArticleClient {
	return &ArticleClient{NewResourceClient[domain.Article, domain.CreateArticleInput, domain.UpdateArticleInput](t, Collection{
		Resource: "articles",
		Keys:     Keys{Singular: "article", Plural: "articles"},
		Routes: Routes{
			List:   "/articles",
			Create: "/articles",
			Item:   itemPath("/articles", ""),
			Update: itemPath("/articles", ""),
			Delete: itemPath("/articles", ""),
		},
	})}
}

// UploadImage sends img as the multipart "image" field.
func (c *ArticleClient) UploadImage(ctx context.Context, articleID string, img ports.ImageUpload, token string) (domain.ArticleImage, error) {
	req := Request{
		Resource: "articles",
		Method:   http.MethodPost,
		Path:     "/articles/" + url.PathEscape(articleID) + "/images",
		File: &File{
			Field:       "image",
			Filename:    img.Filename,
			ContentType: img.ContentType,
			Data:        img.Data,
		},
		Token: token,
	}
	if img.AltText != "" {
		req.Fields = map[string]string{"altText": img.AltText}
	}

	resp, err := c.t.Do(ctx, req)
	if err != nil {
		return domain.ArticleImage{}, fmt.Errorf("upload image: %w", err)
	}

	image, err := DecodeValue[domain.ArticleImage](resp.Body, "image")
	if err != nil {
		return domain.ArticleImage{}, fmt.Errorf("upload image: %w", err)
	}
	return image, nil
}

func (c *ArticleClient) DeleteImage(ctx context.Context, articleID, imageID, token string) error {
	_, err := c.t.Do(ctx, Request{
		Resource: "articles",
		Method:   http.MethodDelete,
		Path:     "/articles/" + url.PathEscape(articleID) + "/images/" + url.PathEscape(imageID),
		Token:    token,
	})
	if err != nil {
		return fmt.Errorf("delete image %s: %w", imageID, err)
	}
	return nil
}

package service

import (
	"context"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
	"github.com/kmtdiscovery/admin-console/internal/core/ports"
)

type ArticleClient interface {
	ports.ResourceClient[domain.Article, domain.CreateArticleInput, domain.UpdateArticleInput]
	ports.ArticleImageClient
}

// ArticleStore is the store behind the founder articles pages.
type ArticleStore struct {
	*Store[domain.Article, domain.CreateArticleInput, domain.UpdateArticleInput]
	images ports.ArticleImageClient
}

func articleLabels() Labels[domain.Article] {
	return Labels[domain.Article]{
		Resource: "articles",
		Noun:     "article",
		Created: func(a domain.Article) domain.Notification {
			return domain.Success("Article Created", a.Title+" has been created successfully")
		},
		Updated: func(a domain.Article) domain.Notification {
			return domain.Success("Article Updated", a.Title+" has been updated")
		},
		Deleted: func(string) domain.Notification {
			return domain.Success("Article Deleted", "Article has been removed successfully")
		},
	}
}

func NewArticleStore(client ArticleClient, deps Deps, opts ...Option) *ArticleStore {
	return &ArticleStore{
		Store:  NewStore[domain.Article, domain.CreateArticleInput, domain.UpdateArticleInput](client, deps, articleLabels(), opts...),
		images: client,
	}
}

// ByStatus groups the current articles by publication status.
func (s *ArticleStore) ByStatus() map[domain.ArticleStatus][]domain.Article {
	return GroupBy(s.Items(), func(a domain.Article) domain.ArticleStatus { return a.Status },
		domain.ArticleDraft, domain.ArticlePublished, domain.ArticleArchived)
}

func (s *ArticleStore) Stats() domain.ArticleStats {
	return domain.ComputeArticleStats(s.Items())
}

// UploadImage attaches an image to an article and reloads the article so
// its image list stays in sync.
func (s *ArticleStore) UploadImage(ctx context.Context, articleID string, img ports.ImageUpload) (domain.ArticleImage, error) {
	token, err := s.authorize(ctx, "upload image")
	if err != nil {
		return domain.ArticleImage{}, err
	}

	out, err := s.images.UploadImage(ctx, articleID, img, token)
	if err != nil {
		return domain.ArticleImage{}, s.fail("upload image", err)
	}
	s.syncArticle(ctx, articleID, token)
	s.notify(domain.Success("Image Uploaded", "Image has been added to the article"))
	return out, nil
}

func (s *ArticleStore) DeleteImage(ctx context.Context, articleID, imageID string) error {
	token, err := s.authorize(ctx, "delete image")
	if err != nil {
		return err
	}

	if err := s.images.DeleteImage(ctx, articleID, imageID, token); err != nil {
		return s.fail("delete image", err)
	}
	s.syncArticle(ctx, articleID, token)
	s.notify(domain.Success("Image Deleted", "Image has been removed from the article"))
	return nil
}

func (s *ArticleStore) syncArticle(ctx context.Context, id, token string) {
	a, err := s.client.GetByID(ctx, id, token)
	if err != nil || a == nil {
		s.log.Debug().Err(err).Str("id", id).Msg("article reload after image change skipped")
		return
	}
	s.apply(func() { s.items = replace(s.items, id, *a) })
}

// NewArticleDetail loads one article for the editor page.
func NewArticleDetail(client ArticleClient, id string, deps Deps) *Query[domain.Article] {
	return NewQuery[domain.Article]("article", func(ctx context.Context, token string) (domain.Article, error) {
		a, err := client.GetByID(ctx, id, token)
		if err != nil {
			return domain.Article{}, err
		}
		if a == nil {
			return domain.Article{}, &domain.RequestFailedError{Status: 404, StatusText: "Not Found", ServerMessage: "Article not found"}
		}
		return *a, nil
	}, deps)
}

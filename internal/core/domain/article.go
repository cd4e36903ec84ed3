package domain

import "time"

type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "DRAFT"
	ArticlePublished ArticleStatus = "PUBLISHED"
	ArticleArchived  ArticleStatus = "ARCHIVED"
)

type AccessLevel string

const (
	AccessFree    AccessLevel = "FREE"
	AccessPremium AccessLevel = "PREMIUM"
)

type ArticleAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ArticleImage struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	PublicID  string    `json:"publicId"`
	URL       string    `json:"url"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Format    string    `json:"format"`
	AltText   string    `json:"altText,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Article struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Content     string         `json:"content"`
	Excerpt     string         `json:"excerpt,omitempty"`
	Status      ArticleStatus  `json:"status"`
	AccessLevel AccessLevel    `json:"accessLevel"`
	ReadingTime int            `json:"readingTime"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	AuthorID    string         `json:"authorId"`
	Author      ArticleAuthor  `json:"author"`
	Images      []ArticleImage `json:"images"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	ViewCount   int            `json:"viewCount"`
}

func (a Article) ResourceID() string { return a.ID }

type CreateArticleInput struct {
	Title       string        `json:"title" validate:"required"`
	Content     string        `json:"content" validate:"required"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Status      ArticleStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	AccessLevel AccessLevel   `json:"accessLevel,omitempty" validate:"omitempty,oneof=FREE PREMIUM"`
	Slug        string        `json:"slug,omitempty"`
}

type UpdateArticleInput struct {
	Title       *string        `json:"title,omitempty" validate:"omitempty,min=1"`
	Content     *string        `json:"content,omitempty" validate:"omitempty,min=1"`
	Excerpt     *string        `json:"excerpt,omitempty"`
	Status      *ArticleStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	AccessLevel *AccessLevel   `json:"accessLevel,omitempty" validate:"omitempty,oneof=FREE PREMIUM"`
	Slug        *string        `json:"slug,omitempty"`
}

// ArticleStats summarizes a collection of articles.
type ArticleStats struct {
	Total      int `json:"total"`
	Published  int `json:"published"`
	Draft      int `json:"draft"`
	Archived   int `json:"archived"`
	TotalViews int `json:"totalViews"`
}

// ComputeArticleStats counts articles per status and sums their views.
func ComputeArticleStats(articles []Article) ArticleStats {
	s := ArticleStats{Total: len(articles)}
	for _, a := range articles {
		switch a.Status {
		case ArticlePublished:
			s.Published++
		case ArticleDraft:
			s.Draft++
		case ArticleArchived:
			s.Archived++
		}
		s.TotalViews += a.ViewCount
	}
	return s
}

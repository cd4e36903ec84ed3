package ports

import (
	"context"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// ResourceClient performs authenticated CRUD calls against one collection of
// the remote API. An empty token sends no Authorization header.
//
// GetByID returns (nil, nil) when the server answers 404.
type ResourceClient[T domain.Resource, C, U any] interface {
	List(ctx context.Context, q domain.ListQuery, token string) (domain.Page[T], error)
	Create(ctx context.Context, in C, token string) (T, error)
	Update(ctx context.Context, id string, in U, token string) (T, error)
	Delete(ctx context.Context, id, token string) error
	GetByID(ctx context.Context, id, token string) (*T, error)
}

type CategoryLookup interface {
	GetByName(ctx context.Context, name, token string) (*domain.Category, error)
}

type EventBookingClient interface {
	Bookings(ctx context.Context, eventID, token string) (domain.EventBookings, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, in domain.UpdateBookingInput, token string) error
}

type ContactStatsClient interface {
	Stats(ctx context.Context, token string) (domain.ContactStats, error)
}

type DashboardClient interface {
	Homepage(ctx context.Context, token string) (domain.Dashboard, error)
	Analytics(ctx context.Context, period domain.AnalyticsPeriod, token string) (domain.Analytics, error)
}

// ImageUpload is a single file sent to the article images endpoint.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
	AltText     string
}

type ArticleImageClient interface {
	UploadImage(ctx context.Context, articleID string, img ImageUpload, token string) (domain.ArticleImage, error)
	DeleteImage(ctx context.Context, articleID, imageID, token string) error
}

type AuthClient interface {
	Login(ctx context.Context, email, password string) (token string, user domain.SessionUser, err error)
}

package domain

import "time"

type Category struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	BackgroundURL  *string        `json:"backgroundUrl,omitempty"`
	HeroText       *string        `json:"heroText,omitempty"`
	WelcomeMessage *string        `json:"welcomeMessage,omitempty"`
	KeyStats       map[string]any `json:"keyStats,omitempty"`
	CallToAction   *string        `json:"callToAction,omitempty"`
	CreatedAt      *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
}

func (c Category) ResourceID() string { return c.ID }

type CreateCategoryInput struct {
	Name           string         `json:"name" validate:"required"`
	BackgroundURL  *string        `json:"backgroundUrl,omitempty" validate:"omitempty,url"`
	HeroText       *string        `json:"heroText,omitempty"`
	WelcomeMessage *string        `json:"welcomeMessage,omitempty"`
	KeyStats       map[string]any `json:"keyStats,omitempty"`
	CallToAction   *string        `json:"callToAction,omitempty"`
}

type UpdateCategoryInput struct {
	Name           *string        `json:"name,omitempty" validate:"omitempty,min=1"`
	BackgroundURL  *string        `json:"backgroundUrl,omitempty" validate:"omitempty,url"`
	HeroText       *string        `json:"heroText,omitempty"`
	WelcomeMessage *string        `json:"welcomeMessage,omitempty"`
	KeyStats       map[string]any `json:"keyStats,omitempty"`
	CallToAction   *string        `json:"callToAction,omitempty"`
}

package domain

import "time"

type ContactStatus string

const (
	ContactUnread     ContactStatus = "UNREAD"
	ContactRead       ContactStatus = "READ"
	ContactInProgress ContactStatus = "IN_PROGRESS"
	ContactResolved   ContactStatus = "RESOLVED"
)

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Topic     string        `json:"topic"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (c Contact) ResourceID() string { return c.ID }

type CreateContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Topic   string `json:"topic" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// UpdateContactInput changes the triage status of a contact; it is the only
// mutable field.
type UpdateContactInput struct {
	Status ContactStatus `json:"status" validate:"required,oneof=UNREAD READ IN_PROGRESS RESOLVED"`
}

type ContactStats struct {
	Total      int `json:"total"`
	Unread     int `json:"unread"`
	Read       int `json:"read"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	TodayCount int `json:"todayCount"`
	WeekCount  int `json:"weekCount"`
	MonthCount int `json:"monthCount"`
}

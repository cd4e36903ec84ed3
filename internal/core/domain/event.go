package domain

import "time"

type EventStatus string

const (
	EventUpcoming  EventStatus = "UPCOMING"
	EventOngoing   EventStatus = "ONGOING"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingPending   BookingStatus = "PENDING"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "PAID"
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type EventBooking struct {
	BookingID     string        `json:"bookingId"`
	EventID       string        `json:"eventId"`
	UserID        string        `json:"userId"`
	BookingAt     time.Time     `json:"bookingAt"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

type Event struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Location      string         `json:"location"`
	ImageURL      *string        `json:"imageUrl,omitempty"`
	StartTime     time.Time      `json:"startTime"`
	EndTime       time.Time      `json:"endTime"`
	Capacity      int            `json:"capacity"`
	AttendeeCount int            `json:"attendeeCount"`
	Tags          []string       `json:"tags"`
	Status        EventStatus    `json:"status"`
	IsPaid        bool           `json:"isPaid"`
	Price         float64        `json:"price"`
	Bookings      []EventBooking `json:"EventBooking,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (e Event) ResourceID() string { return e.ID }

type CreateEventInput struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	ImageURL    *string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
	Capacity    int       `json:"capacity" validate:"gt=0"`
	Tags        []string  `json:"tags,omitempty"`
	IsPaid      bool      `json:"isPaid"`
	Price       float64   `json:"price" validate:"gte=0"`
}

type UpdateEventInput struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string      `json:"description,omitempty"`
	Location    *string      `json:"location,omitempty"`
	ImageURL    *string      `json:"imageUrl,omitempty" validate:"omitempty,url"`
	StartTime   *time.Time   `json:"startTime,omitempty"`
	EndTime     *time.Time   `json:"endTime,omitempty"`
	Capacity    *int         `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Tags        []string     `json:"tags,omitempty"`
	IsPaid      *bool        `json:"isPaid,omitempty"`
	Price       *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	Status      *EventStatus `json:"status,omitempty" validate:"omitempty,oneof=UPCOMING ONGOING COMPLETED CANCELLED"`
}

// Attendee is the user attached to a booking in the admin bookings view.
type Attendee struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

type BookingWithUser struct {
	BookingID     string        `json:"bookingId"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	BookedAt      time.Time     `json:"bookedAt"`
	User          Attendee      `json:"user"`
}

// EventBookings is the admin view of the bookings of one event.
type EventBookings struct {
	EventID        string            `json:"eventId"`
	EventTitle     string            `json:"eventTitle"`
	TotalBookings  int               `json:"totalBookings"`
	TotalAttendees int               `json:"totalAttendees"`
	Bookings       []BookingWithUser `json:"bookings"`
}

type UpdateBookingInput struct {
	Status        BookingStatus `json:"status" validate:"required,oneof=CONFIRMED PENDING CANCELLED NO_SHOW"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty" validate:"omitempty,oneof=PAID UNPAID REFUNDED"`
}

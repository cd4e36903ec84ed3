package domain

import "time"

// InvitationState is derived from the accepted and expiry timestamps.
type InvitationState string

const (
	InvitationPending  InvitationState = "pending"
	InvitationAccepted InvitationState = "accepted"
	InvitationExpired  InvitationState = "expired"
)

type Inviter struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Invitation struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Token      string     `json:"token,omitempty"`
	Role       Role       `json:"role"`
	InvitedBy  string     `json:"invitedBy"`
	Inviter    Inviter    `json:"inviter"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (i Invitation) ResourceID() string { return i.ID }

// State reports whether the invitation is accepted, expired or still pending at now.
func (i Invitation) State(now time.Time) InvitationState {
	switch {
	case i.AcceptedAt != nil:
		return InvitationAccepted
	case i.ExpiresAt.Before(now):
		return InvitationExpired
	default:
		return InvitationPending
	}
}

type CreateInvitationInput struct {
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role" validate:"required,oneof=EXPERT ADMIN SUPER_ADMIN TOURIST GUIDE RESEARCHER STUDENT OTHER"`
}

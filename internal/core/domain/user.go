package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleExpert     Role = "EXPERT"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleTourist    Role = "TOURIST"
	RoleGuide      Role = "GUIDE"
	RoleResearcher Role = "RESEARCHER"
	RoleStudent    Role = "STUDENT"
	RoleOther      Role = "OTHER"
)

// IsAdmin reports whether the role may manage users and invitations.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
	UserDeleted   UserStatus = "DELETED"
)

// User is a member account as seen by administrators.
type User struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Role      Role       `json:"roles"`
	Status    UserStatus `json:"status"`
	Country   string     `json:"country,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (u User) ResourceID() string { return u.ID }

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type UpdateUserInput struct {
	FirstName *string     `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName  *string     `json:"lastName,omitempty" validate:"omitempty,min=1"`
	Email     *string     `json:"email,omitempty" validate:"omitempty,email"`
	Role      *Role       `json:"roles,omitempty" validate:"omitempty,oneof=EXPERT ADMIN SUPER_ADMIN TOURIST GUIDE RESEARCHER STUDENT OTHER"`
	Status    *UserStatus `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE SUSPENDED DELETED"`
	Country   *string     `json:"country,omitempty"`
}

// SessionUser is the signed-in operator returned by the login endpoint.
type SessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      Role   `json:"role"`
}

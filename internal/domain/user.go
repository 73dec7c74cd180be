package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of roles a user can hold. The role is assigned
// once on first sign-in and never downgraded by the login path.
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole maps a configured role name onto the closed set, falling
// back to RoleUser for anything unknown.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser, RoleModerator, RoleAdmin:
		return Role(s)
	default:
		return RoleUser
	}
}

// User is the local identity record. Username carries the email address
// returned by the identity provider and is the natural key for upserts.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	FullName  string    `gorm:"type:text" json:"full_name"`
	Role      Role      `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "app_user" }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Profile is the normalized identity returned by an external provider
// after a completed handshake. It carries facts only, no decisions.
type Profile struct {
	Subject  string // provider-scoped unique identifier (sub claim)
	Email    string // email asserted by the provider
	FullName string // display name, may change between logins
}

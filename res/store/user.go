package store

import (
	"context"
	"time"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER" // Portal customer (default sign-in)
	UserRoleStaff    UserRole = "STAFF"    // Cleaning staff (schedule access)
	UserRoleAdmin    UserRole = "ADMIN"    // Dashboard administrator (set via env var)
)

type User struct {
	ID          string   `gorm:"primaryKey;size:50;unique"`
	DisplayName string   `gorm:"size:50;not null"`
	Role        UserRole `gorm:"size:50;not null;default:'CUSTOMER'"`

	GoogleIdentity *string `gorm:"size:256;unique"`
	Email          string  `gorm:"size:256;not null"`

	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
}

// IsAdmin checks if the user can access the admin dashboard
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// IsStaff checks if the user is cleaning staff
func (u *User) IsStaff() bool {
	return u.Role == UserRoleStaff
}

// IsCustomer checks if the user is a portal customer
func (u *User) IsCustomer() bool {
	return u.Role == UserRoleCustomer
}

type UserStore interface {
	Get(ctx context.Context, id string) (*User, error)
	GetByGoogleIdentity(ctx context.Context, googleIdentity string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	Create(ctx context.Context, ID, displayName, email string, role UserRole, googleIdentity *string) (*User, error)
	Update(ctx context.Context, userID string, displayName *string, role *UserRole) (*User, error)
	Delete(ctx context.Context, userID string) error
}

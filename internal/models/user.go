package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user in the system. Email is the login key.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"`
	Username     string    `gorm:"size:150;uniqueIndex;not null"`
	FirstName    string    `gorm:"size:150;not null"`
	LastName     string    `gorm:"size:150;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:50;not null;default:'user';index"`
	Avatar       string    `gorm:"size:512"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPrivileged reports whether the user may mutate content they do not own.
func (u User) IsPrivileged() bool {
	return u.Role == RoleAdmin
}

// RevokedToken is a logged-out JWT, identified by its jti claim.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

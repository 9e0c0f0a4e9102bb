// Package models contains data structures for the application's domain models.
package models

import "time"

// User is an account known to the document manager. Role decides which
// capabilities the account holds; see role.go.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	FullName     string    `gorm:"size:120;not null" json:"full_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'client';index" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// Caller is the authenticated identity attached to an incoming request.
// It is derived from the verified token, never from the request payload.
type Caller struct {
	ID    uint
	Role  Role
	Email string
}

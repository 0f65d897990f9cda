// Package model provides domain models for user accounts.
package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user account.
// Matches the users table schema.
type User struct {
	ID           int64     `gorm:"primaryKey;column:id"          json:"id"`
	Email        string    `gorm:"column:email;not null"         json:"email"`
	Nickname     string    `gorm:"column:nickname;not null"      json:"nickname"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"    json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"    json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

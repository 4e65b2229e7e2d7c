package models

import "time"

type User struct {
	ID                 uint   `gorm:"primaryKey"`
	Name               string `gorm:"not null"`
	Email              string `gorm:"uniqueIndex;not null"`
	PasswordHash       string `gorm:"not null"`
	EmailVerifiedAt    *time.Time
	LastResetRequestAt *time.Time
	CreatedAt          time.Time `gorm:"not null"`
}

func (user User) IsVerified() bool {
	return user.EmailVerifiedAt != nil && !user.EmailVerifiedAt.IsZero()
}

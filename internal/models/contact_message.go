package models

import "time"

type ContactMessage struct {
	ID          string    `gorm:"primaryKey"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Email       string    `gorm:"not null"`
	Language    string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

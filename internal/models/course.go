package models

type Course struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"not null" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Duration    string  `gorm:"not null" json:"duration"`
	ImageURL    string  `gorm:"column:image_url" json:"imageUrl"`
}

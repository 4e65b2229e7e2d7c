package db

import (
	"github.com/terraincognita07/pitlane/internal/models"
	"gorm.io/gorm"
)

type ContactRepository struct {
	database *gorm.DB
}

func NewContactRepository(database *gorm.DB) *ContactRepository {
	return &ContactRepository{database: database}
}

func (repo *ContactRepository) Create(message *models.ContactMessage) error {
	return repo.database.Create(message).Error
}

func (repo *ContactRepository) ListRecent(limit int) ([]models.ContactMessage, error) {
	messages := make([]models.ContactMessage, 0, limit)
	if err := repo.database.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

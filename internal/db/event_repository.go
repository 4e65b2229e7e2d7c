package db

import (
	"github.com/terraincognita07/pitlane/internal/models"
	"gorm.io/gorm"
)

type EventRepository struct {
	database *gorm.DB
}

func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{database: database}
}

// ListAll returns stored events ordered by start date then id. Rows are
// returned as stored; validation happens on ingestion into the calendar.
func (repo *EventRepository) ListAll() ([]models.KartingEvent, error) {
	events := make([]models.KartingEvent, 0)
	if err := repo.database.Order("start_date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *EventRepository) Create(event *models.KartingEvent) error {
	return repo.database.Create(event).Error
}

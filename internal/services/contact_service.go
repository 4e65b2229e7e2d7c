package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/models"
)

type ContactMessageRepository interface {
	Create(message *models.ContactMessage) error
}

type ContactService struct {
	messages ContactMessageRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewContactService(messages ContactMessageRepository, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{messages: messages, logger: logger, now: time.Now}
}

// Submit stores an already validated message.
func (service *ContactService) Submit(_ context.Context, input ContactInput, lang string) (models.ContactMessage, error) {
	message := models.ContactMessage{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Email:       input.Email,
		Language:    lang,
		CreatedAt:   service.now().UTC(),
	}
	if err := service.messages.Create(&message); err != nil {
		return models.ContactMessage{}, fmt.Errorf("store contact message: %w", err)
	}

	service.logger.Info("contact message received",
		zap.String("id", message.ID),
		zap.String("email", message.Email),
		zap.String("title", message.Title),
		zap.String("lang", lang),
	)
	return message, nil
}

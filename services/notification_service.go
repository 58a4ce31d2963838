package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, tournamentID int, input CreateNotificationInput) (*models.Notification, error)
	DeleteNotification(ctx context.Context, tournamentID, notificationID int) (*models.Tournament, error)
}

type CreateNotificationInput struct {
	Message  string                      `json:"message"`
	Priority models.NotificationPriority `json:"priority"`
}

type notificationService struct {
	tournamentRepo   repositories.TournamentRepository
	notificationRepo repositories.NotificationRepository
	aggregate        *AggregateBuilder
	publisher        Publisher
	logger           *slog.Logger
}

func NewNotificationService(
	tournamentRepo repositories.TournamentRepository,
	notificationRepo repositories.NotificationRepository,
	aggregate *AggregateBuilder,
	publisher Publisher,
	logger *slog.Logger,
) NotificationService {
	return &notificationService{
		tournamentRepo:   tournamentRepo,
		notificationRepo: notificationRepo,
		aggregate:        aggregate,
		publisher:        publisher,
		logger:           logger,
	}
}

// CreateNotification stores the notification, sends it to the tournament room
// and then pushes the refreshed aggregate.
func (s *notificationService) CreateNotification(ctx context.Context, tournamentID int, input CreateNotificationInput) (*models.Notification, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrNotificationMessageRequired
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !priority.Valid() {
		return nil, ErrInvalidNotificationPriority
	}

	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	notification := &models.Notification{
		TournamentID: tournamentID,
		Message:      message,
		Priority:     priority,
	}
	if err := s.notificationRepo.Create(ctx, nil, notification); err != nil {
		if errors.Is(err, repositories.ErrNotificationTournamentInvalid) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Info("notification sent", "tournament_id", tournamentID, "notification_id", notification.ID, "priority", priority)
	s.publisher.Publish(brackets.Event{
		Type:         brackets.EventNotificationSent,
		TournamentID: tournamentID,
		Payload:      notification,
	})
	if _, err := rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, tournamentID, notificationID int) (*models.Tournament, error) {
	if err := s.notificationRepo.Delete(ctx, nil, tournamentID, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to delete notification %d: %w", notificationID, err)
	}

	s.logger.Info("notification deleted", "tournament_id", tournamentID, "notification_id", notificationID)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

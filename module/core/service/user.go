package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/database"
	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/publisher"
)

const dailySummaryTitle = "Daily Carbon Summary"

type UserService struct {
	repo   database.UserRepository
	events publisher.NotificationPublisher
	logger zerolog.Logger
}

func NewUserService(repo database.UserRepository, events publisher.NotificationPublisher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, events: events, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *UserService) UpdateUser(ctx context.Context, userID string, patch *domain.UserPatch) error {
	return s.repo.Update(ctx, userID, patch)
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

func (s *UserService) AddMovement(ctx context.Context, userID string, sample *domain.LocationSample) error {
	return s.repo.AddMovement(ctx, userID, sample)
}

func (s *UserService) GetMovements(ctx context.Context, userID string) ([]domain.LocationSample, error) {
	return s.repo.GetMovements(ctx, userID)
}

// AddEmission adds saved kilograms to the user's running total and,
// for opted-in users with a device token, queues a summary
// notification. Publish failures do not fail the update.
func (s *UserService) AddEmission(ctx context.Context, userID string, kg float64) (float64, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := user.CarbonEmission + kg
	if err := s.repo.Update(ctx, userID, &domain.UserPatch{CarbonEmission: &total}); err != nil {
		return 0, err
	}

	if user.NotiFlag && user.FCMToken != "" {
		payload := domain.Payload{
			"fcm_token": user.FCMToken,
			"title":     dailySummaryTitle,
			"user_name": user.Name,
			"event":     map[string]any{"saved_kg": kg},
		}
		if err := s.events.Publish(ctx, payload); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to publish summary notification")
		}
	}

	return total, nil
}

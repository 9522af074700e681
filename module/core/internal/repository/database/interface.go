package database

import (
	"context"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, userID string, patch *domain.UserPatch) error
	Delete(ctx context.Context, userID string) error
	AddMovement(ctx context.Context, userID string, sample *domain.LocationSample) error
	GetMovements(ctx context.Context, userID string) ([]domain.LocationSample, error)
}

package publisher

import (
	"context"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

type NotificationPublisher interface {
	Publish(ctx context.Context, payload domain.Payload) error
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/push"
)

const deliveryAttempts = 3

// SimulatedMessageID is returned in simulate mode instead of a real
// provider message id.
const SimulatedMessageID = "SIMULATED"

var ErrDeliveryFailed = errors.New("push delivery failed after all attempts")

type DispatchService struct {
	sender   push.Sender
	simulate bool
	attempts int
	backoff  time.Duration
	sleep    func(time.Duration)
	logger   zerolog.Logger
}

func NewDispatchService(sender push.Sender, simulate bool, logger zerolog.Logger) *DispatchService {
	return &DispatchService{
		sender:   sender,
		simulate: simulate,
		attempts: deliveryAttempts,
		backoff:  time.Second,
		sleep:    time.Sleep,
		logger:   logger,
	}
}

// Deliver sends one push notification, retrying with linear backoff.
// In simulate mode nothing is sent and the simulated id is returned.
func (s *DispatchService) Deliver(ctx context.Context, token, title, body string) (string, error) {
	if s.simulate {
		s.logger.Info().Str("title", title).Str("body", body).Msg("simulate mode, skipping push delivery")
		return SimulatedMessageID, nil
	}

	for attempt := 1; attempt <= s.attempts; attempt++ {
		id, err := s.sender.Send(ctx, token, title, body)
		if err == nil {
			s.logger.Info().Str("message_id", id).Int("attempt", attempt).Msg("push delivered")
			return id, nil
		}

		s.logger.Warn().Err(err).Int("attempt", attempt).Msg("push delivery failed")
		if attempt < s.attempts {
			s.sleep(time.Duration(attempt) * s.backoff)
		}
	}

	return "", ErrDeliveryFailed
}

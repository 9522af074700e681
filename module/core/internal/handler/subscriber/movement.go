package subscriber

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

const topicPattern = "/carbon/user/+/location"

type movementService interface {
	AddMovement(ctx context.Context, userID string, sample *domain.LocationSample) error
}

type movementMessage struct {
	UserID    string  `json:"user_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	SpeedKmh  float64 `json:"speedKmh"`
	SpeedMps  float64 `json:"speedMps"`
	Timestamp string  `json:"timestamp"`
}

type MovementSubscriber struct {
	client      mqtt.Client
	movementSvc movementService
	logger      zerolog.Logger
}

func NewMovementSubscriber(client mqtt.Client, movementSvc movementService, logger zerolog.Logger) *MovementSubscriber {
	return &MovementSubscriber{
		client:      client,
		movementSvc: movementSvc,
		logger:      logger,
	}
}

func (s *MovementSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *MovementSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw movementMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn().Err(err).Msg("invalid movement message")
		return
	}

	if err := validateMovementMessage(&raw); err != nil {
		s.logger.Warn().Err(err).Str("user_id", raw.UserID).Msg("movement message rejected")
		return
	}

	sample := &domain.LocationSample{
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
		SpeedKmh:  raw.SpeedKmh,
		SpeedMps:  raw.SpeedMps,
		Timestamp: raw.Timestamp,
	}

	if err := s.movementSvc.AddMovement(context.Background(), raw.UserID, sample); err != nil {
		s.logger.Error().Err(err).Str("user_id", raw.UserID).Msg("save movement error")
	}
}

func validateMovementMessage(msg *movementMessage) error {
	if msg.UserID == "" {
		return fmt.Errorf("user_id: required")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if _, err := domain.ParseSampleTime(msg.Timestamp); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	return nil
}

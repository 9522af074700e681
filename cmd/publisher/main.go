package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/config"
)

const exchangeName = "carbon.events"

// Publishes one sample notification so the relay can be exercised end
// to end without the API server running.
func main() {
	token := flag.String("token", "test-fcm-token", "device token to target")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "publisher").Logger()

	cfg := config.Load()

	conn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbitmq")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbitmq channel")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		logger.Fatal().Err(err).Msg("declare exchange")
	}

	if _, err := ch.QueueDeclare(cfg.NotifyQueue, true, false, false, false, nil); err != nil {
		logger.Fatal().Err(err).Msg("declare queue")
	}

	if err := ch.QueueBind(cfg.NotifyQueue, "", exchangeName, false, nil); err != nil {
		logger.Fatal().Err(err).Msg("bind queue")
	}

	payload := map[string]any{
		"fcm_token": *token,
		"title":     "Daily Carbon Summary",
		"user_name": "Alex",
		"event": map[string]any{
			"saved_kg": 2.5,
			"summary":  "You biked to work today and saved 2.5 kg of CO2.",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Fatal().Err(err).Msg("marshal payload")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}); err != nil {
		logger.Fatal().Err(err).Msg("publish")
	}

	logger.Info().Str("queue", cfg.NotifyQueue).RawJSON("payload", body).Msg("published sample notification")
}

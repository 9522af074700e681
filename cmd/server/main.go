package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/config"
	"github.com/CR1SI/CarbonFootPrinters/module/core"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "server").Logger()

	cfg := config.Load()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbitmq")
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("mqtt")
	}
	defer mqttClient.Disconnect(250)

	coreModule, err := core.Build(db, amqpConn, mqttClient, cfg.GeocoderURL, cfg.NotifyQueue, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("core module")
	}

	if err := coreModule.StartSubscribers(); err != nil {
		logger.Fatal().Err(err).Msg("start subscribers")
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	logger.Info().Str("port", cfg.HTTPPort).Msg("listening")
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
}

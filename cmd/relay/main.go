package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/config"
	"github.com/CR1SI/CarbonFootPrinters/module/core"
)

func main() {
	simulate := flag.Bool("simulate", false, "log notifications instead of sending them")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "relay").Logger()

	queue := flag.Arg(0)
	if queue == "" {
		queue = os.Getenv("NOTIFY_QUEUE")
	}
	if queue == "" {
		logger.Fatal().Msg("queue name required: pass it as an argument or set NOTIFY_QUEUE")
	}

	cfg := config.Load()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbitmq")
	}
	defer func() { _ = amqpConn.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay, err := core.BuildRelay(ctx, amqpConn, core.RelayConfig{
		Queue:                queue,
		Simulate:             *simulate || cfg.Simulate,
		CredentialsPath:      cfg.FirebaseCredentials,
		NotificationAgentURL: cfg.NotificationAgent,
		CoachAgentURL:        cfg.CoachAgent,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("build relay")
	}

	if err := relay.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("start relay")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info().Msg("shutting down")
	relay.Stop()
}

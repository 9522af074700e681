package core

import (
	"context"
	"database/sql"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	handler "github.com/CR1SI/CarbonFootPrinters/module/core/internal/handler/http"
	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/handler/subscriber"
	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/agent"
	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/database/postgres"
	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/geocode"
	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/publisher/rabbitmq"
	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/push/fcm"
	"github.com/CR1SI/CarbonFootPrinters/module/core/service"
)

type Module struct {
	UserSvc       *service.UserService
	TrajectorySvc *service.TrajectoryService
	handler       *handler.UserHandler
	subscriber    *subscriber.MovementSubscriber
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, geocoderURL, notifyQueue string, logger zerolog.Logger) (*Module, error) {
	userRepo := postgres.NewUserRepo(db)

	notifyPub, err := rabbitmq.NewNotificationPublisher(amqpConn, notifyQueue)
	if err != nil {
		return nil, fmt.Errorf("notification publisher: %w", err)
	}

	userSvc := service.NewUserService(userRepo, notifyPub, logger)
	trajectorySvc := service.NewTrajectoryService(geocode.NewClient(geocoderURL), logger)

	h := handler.NewUserHandler(userSvc, trajectorySvc)
	sub := subscriber.NewMovementSubscriber(mqttClient, userSvc, logger)

	return &Module{
		UserSvc:       userSvc,
		TrajectorySvc: trajectorySvc,
		handler:       h,
		subscriber:    sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}

// RelayConfig carries what the relay process needs beyond the broker
// connection itself.
type RelayConfig struct {
	Queue                string
	Simulate             bool
	CredentialsPath      string
	NotificationAgentURL string
	CoachAgentURL        string
}

type Relay struct {
	relay *subscriber.NotificationRelay
}

func BuildRelay(ctx context.Context, amqpConn *amqp.Connection, cfg RelayConfig, logger zerolog.Logger) (*Relay, error) {
	var capabilities []service.TextCapability
	if cfg.NotificationAgentURL != "" {
		capabilities = append(capabilities, agent.NewClient("notification", cfg.NotificationAgentURL))
	}
	if cfg.CoachAgentURL != "" {
		capabilities = append(capabilities, agent.NewClient("coach", cfg.CoachAgentURL))
	}
	gen := service.NewTextGenerator(capabilities, logger)

	var dispatcher *service.DispatchService
	if cfg.Simulate {
		dispatcher = service.NewDispatchService(nil, true, logger)
	} else {
		sender, err := fcm.NewSender(ctx, cfg.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("fcm sender: %w", err)
		}
		dispatcher = service.NewDispatchService(sender, false, logger)
	}

	relay, err := subscriber.NewNotificationRelay(amqpConn, cfg.Queue, gen, dispatcher, logger)
	if err != nil {
		return nil, fmt.Errorf("notification relay: %w", err)
	}

	return &Relay{relay: relay}, nil
}

func (r *Relay) Start(ctx context.Context) error {
	return r.relay.Start(ctx)
}

func (r *Relay) Stop() {
	r.relay.Stop()
}

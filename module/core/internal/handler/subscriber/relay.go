package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

const (
	relayExchange = "carbon.events"
	defaultTitle  = "Carbon Footprinter"
)

type textRenderer interface {
	Render(ctx context.Context, payload domain.Payload) string
}

type messageDispatcher interface {
	Deliver(ctx context.Context, token, title, body string) (string, error)
}

// NotificationRelay consumes queued notification payloads and pushes
// them to user devices. Every message is acked exactly once, whether
// handling succeeds or not.
type NotificationRelay struct {
	ch         *amqp.Channel
	queue      string
	textGen    textRenderer
	dispatcher messageDispatcher
	logger     zerolog.Logger
	wg         sync.WaitGroup
}

func NewNotificationRelay(conn *amqp.Connection, queue string, gen textRenderer, disp messageDispatcher, logger zerolog.Logger) (*NotificationRelay, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(relayExchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queue, "", relayExchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &NotificationRelay{
		ch:         ch,
		queue:      queue,
		textGen:    gen,
		dispatcher: disp,
		logger:     logger,
	}, nil
}

func (r *NotificationRelay) Start(ctx context.Context) error {
	deliveries, err := r.ch.Consume(r.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", r.queue, err)
	}

	r.logger.Info().Str("queue", r.queue).Msg("listening for notifications")

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for d := range deliveries {
			r.wg.Add(1)
			go func(d amqp.Delivery) {
				defer r.wg.Done()
				r.handleMessage(ctx, d)
			}(d)
		}
	}()

	return nil
}

// Stop closes the consuming channel and waits for in-flight messages
// to finish.
func (r *NotificationRelay) Stop() {
	if err := r.ch.Close(); err != nil {
		r.logger.Warn().Err(err).Msg("close relay channel")
	}
	r.wg.Wait()
}

func (r *NotificationRelay) handleMessage(ctx context.Context, d amqp.Delivery) {
	defer func() {
		if err := d.Ack(false); err != nil {
			r.logger.Warn().Err(err).Msg("ack failed")
		}
	}()

	var payload domain.Payload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		r.logger.Warn().Err(err).Msg("discarding malformed notification")
		return
	}

	token := payload.Token()
	if token == "" {
		r.logger.Warn().Msg("discarding notification without fcm token")
		return
	}

	body := r.textGen.Render(ctx, payload)
	title := payload.Title()
	if title == "" {
		title = defaultTitle
	}

	if _, err := r.dispatcher.Deliver(ctx, token, title, body); err != nil {
		r.logger.Error().Err(err).Str("title", title).Msg("notification delivery failed")
	}
}

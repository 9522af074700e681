package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/CR1SI/CarbonFootPrinters/module/core/domain"
)

const maxBodyRunes = 200

const genericNotification = "New carbon report available — check the app for details."

// TextCapability is one way of turning a notification payload into
// message text. Capabilities are tried in order until one succeeds.
type TextCapability interface {
	Name() string
	Generate(ctx context.Context, payload domain.Payload) (string, error)
}

type TextGenerator struct {
	capabilities []TextCapability
	logger       zerolog.Logger
}

func NewTextGenerator(capabilities []TextCapability, logger zerolog.Logger) *TextGenerator {
	return &TextGenerator{capabilities: capabilities, logger: logger}
}

// Render produces the notification body. Each capability gets a try;
// when all fail the locally formatted text is used, so a notification
// always goes out.
func (g *TextGenerator) Render(ctx context.Context, payload domain.Payload) string {
	for _, c := range g.capabilities {
		text, err := c.Generate(ctx, payload)
		if err != nil {
			g.logger.Warn().Err(err).Str("capability", c.Name()).Msg("text capability failed")
			continue
		}
		if text == "" {
			continue
		}
		return truncate(text)
	}
	return truncate(localFormat(payload))
}

func localFormat(payload domain.Payload) string {
	event := payload.Event()

	if saved := firstPresent(event, "saved_kg", "emission_saved", "saved"); saved != nil {
		user := userName(payload, event)
		return fmt.Sprintf("%s: You saved %v kg CO2 today — great job!", user, saved)
	}

	for _, key := range []string{"summary", "message"} {
		if s, ok := event[key].(string); ok && s != "" {
			return s
		}
	}
	return genericNotification
}

func userName(payload, event domain.Payload) string {
	if s, ok := payload["user_name"].(string); ok && s != "" {
		return s
	}
	if s, ok := event["user_name"].(string); ok && s != "" {
		return s
	}
	return "You"
}

func firstPresent(event domain.Payload, keys ...string) any {
	for _, key := range keys {
		if v, ok := event[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxBodyRunes {
		return s
	}
	return string(runes[:maxBodyRunes])
}

package fcm

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/CR1SI/CarbonFootPrinters/module/core/internal/repository/push"
)

var _ push.Sender = (*Sender)(nil)

var ErrMissingCredentials = errors.New("firebase credentials path is not set")

type Sender struct {
	client *messaging.Client
}

func NewSender(ctx context.Context, credentialsPath string) (*Sender, error) {
	if credentialsPath == "" {
		return nil, ErrMissingCredentials
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}

	return &Sender{client: client}, nil
}

func (s *Sender) Send(ctx context.Context, token, title, body string) (string, error) {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	return s.client.Send(ctx, msg)
}

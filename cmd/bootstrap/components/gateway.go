package components

import (
	"context"
	"net/http"

	"restore-scheduler/internal/infra/gateway/directory"
	"restore-scheduler/internal/infra/gateway/email"
	"restore-scheduler/internal/infra/gateway/messaging"
	"restore-scheduler/internal/notify"
	"restore-scheduler/internal/pkg/config"
	"restore-scheduler/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewDirectoryClient,
			fx.As(new(commands.AccountDirectory)),
		),
		fx.Annotate(
			NewEmailSender,
			fx.As(new(notify.EmailSender)),
		),
		fx.Annotate(
			NewMessagePublisher,
			fx.As(new(notify.MessagePublisher)),
		),
		fx.Annotate(
			notify.NewDispatcher,
			fx.As(new(commands.NotificationDispatcher)),
		),
	),
)

func NewDirectoryClient(cfg config.Config) *directory.Client {
	httpClient := &http.Client{Timeout: cfg.Directory.Timeout}
	return directory.NewClient(cfg.Directory.BaseURL, httpClient)
}

func NewEmailSender(cfg config.Config) *email.SendGridSender {
	return email.NewSendGridSender(cfg.Mail.SendGridKey, cfg.Mail.FromName, cfg.Mail.FromAddr)
}

func NewMessagePublisher(lc fx.Lifecycle, cfg config.Config) *messaging.KafkaPublisher {
	publisher := messaging.NewKafkaPublisher(cfg.Messaging.Brokers, cfg.Messaging.Topic)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher
}

package components

import (
	"fieldbook/internal/infra/gateway"
	"fieldbook/internal/infra/notify"
	"fieldbook/internal/pkg/clock"
	"fieldbook/internal/pkg/config"

	"go.uber.org/fx"
)

var ExternalModule = fx.Module("external",
	fx.Provide(
		clock.NewRealClock,
		NewPaymentClient,
		NewSignatureVerifier,
		NewNotifier,
	),
)

func NewPaymentClient(cfg config.Config) gateway.PaymentClient {
	return gateway.NewHTTPPaymentClient(cfg.Gateway)
}

func NewSignatureVerifier(cfg config.Config) *gateway.SignatureVerifier {
	return gateway.NewSignatureVerifier(cfg.Gateway.WebhookSecret)
}

func NewNotifier(cfg config.Config) notify.Dispatcher {
	if cfg.Notifier.BaseURL == "" {
		return notify.NopDispatcher{}
	}
	return notify.NewHTTPDispatcher(cfg.Notifier)
}

package components

import (
	"context"

	"parkgate/internal/handler/ws"
	"parkgate/internal/infra/iot"
	"parkgate/internal/infra/paygw"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/config"
	"parkgate/internal/usecase/commands"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/fx"
)

// GatewayModule wires the outward-facing infrastructure: the MQTT gate
// dispatcher, the payment provider client, the alert hub and the event
// queue consumer.
var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			iot.NewIoTDataPublisher,
			fx.As(new(iot.MQTTPublisher)),
		),
		NewGateDispatcher,
		func(d *iot.Dispatcher) commands.GateSignaler { return d },
		func(cfg config.Config) *paygw.HTTPGateway { return paygw.NewHTTPGateway(cfg.Payment) },
		func(g *paygw.HTTPGateway) commands.PaymentGateway { return g },
		ws.NewHub,
		func(h *ws.Hub) commands.AlertPublisher { return h },
		NewEventConsumer,
	),
	fx.Invoke(
		StartAlertHub,
		StartEventConsumer,
	),
)

func NewGateDispatcher(publisher iot.MQTTPublisher, cfg config.Config, clk clock.Clock) *iot.Dispatcher {
	return iot.NewDispatcher(publisher, cfg.AWS.CommandTopicBase, cfg.Gate, clk)
}

func NewEventConsumer(client *sqs.Client, cfg config.Config, detections commands.DetectionCommands, dispatcher *iot.Dispatcher) *iot.SQSConsumer {
	return iot.NewSQSConsumer(client, cfg.AWS.EventQueueURL, detections, dispatcher)
}

func StartAlertHub(lc fx.Lifecycle, hub *ws.Hub) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go hub.Run()
			return nil
		},
	})
}

func StartEventConsumer(lc fx.Lifecycle, consumer *iot.SQSConsumer, cfg config.Config) {
	if cfg.AWS.EventQueueURL == "" {
		// HTTP-only deployment; detections arrive through the API.
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go consumer.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}

package commands

import (
	"context"

	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/domain/payment"
)

// GateSignaler delivers one command to a physical gate controller and blocks
// until the device acknowledges or retries are exhausted. The implementation
// mutates the command's attempt count and settlement status.
type GateSignaler interface {
	Signal(ctx context.Context, cmd *gatecmd.Command) error
}

// PaymentGateway submits a charge request to the external payment provider.
// The attempt's idempotency key must be forwarded so provider-side retries
// collapse into one charge.
type PaymentGateway interface {
	RequestPayment(ctx context.Context, attempt *payment.Attempt, plate string) error
}

// AlertPublisher pushes operational events to connected operator dashboards.
// Delivery is best effort; publishing never blocks command flow.
type AlertPublisher interface {
	Publish(kind string, payload any)
}

// GateDecision reports what was sent to the hardware as part of a lifecycle
// operation. Delivered is false when the controller never acknowledged.
type GateDecision struct {
	GateID    string
	Action    gatecmd.Action
	RequestID string
	Attempts  int
	Delivered bool
}

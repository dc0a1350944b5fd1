package iot

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/config"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
)

// commandPayload is the wire format the gate controller firmware consumes.
type commandPayload struct {
	RequestID string `json:"request_id"`
	Action    string `json:"action"`
	Reason    string `json:"reason,omitempty"`
}

// Dispatcher pushes gate commands over MQTT and waits for the controller's
// acknowledgement, which arrives asynchronously on the event queue and is
// routed back here by request id. Unacknowledged commands are retried with
// backoff before the command is declared timed out.
type Dispatcher struct {
	publisher MQTTPublisher
	topicBase string
	cfg       config.GateConfig
	clock     clock.Clock

	mu      sync.Mutex
	pending map[string]chan time.Time
}

var _ commands.GateSignaler = (*Dispatcher)(nil)

func NewDispatcher(publisher MQTTPublisher, topicBase string, cfg config.GateConfig, clk clock.Clock) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		topicBase: topicBase,
		cfg:       cfg,
		clock:     clk,
		pending:   make(map[string]chan time.Time),
	}
}

func (d *Dispatcher) Signal(ctx context.Context, cmd *gatecmd.Command) error {
	payload, err := json.Marshal(commandPayload{
		RequestID: cmd.RequestID(),
		Action:    string(cmd.Action()),
		Reason:    cmd.Reason(),
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal gate command")
	}

	topic := d.topicBase + "/" + cmd.GateID()
	ackCh := d.register(cmd.RequestID())
	defer d.unregister(cmd.RequestID())

	for attempt := 0; attempt < d.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				_ = cmd.MarkTimedOut(d.clock.Now())
				return ctx.Err()
			case <-time.After(d.cfg.RetryBackoff):
			}
		}

		cmd.RecordAttempt()
		if err := d.publisher.Publish(ctx, topic, payload); err != nil {
			slog.Warn("gate command publish failed",
				"gate_id", cmd.GateID(), "request_id", cmd.RequestID(),
				"attempt", cmd.Attempts(), "error", err.Error())
			continue
		}

		select {
		case ackedAt := <-ackCh:
			if err := cmd.MarkAcked(ackedAt); err != nil {
				return err
			}
			return nil
		case <-time.After(d.cfg.AckTimeout):
			slog.Warn("gate command ack timeout",
				"gate_id", cmd.GateID(), "request_id", cmd.RequestID(), "attempt", cmd.Attempts())
		case <-ctx.Done():
			_ = cmd.MarkTimedOut(d.clock.Now())
			return ctx.Err()
		}
	}

	_ = cmd.MarkTimedOut(d.clock.Now())
	return errs.Mark(
		errs.Newf("gate %s did not acknowledge after %d attempts", cmd.GateID(), cmd.Attempts()),
		errs.ErrGateUnresponsive,
	)
}

// HandleAck correlates a controller acknowledgement back to the waiting
// Signal call. Acks for unknown request ids (late arrivals after timeout)
// are dropped.
func (d *Dispatcher) HandleAck(requestID string, ackedAt time.Time) {
	d.mu.Lock()
	ch, ok := d.pending[requestID]
	d.mu.Unlock()
	if !ok {
		slog.Debug("dropping ack for unknown request", "request_id", requestID)
		return
	}

	select {
	case ch <- ackedAt:
	default:
	}
}

func (d *Dispatcher) register(requestID string) chan time.Time {
	ch := make(chan time.Time, 1)
	d.mu.Lock()
	d.pending[requestID] = ch
	d.mu.Unlock()
	return ch
}

func (d *Dispatcher) unregister(requestID string) {
	d.mu.Lock()
	delete(d.pending, requestID)
	d.mu.Unlock()
}

//go:build unit

package iot_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/infra/iot"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/config"
	"parkgate/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPublisher struct {
	mu         sync.Mutex
	published  []string
	ackAfter   int // acknowledge the Nth publish (1-based), 0 = never
	dispatcher *iot.Dispatcher
	requestID  string
	failFirst  bool
}

func (p *scriptedPublisher) Publish(_ context.Context, topic string, _ []byte) error {
	p.mu.Lock()
	p.published = append(p.published, topic)
	n := len(p.published)
	p.mu.Unlock()

	if p.failFirst && n == 1 {
		return errs.New("broker unavailable")
	}
	if p.ackAfter > 0 && n == p.ackAfter {
		go p.dispatcher.HandleAck(p.requestID, time.Now())
	}
	return nil
}

func (p *scriptedPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func newTestDispatcher(t *testing.T, pub *scriptedPublisher) (*iot.Dispatcher, *gatecmd.Command) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	d := iot.NewDispatcher(pub, "parkgate/command/gates", config.NewTestConfig().Gate, clk)
	cmd, err := gatecmd.NewCommand(uuid.New(), "entry-1", gatecmd.ActionOpen, "session opened", clk.Now())
	require.NoError(t, err)
	pub.dispatcher = d
	pub.requestID = cmd.RequestID()
	return d, cmd
}

func TestDispatcher_Signal(t *testing.T) {
	t.Run("acknowledged on first attempt", func(t *testing.T) {
		pub := &scriptedPublisher{ackAfter: 1}
		d, cmd := newTestDispatcher(t, pub)

		err := d.Signal(context.Background(), cmd)

		require.NoError(t, err)
		assert.Equal(t, gatecmd.StatusAcked, cmd.Status())
		assert.Equal(t, 1, cmd.Attempts())
		assert.Equal(t, []string{"parkgate/command/gates/entry-1"}, pub.published)
	})

	t.Run("retries after ack timeout then succeeds", func(t *testing.T) {
		pub := &scriptedPublisher{ackAfter: 2}
		d, cmd := newTestDispatcher(t, pub)

		err := d.Signal(context.Background(), cmd)

		require.NoError(t, err)
		assert.Equal(t, gatecmd.StatusAcked, cmd.Status())
		assert.Equal(t, 2, cmd.Attempts())
	})

	t.Run("times out after exhausting attempts", func(t *testing.T) {
		pub := &scriptedPublisher{ackAfter: 0}
		d, cmd := newTestDispatcher(t, pub)

		err := d.Signal(context.Background(), cmd)

		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrGateUnresponsive))
		assert.Equal(t, gatecmd.StatusTimedOut, cmd.Status())
		assert.Equal(t, 3, cmd.Attempts())
		assert.Equal(t, 3, pub.count())
	})

	t.Run("publish failure counts as an attempt", func(t *testing.T) {
		pub := &scriptedPublisher{ackAfter: 2, failFirst: true}
		d, cmd := newTestDispatcher(t, pub)

		err := d.Signal(context.Background(), cmd)

		require.NoError(t, err)
		assert.Equal(t, gatecmd.StatusAcked, cmd.Status())
		assert.Equal(t, 2, cmd.Attempts())
	})

	t.Run("late ack for unknown request is dropped", func(t *testing.T) {
		pub := &scriptedPublisher{}
		d, _ := newTestDispatcher(t, pub)

		// Must not panic or block.
		d.HandleAck("no-such-request", time.Now())
	})
}

//go:build unit

package detection_test

import (
	"testing"
	"time"

	"parkgate/internal/domain/detection"
	"parkgate/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDedup(t *testing.T) (*detection.Deduplicator, *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	return detection.NewDeduplicator(85, 5*time.Second, clk), clk
}

func TestIngestAcceptsFirstRead(t *testing.T) {
	d, clk := newDedup(t)

	event, outcome := d.Ingest("ab-123 cd", "gate-1", detection.DirectionEntry, clk.Now(), 92, "img://1")
	require.Equal(t, detection.OutcomeAccepted, outcome)
	require.NotNil(t, event)
	assert.Equal(t, "AB123CD", event.Plate)
	assert.Equal(t, "gate-1", event.GateID)
	assert.Equal(t, 92, event.Confidence)
}

func TestIngestRejectsLowConfidence(t *testing.T) {
	d, clk := newDedup(t)

	event, outcome := d.Ingest("AB123CD", "gate-1", detection.DirectionEntry, clk.Now(), 84, "")
	assert.Equal(t, detection.OutcomeLowConfidence, outcome)
	assert.Nil(t, event)
}

func TestIngestRejectsGarbagePlate(t *testing.T) {
	d, clk := newDedup(t)

	event, outcome := d.Ingest("--", "gate-1", detection.DirectionEntry, clk.Now(), 99, "")
	assert.Equal(t, detection.OutcomeInvalidPlate, outcome)
	assert.Nil(t, event)
}

func TestIngestDebouncesBurst(t *testing.T) {
	d, clk := newDedup(t)

	_, outcome := d.Ingest("AB123CD", "gate-1", detection.DirectionEntry, clk.Now(), 90, "")
	require.Equal(t, detection.OutcomeAccepted, outcome)

	// Repeated frames of the same pass, inside the window.
	for i := 0; i < 4; i++ {
		clk.Add(time.Second)
		event, outcome := d.Ingest("AB123CD", "gate-1", detection.DirectionEntry, clk.Now(), 95, "")
		assert.Equal(t, detection.OutcomeDebounced, outcome)
		assert.Nil(t, event)
	}
}

func TestIngestAcceptsAfterWindowElapsed(t *testing.T) {
	d, clk := newDedup(t)

	_, outcome := d.Ingest("AB123CD", "gate-1", detection.DirectionEntry, clk.Now(), 90, "")
	require.Equal(t, detection.OutcomeAccepted, outcome)

	clk.Add(5 * time.Second)
	_, outcome = d.Ingest("AB123CD", "gate-1", detection.DirectionEntry, clk.Now(), 90, "")
	assert.Equal(t, detection.OutcomeAccepted, outcome)
}

func TestIngestTreatsGatesIndependently(t *testing.T) {
	d, clk := newDedup(t)

	_, outcome := d.Ingest("AB123CD", "gate-1", detection.DirectionEntry, clk.Now(), 90, "")
	require.Equal(t, detection.OutcomeAccepted, outcome)

	// The same plate read at the exit gate is a different logical event.
	_, outcome = d.Ingest("AB123CD", "gate-2", detection.DirectionExit, clk.Now(), 90, "")
	assert.Equal(t, detection.OutcomeAccepted, outcome)
}

func TestIngestNormalizationCollapsesVariants(t *testing.T) {
	d, clk := newDedup(t)

	_, outcome := d.Ingest("AB 123-CD", "gate-1", detection.DirectionEntry, clk.Now(), 90, "")
	require.Equal(t, detection.OutcomeAccepted, outcome)

	clk.Add(time.Second)
	_, outcome = d.Ingest("ab123cd", "gate-1", detection.DirectionEntry, clk.Now(), 93, "")
	assert.Equal(t, detection.OutcomeDebounced, outcome)
}

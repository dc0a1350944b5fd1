//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parkgate/internal/domain/detection"
	"parkgate/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIngest(t *testing.T) (*fixture, commands.DetectionCommands) {
	t.Helper()
	f := newFixture(t)
	dedup := detection.NewDeduplicator(85, 5*time.Second, f.clock)
	return f, commands.NewDetectionUseCase(dedup, f.sessions)
}

func TestIngest(t *testing.T) {
	t.Run("entry read opens a session", func(t *testing.T) {
		_, ingest := newIngest(t)

		res, err := ingest.Ingest(context.Background(), commands.IngestInput{
			Plate: "ab-123 cd", GateID: "gate-entry-1", Direction: "entry",
			DetectedAt: entryAt, Confidence: 95, ImageRef: "img://1",
		})
		require.NoError(t, err)

		assert.Equal(t, detection.OutcomeAccepted, res.Outcome)
		require.NotNil(t, res.Entry)
		assert.Equal(t, "AB123CD", res.Entry.Session.Plate())
		assert.Nil(t, res.Exit)
	})

	t.Run("burst frames do not open duplicate sessions", func(t *testing.T) {
		_, ingest := newIngest(t)

		in := commands.IngestInput{
			Plate: "AB123CD", GateID: "gate-entry-1", Direction: "entry",
			DetectedAt: entryAt, Confidence: 95,
		}
		first, err := ingest.Ingest(context.Background(), in)
		require.NoError(t, err)
		require.Equal(t, detection.OutcomeAccepted, first.Outcome)

		for i := 0; i < 3; i++ {
			res, err := ingest.Ingest(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, detection.OutcomeDebounced, res.Outcome)
			assert.Nil(t, res.Entry)
		}
	})

	t.Run("low confidence read is dropped before any session work", func(t *testing.T) {
		f, ingest := newIngest(t)

		res, err := ingest.Ingest(context.Background(), commands.IngestInput{
			Plate: "AB123CD", GateID: "gate-entry-1", Direction: "entry",
			DetectedAt: entryAt, Confidence: 40,
		})
		require.NoError(t, err)
		assert.Equal(t, detection.OutcomeLowConfidence, res.Outcome)
		assert.Empty(t, f.signaler.opens())
	})

	t.Run("unknown direction is an error", func(t *testing.T) {
		_, ingest := newIngest(t)

		_, err := ingest.Ingest(context.Background(), commands.IngestInput{
			Plate: "AB123CD", GateID: "gate-entry-1", Direction: "sideways",
			DetectedAt: entryAt, Confidence: 95,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidDirection)
	})

	t.Run("exit read routes through fee calculation", func(t *testing.T) {
		f, ingest := newIngest(t)

		_, err := ingest.Ingest(context.Background(), commands.IngestInput{
			Plate: "AB123CD", GateID: "gate-entry-1", Direction: "entry",
			DetectedAt: entryAt, Confidence: 95,
		})
		require.NoError(t, err)

		f.clock.Add(65 * time.Minute)
		res, err := ingest.Ingest(context.Background(), commands.IngestInput{
			Plate: "AB123CD", GateID: "gate-exit-1", Direction: "exit",
			DetectedAt: entryAt.Add(65 * time.Minute), Confidence: 95,
		})
		require.NoError(t, err)

		require.NotNil(t, res.Exit)
		assert.Equal(t, int64(200), res.Exit.Fee.Cents())
	})
}

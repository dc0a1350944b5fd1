package commands

import (
	"context"
	"log/slog"
	"time"

	"parkgate/internal/domain/detection"
	"parkgate/internal/pkg/errs"
)

var ErrInvalidDirection = errs.New("invalid detection direction")

type IngestInput struct {
	Plate      string
	GateID     string
	Direction  string
	DetectedAt time.Time
	Confidence int
	ImageRef   string
}

// IngestResult carries the filter outcome plus whichever lifecycle result the
// event produced. Entry and Exit are mutually exclusive and both nil when the
// read was suppressed.
type IngestResult struct {
	Outcome detection.Outcome
	Entry   *EntryResult
	Exit    *ExitResult
}

type DetectionCommands interface {
	Ingest(ctx context.Context, in IngestInput) (*IngestResult, error)
}

type detectionUseCaseImpl struct {
	dedup    *detection.Deduplicator
	sessions SessionCommands
}

func NewDetectionUseCase(dedup *detection.Deduplicator, sessions SessionCommands) DetectionCommands {
	return &detectionUseCaseImpl{
		dedup:    dedup,
		sessions: sessions,
	}
}

// Ingest runs one raw camera read through the dedup filter and, when a
// logical event comes out, routes it to the matching lifecycle operation.
// Suppressed reads are not errors; the caller gets the outcome and moves on.
func (u *detectionUseCaseImpl) Ingest(ctx context.Context, in IngestInput) (*IngestResult, error) {
	dir := detection.Direction(in.Direction)
	if !dir.IsValid() {
		return nil, ErrInvalidDirection
	}

	ev, outcome := u.dedup.Ingest(in.Plate, in.GateID, dir, in.DetectedAt, in.Confidence, in.ImageRef)
	if outcome != detection.OutcomeAccepted {
		slog.Debug("detection suppressed",
			"plate", in.Plate, "gate_id", in.GateID, "outcome", string(outcome))
		return &IngestResult{Outcome: outcome}, nil
	}

	switch ev.Direction {
	case detection.DirectionEntry:
		entry, err := u.sessions.HandleEntry(ctx, *ev)
		if err != nil {
			return nil, err
		}
		return &IngestResult{Outcome: outcome, Entry: entry}, nil
	default:
		exit, err := u.sessions.HandleExit(ctx, *ev)
		if err != nil {
			return nil, err
		}
		return &IngestResult{Outcome: outcome, Exit: exit}, nil
	}
}

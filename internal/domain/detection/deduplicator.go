package detection

import (
	"sync"
	"time"

	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/plate"
)

// Outcome explains why an ingested read did or did not produce an event.
type Outcome string

const (
	OutcomeAccepted      Outcome = "accepted"
	OutcomeLowConfidence Outcome = "low_confidence"
	OutcomeDebounced     Outcome = "debounced"
	OutcomeInvalidPlate  Outcome = "invalid_plate"
)

// Deduplicator collapses bursts of near-duplicate plate reads. Camera
// hardware emits several frames per passing vehicle; only the first read for
// a (plate, gate) pair inside the debounce window becomes a logical event,
// and reads below the confidence threshold are dropped outright.
//
// State is keyed by (plate, gate) and pruned once the window elapses, so the
// map stays bounded by the number of vehicles concurrently at gates.
type Deduplicator struct {
	minConfidence int
	window        time.Duration
	clock         clock.Clock

	mu   sync.Mutex
	seen map[key]sample
}

type key struct {
	plate string
	gate  string
}

type sample struct {
	at         time.Time
	confidence int
}

func NewDeduplicator(minConfidence int, window time.Duration, clk clock.Clock) *Deduplicator {
	return &Deduplicator{
		minConfidence: minConfidence,
		window:        window,
		clock:         clk,
		seen:          make(map[key]sample),
	}
}

// Ingest filters one raw camera read. On OutcomeAccepted the returned event
// carries the normalized plate; for every other outcome the event is nil.
func (d *Deduplicator) Ingest(rawPlate, gateID string, direction Direction, detectedAt time.Time, confidence int, imageRef string) (*Event, Outcome) {
	normalized := plate.Normalize(rawPlate)
	if !plate.IsValid(normalized) {
		return nil, OutcomeInvalidPlate
	}
	if confidence < d.minConfidence {
		return nil, OutcomeLowConfidence
	}

	now := d.clock.Now()
	k := key{plate: normalized, gate: gateID}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.prune(now)

	if prev, ok := d.seen[k]; ok && now.Sub(prev.at) < d.window {
		// Same vehicle, same gate, same burst. Remember the best confidence
		// for observability but emit nothing.
		if confidence > prev.confidence {
			d.seen[k] = sample{at: prev.at, confidence: confidence}
		}
		return nil, OutcomeDebounced
	}

	d.seen[k] = sample{at: now, confidence: confidence}

	return &Event{
		Plate:      normalized,
		GateID:     gateID,
		Direction:  direction,
		Timestamp:  detectedAt,
		Confidence: confidence,
		ImageRef:   imageRef,
	}, OutcomeAccepted
}

func (d *Deduplicator) prune(now time.Time) {
	for k, s := range d.seen {
		if now.Sub(s.at) >= d.window {
			delete(d.seen, k)
		}
	}
}

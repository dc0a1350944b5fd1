package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNegativeRate     = errors.New("rate cannot be negative")
	ErrNegativeFreeTime = errors.New("free minutes cannot be negative")
)

// RateSnapshot is an immutable billing rule. An admin update never mutates a
// snapshot; it creates a successor and stamps the predecessor's supersededAt.
// Open sessions keep billing against the snapshot current at their entry time.
type RateSnapshot struct {
	id            uuid.UUID
	hourlyCents   int64
	freeMinutes   int
	maxDailyCents int64
	createdAt     time.Time
	supersededAt  *time.Time
}

func NewRateSnapshot(hourlyCents int64, freeMinutes int, maxDailyCents int64, createdAt time.Time) (*RateSnapshot, error) {
	if hourlyCents < 0 || maxDailyCents < 0 {
		return nil, ErrNegativeRate
	}
	if freeMinutes < 0 {
		return nil, ErrNegativeFreeTime
	}

	return &RateSnapshot{
		id:            uuid.New(),
		hourlyCents:   hourlyCents,
		freeMinutes:   freeMinutes,
		maxDailyCents: maxDailyCents,
		createdAt:     createdAt,
	}, nil
}

func ReconstructRateSnapshot(
	id uuid.UUID,
	hourlyCents int64,
	freeMinutes int,
	maxDailyCents int64,
	createdAt time.Time,
	supersededAt *time.Time,
) *RateSnapshot {
	return &RateSnapshot{
		id:            id,
		hourlyCents:   hourlyCents,
		freeMinutes:   freeMinutes,
		maxDailyCents: maxDailyCents,
		createdAt:     createdAt,
		supersededAt:  supersededAt,
	}
}

func (r *RateSnapshot) ID() uuid.UUID            { return r.id }
func (r *RateSnapshot) HourlyCents() int64       { return r.hourlyCents }
func (r *RateSnapshot) FreeMinutes() int         { return r.freeMinutes }
func (r *RateSnapshot) MaxDailyCents() int64     { return r.maxDailyCents }
func (r *RateSnapshot) CreatedAt() time.Time     { return r.createdAt }
func (r *RateSnapshot) SupersededAt() *time.Time { return r.supersededAt }

// IsCurrent reports whether this snapshot has no successor.
func (r *RateSnapshot) IsCurrent() bool {
	return r.supersededAt == nil
}

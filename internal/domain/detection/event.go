package detection

import "time"

type Direction string

const (
	DirectionEntry Direction = "entry"
	DirectionExit  Direction = "exit"
)

func (d Direction) IsValid() bool {
	return d == DirectionEntry || d == DirectionExit
}

// Event is one logical plate read that survived policy filtering: the plate
// is already normalized and the burst of near-duplicate camera frames has
// been collapsed into this single event.
type Event struct {
	Plate      string
	GateID     string
	Direction  Direction
	Timestamp  time.Time
	Confidence int
	ImageRef   string
}

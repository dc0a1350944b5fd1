package request

import "time"

// DetectionRequest is the manual ingestion endpoint's body. The field set
// mirrors what the camera bridge puts on the event queue so operators can
// replay a missed read from the dashboard.
type DetectionRequest struct {
	Plate      string    `json:"plate" binding:"required"`
	GateID     string    `json:"gate_id" binding:"required"`
	Direction  string    `json:"direction" binding:"required,oneof=entry exit"`
	DetectedAt time.Time `json:"detected_at" binding:"required"`
	Confidence int       `json:"confidence" binding:"required,gte=0,lte=100"`
	ImageRef   string    `json:"image_ref,omitempty"`
}

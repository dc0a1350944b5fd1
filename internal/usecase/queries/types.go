package queries

import (
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

// Read models (DTO for read side)
type SessionView struct {
	ID               uuid.UUID   `json:"id"`
	Plate            string      `json:"plate"`
	RateID           uuid.UUID   `json:"rate_id"`
	Status           string      `json:"status"`
	PaymentState     string      `json:"payment_state"`
	EntryTime        time.Time   `json:"entry_time"`
	ExitTime         null.Time   `json:"exit_time"`
	EntryGateID      string      `json:"entry_gate_id"`
	ExitGateID       null.String `json:"exit_gate_id"`
	EntryImageRef    null.String `json:"entry_image_ref"`
	ExitImageRef     null.String `json:"exit_image_ref"`
	FeeCents         null.Int    `json:"fee_cents"`
	ExtensionMinutes int         `json:"extension_minutes"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type SessionListItem struct {
	ID           uuid.UUID `json:"id"`
	Plate        string    `json:"plate"`
	Status       string    `json:"status"`
	PaymentState string    `json:"payment_state"`
	EntryTime    time.Time `json:"entry_time"`
	ExitTime     null.Time `json:"exit_time"`
	FeeCents     null.Int  `json:"fee_cents"`
}

type RateView struct {
	ID            uuid.UUID `json:"id"`
	HourlyCents   int64     `json:"hourly_cents"`
	FreeMinutes   int       `json:"free_minutes"`
	MaxDailyCents int64     `json:"max_daily_cents"`
	CreatedAt     time.Time `json:"created_at"`
	SupersededAt  null.Time `json:"superseded_at"`
}

type PaymentAttemptView struct {
	ID             uuid.UUID   `json:"id"`
	SessionID      uuid.UUID   `json:"session_id"`
	AmountCents    int64       `json:"amount_cents"`
	IdempotencyKey string      `json:"idempotency_key"`
	GatewayRef     null.String `json:"gateway_ref"`
	Status         string      `json:"status"`
	RequestedAt    time.Time   `json:"requested_at"`
	SettledAt      null.Time   `json:"settled_at"`
	FailureReason  null.String `json:"failure_reason"`
}

type GateCommandView struct {
	ID        uuid.UUID `json:"id"`
	RequestID string    `json:"request_id"`
	SessionID uuid.UUID `json:"session_id"`
	GateID    string    `json:"gate_id"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
	IssuedAt  time.Time `json:"issued_at"`
	SettledAt null.Time `json:"settled_at"`
}

type VehicleView struct {
	ID           uuid.UUID `json:"id"`
	Plate        string    `json:"plate"`
	OwnerName    string    `json:"owner_name"`
	OwnerContact string    `json:"owner_contact"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type OperatorView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin null.Time `json:"last_login"`
}

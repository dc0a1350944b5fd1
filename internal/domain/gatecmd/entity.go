package gatecmd

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotPending     = errors.New("gate command is not pending")
	ErrInvalidAction  = errors.New("invalid gate action")
	ErrEmptyGateID    = errors.New("gate id is empty")
	ErrMissingSession = errors.New("gate command has no session binding")
)

type Action string

const (
	ActionOpen Action = "open"
	ActionDeny Action = "deny"
)

func (a Action) IsValid() bool {
	return a == ActionOpen || a == ActionDeny
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAcked    Status = "acked"
	StatusTimedOut Status = "timed_out"
)

// Command is one instruction to a physical gate controller, tracked until
// the device acknowledges it or the dispatcher gives up. The request id
// travels on the wire and correlates the controller's ack back to this
// record.
type Command struct {
	id        uuid.UUID
	requestID string
	sessionID uuid.UUID
	gateID    string
	action    Action
	reason    string
	status    Status
	attempts  int
	issuedAt  time.Time
	settledAt *time.Time
}

func NewCommand(sessionID uuid.UUID, gateID string, action Action, reason string, issuedAt time.Time) (*Command, error) {
	if gateID == "" {
		return nil, ErrEmptyGateID
	}
	if !action.IsValid() {
		return nil, ErrInvalidAction
	}
	if sessionID == uuid.Nil {
		return nil, ErrMissingSession
	}

	id := uuid.New()
	return &Command{
		id:        id,
		requestID: id.String(),
		sessionID: sessionID,
		gateID:    gateID,
		action:    action,
		reason:    reason,
		status:    StatusPending,
		issuedAt:  issuedAt,
	}, nil
}

func ReconstructCommand(
	id uuid.UUID,
	requestID string,
	sessionID uuid.UUID,
	gateID string,
	action Action,
	reason string,
	status Status,
	attempts int,
	issuedAt time.Time,
	settledAt *time.Time,
) *Command {
	return &Command{
		id:        id,
		requestID: requestID,
		sessionID: sessionID,
		gateID:    gateID,
		action:    action,
		reason:    reason,
		status:    status,
		attempts:  attempts,
		issuedAt:  issuedAt,
		settledAt: settledAt,
	}
}

func (c *Command) RecordAttempt() {
	c.attempts++
}

func (c *Command) MarkAcked(at time.Time) error {
	if c.status != StatusPending {
		return ErrNotPending
	}
	c.status = StatusAcked
	c.settledAt = &at
	return nil
}

func (c *Command) MarkTimedOut(at time.Time) error {
	if c.status != StatusPending {
		return ErrNotPending
	}
	c.status = StatusTimedOut
	c.settledAt = &at
	return nil
}

func (c *Command) ID() uuid.UUID         { return c.id }
func (c *Command) RequestID() string     { return c.requestID }
func (c *Command) SessionID() uuid.UUID  { return c.sessionID }
func (c *Command) GateID() string        { return c.gateID }
func (c *Command) Action() Action        { return c.action }
func (c *Command) Reason() string        { return c.reason }
func (c *Command) Status() Status        { return c.status }
func (c *Command) Attempts() int         { return c.attempts }
func (c *Command) IssuedAt() time.Time   { return c.issuedAt }
func (c *Command) SettledAt() *time.Time { return c.settledAt }

package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"parkgate/internal/domain/billing"

	"github.com/google/uuid"
)

var (
	ErrNotRequested   = errors.New("payment attempt is not in requested state")
	ErrAlreadySettled = errors.New("payment attempt already settled")
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

func (s Status) String() string { return string(s) }

// Attempt tracks one payment request sent to the provider. A session can
// accumulate several attempts (retries after failures) but at most one
// confirmed one.
type Attempt struct {
	id             uuid.UUID
	sessionID      uuid.UUID
	amountCents    int64
	idempotencyKey string
	gatewayRef     *string
	status         Status
	requestedAt    time.Time
	settledAt      *time.Time
	failureReason  *string
}

func NewAttempt(sessionID uuid.UUID, amount billing.Money, requestedAt time.Time) *Attempt {
	return &Attempt{
		id:             uuid.New(),
		sessionID:      sessionID,
		amountCents:    amount.Cents(),
		idempotencyKey: DeriveIdempotencyKey(sessionID, amount),
		status:         StatusRequested,
		requestedAt:    requestedAt,
	}
}

func ReconstructAttempt(
	id, sessionID uuid.UUID,
	amountCents int64,
	idempotencyKey string,
	gatewayRef *string,
	status Status,
	requestedAt time.Time,
	settledAt *time.Time,
	failureReason *string,
) *Attempt {
	return &Attempt{
		id:             id,
		sessionID:      sessionID,
		amountCents:    amountCents,
		idempotencyKey: idempotencyKey,
		gatewayRef:     gatewayRef,
		status:         status,
		requestedAt:    requestedAt,
		settledAt:      settledAt,
		failureReason:  failureReason,
	}
}

// Confirm settles the attempt and records the provider's transaction
// reference. The ref stays nil until the provider acknowledges the charge.
func (a *Attempt) Confirm(gatewayRef string, at time.Time) error {
	if a.status == StatusConfirmed {
		return ErrAlreadySettled
	}
	if a.status != StatusRequested {
		return ErrNotRequested
	}
	a.status = StatusConfirmed
	if gatewayRef != "" {
		a.gatewayRef = &gatewayRef
	}
	a.settledAt = &at
	return nil
}

func (a *Attempt) Fail(reason string, at time.Time) error {
	if a.status != StatusRequested {
		return ErrAlreadySettled
	}
	a.status = StatusFailed
	a.settledAt = &at
	a.failureReason = &reason
	return nil
}

func (a *Attempt) ID() uuid.UUID          { return a.id }
func (a *Attempt) SessionID() uuid.UUID   { return a.sessionID }
func (a *Attempt) AmountCents() int64     { return a.amountCents }
func (a *Attempt) IdempotencyKey() string { return a.idempotencyKey }
func (a *Attempt) GatewayRef() *string    { return a.gatewayRef }
func (a *Attempt) Status() Status         { return a.status }
func (a *Attempt) RequestedAt() time.Time { return a.requestedAt }
func (a *Attempt) SettledAt() *time.Time  { return a.settledAt }
func (a *Attempt) FailureReason() *string { return a.failureReason }

// DeriveIdempotencyKey is deterministic over (session, amount) so that
// retrying the same fee never creates a second charge at the provider, while
// a revised fee yields a fresh key.
func DeriveIdempotencyKey(sessionID uuid.UUID, amount billing.Money) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", sessionID, amount.Cents())))
	return hex.EncodeToString(sum[:])
}

package session

import (
	"errors"
	"time"

	"parkgate/internal/domain/billing"

	"github.com/google/uuid"
)

var (
	ErrEmptyPlate          = errors.New("plate is empty")
	ErrNotOpen             = errors.New("session is not open")
	ErrNotAwaitingPayment  = errors.New("session is not awaiting payment")
	ErrAlreadyClosed       = errors.New("session is already closed")
	ErrAmountMismatch      = errors.New("amount does not match recorded fee")
	ErrNegativeExtension   = errors.New("extension minutes cannot be negative")
	ErrExitBeforeEntry     = errors.New("exit time precedes entry time")
	ErrZeroFeeAwaiting     = errors.New("awaiting payment requires a nonzero fee")
	ErrMissingRateSnapshot = errors.New("session has no rate snapshot binding")
)

// Session is one vehicle's occupancy interval. All mutation goes through the
// transition methods below; once closed the entity rejects every further
// write, so exit time, fee and payment state are set together exactly once.
type Session struct {
	id               uuid.UUID
	plate            string
	rateID           uuid.UUID
	entryTime        time.Time
	exitTime         *time.Time
	entryGateID      string
	exitGateID       *string
	entryImageRef    string
	exitImageRef     *string
	feeCents         *int64
	paymentState     PaymentState
	extensionMinutes int
	status           Status
	storedStatus     Status
	createdAt        time.Time
	updatedAt        time.Time
}

func NewSession(plate string, entryTime time.Time, entryGateID, entryImageRef string, rateID uuid.UUID) (*Session, error) {
	if plate == "" {
		return nil, ErrEmptyPlate
	}
	if rateID == uuid.Nil {
		return nil, ErrMissingRateSnapshot
	}

	return &Session{
		id:            uuid.New(),
		plate:         plate,
		rateID:        rateID,
		entryTime:     entryTime,
		entryGateID:   entryGateID,
		entryImageRef: entryImageRef,
		paymentState:  PaymentPending,
		status:        StatusOpen,
		storedStatus:  StatusOpen,
		createdAt:     entryTime,
		updatedAt:     entryTime,
	}, nil
}

func ReconstructSession(
	id uuid.UUID,
	plate string,
	rateID uuid.UUID,
	entryTime time.Time,
	exitTime *time.Time,
	entryGateID string,
	exitGateID *string,
	entryImageRef string,
	exitImageRef *string,
	feeCents *int64,
	paymentState PaymentState,
	extensionMinutes int,
	status Status,
	createdAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:               id,
		plate:            plate,
		rateID:           rateID,
		entryTime:        entryTime,
		exitTime:         exitTime,
		entryGateID:      entryGateID,
		exitGateID:       exitGateID,
		entryImageRef:    entryImageRef,
		exitImageRef:     exitImageRef,
		feeCents:         feeCents,
		paymentState:     paymentState,
		extensionMinutes: extensionMinutes,
		status:           status,
		storedStatus:     status,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// CloseFree ends the session with no charge. Valid from OPEN (free exit) and
// from AWAITING_PAYMENT (an admin extension wiped the fee).
func (s *Session) CloseFree(exitTime time.Time, exitGateID, exitImageRef string) error {
	if s.status == StatusClosed {
		return ErrAlreadyClosed
	}
	if exitTime.Before(s.entryTime) {
		return ErrExitBeforeEntry
	}

	zero := int64(0)
	s.exitTime = &exitTime
	if exitGateID != "" {
		s.exitGateID = &exitGateID
	}
	s.exitImageRef = &exitImageRef
	s.feeCents = &zero
	s.paymentState = PaymentFree
	s.status = StatusClosed
	s.updatedAt = exitTime
	return nil
}

// AwaitPayment records the exit detection and the computed fee without
// closing: the exit gate stays shut until the fee is confirmed paid.
func (s *Session) AwaitPayment(exitTime time.Time, exitGateID, exitImageRef string, fee billing.Money) error {
	if s.status == StatusClosed {
		return ErrAlreadyClosed
	}
	if s.status != StatusOpen {
		return ErrNotOpen
	}
	if exitTime.Before(s.entryTime) {
		return ErrExitBeforeEntry
	}
	if fee.IsZero() {
		return ErrZeroFeeAwaiting
	}

	cents := fee.Cents()
	s.exitTime = &exitTime
	if exitGateID != "" {
		s.exitGateID = &exitGateID
	}
	s.exitImageRef = &exitImageRef
	s.feeCents = &cents
	s.status = StatusAwaitingPayment
	s.updatedAt = exitTime
	return nil
}

// ClosePaid completes the lifecycle after a confirmed payment matching the
// recorded fee.
func (s *Session) ClosePaid(amount billing.Money, confirmedAt time.Time) error {
	if s.status == StatusClosed {
		return ErrAlreadyClosed
	}
	if s.status != StatusAwaitingPayment || s.feeCents == nil {
		return ErrNotAwaitingPayment
	}
	if amount.Cents() != *s.feeCents {
		return ErrAmountMismatch
	}

	s.paymentState = PaymentPaid
	s.status = StatusClosed
	s.updatedAt = confirmedAt
	return nil
}

// GrantExtension adds admin-granted free minutes. The caller recomputes the
// fee afterwards if the session is already awaiting payment.
func (s *Session) GrantExtension(minutes int, grantedAt time.Time) error {
	if minutes < 0 {
		return ErrNegativeExtension
	}
	if s.status == StatusClosed {
		return ErrAlreadyClosed
	}

	s.extensionMinutes += minutes
	s.updatedAt = grantedAt
	return nil
}

// ReviseFee replaces the recorded fee while awaiting payment, after an
// extension changed the billable time. A revision to zero must go through
// CloseFree instead.
func (s *Session) ReviseFee(fee billing.Money, revisedAt time.Time) error {
	if s.status != StatusAwaitingPayment {
		return ErrNotAwaitingPayment
	}
	if fee.IsZero() {
		return ErrZeroFeeAwaiting
	}

	cents := fee.Cents()
	s.feeCents = &cents
	s.updatedAt = revisedAt
	return nil
}

func (s *Session) IsActive() bool {
	return s.status != StatusClosed
}

// MatchesPayment reports whether a closed session was paid with the given
// amount, used to absorb duplicate confirmation deliveries.
func (s *Session) MatchesPayment(amount billing.Money) bool {
	return s.status == StatusClosed &&
		s.paymentState == PaymentPaid &&
		s.feeCents != nil &&
		*s.feeCents == amount.Cents()
}

func (s *Session) ID() uuid.UUID              { return s.id }
func (s *Session) Plate() string              { return s.plate }
func (s *Session) RateID() uuid.UUID          { return s.rateID }
func (s *Session) EntryTime() time.Time       { return s.entryTime }
func (s *Session) ExitTime() *time.Time       { return s.exitTime }
func (s *Session) EntryGateID() string        { return s.entryGateID }
func (s *Session) ExitGateID() *string        { return s.exitGateID }
func (s *Session) EntryImageRef() string      { return s.entryImageRef }
func (s *Session) ExitImageRef() *string      { return s.exitImageRef }
func (s *Session) FeeCents() *int64           { return s.feeCents }
func (s *Session) PaymentState() PaymentState { return s.paymentState }
func (s *Session) ExtensionMinutes() int      { return s.extensionMinutes }
func (s *Session) Status() Status             { return s.status }

// StoredStatus is the status this entity was loaded with. Repositories use
// it as a compare-and-set guard on update so that two writers racing on the
// same row cannot both apply a closing transition.
func (s *Session) StoredStatus() Status { return s.storedStatus }

func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

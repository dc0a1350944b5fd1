package errs

import "errors"

// Sentinel errors surfaced by the session/payment/gate usecase layers
var (
	// Session lifecycle errors
	ErrDuplicateActiveSession    = errors.New("duplicate active session")
	ErrNoActiveSession           = errors.New("no active session")
	ErrSessionNotFound           = errors.New("session not found")
	ErrSessionNotAwaitingPayment = errors.New("session not awaiting payment")
	ErrSessionAlreadyClosed      = errors.New("session already closed")

	// Billing errors
	ErrNegativeDuration = errors.New("negative parking duration")
	ErrAmountMismatch   = errors.New("payment amount mismatch")
	ErrNoCurrentRate    = errors.New("no current rate snapshot")
	ErrRateNotFound     = errors.New("rate snapshot not found")

	// Payment errors
	ErrPaymentRequestFailed  = errors.New("payment request failed")
	ErrPaymentAttemptUnknown = errors.New("unknown payment attempt")

	// Gate errors
	ErrGateUnresponsive = errors.New("gate unresponsive")

	// Detection errors
	ErrDetectionSuppressed = errors.New("detection suppressed")
	ErrInvalidPlate        = errors.New("invalid license plate")

	// Vehicle errors
	ErrVehicleNotFound = errors.New("vehicle not found")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

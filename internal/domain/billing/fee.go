package billing

import (
	"errors"
	"time"
)

var ErrNegativeDuration = errors.New("exit time precedes entry time")

// CalculateFee is the pure fee function: (entry, exit, rate, extension) → amount.
//
// Whole elapsed minutes are counted (floor), the rate's free minutes plus any
// admin-granted extension are deducted, and the remainder is billed in full
// hours (rounded up) capped at the snapshot's daily maximum. A cap of zero
// means uncapped.
//
// A negative duration is a validation error, not a zero fee: the usual causes
// (clock skew, malformed timestamps) should surface, not be masked.
func CalculateFee(entryTime, exitTime time.Time, rate *RateSnapshot, extensionMinutes int) (Money, error) {
	if exitTime.Before(entryTime) {
		return Money{}, ErrNegativeDuration
	}

	durationMinutes := int(exitTime.Sub(entryTime) / time.Minute)

	billableMinutes := durationMinutes - rate.FreeMinutes() - extensionMinutes
	if billableMinutes <= 0 {
		return Zero(), nil
	}

	billableHours := int64((billableMinutes + 59) / 60)
	fee := billableHours * rate.HourlyCents()
	if maxDaily := rate.MaxDailyCents(); maxDaily > 0 && fee > maxDaily {
		fee = maxDaily
	}

	return NewMoney(fee)
}

package session

type Status string

const (
	StatusOpen            Status = "open"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusClosed          Status = "closed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusAwaitingPayment, StatusClosed:
		return true
	default:
		return false
	}
}

type PaymentState string

const (
	PaymentPending PaymentState = "pending"
	PaymentPaid    PaymentState = "paid"
	PaymentFree    PaymentState = "free"
)

func (p PaymentState) String() string {
	return string(p)
}

func (p PaymentState) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFree:
		return true
	default:
		return false
	}
}

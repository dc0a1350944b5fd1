package response

import (
	"time"

	"parkgate/internal/domain/payment"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gopkg.in/guregu/null.v4"
)

type PaymentAttemptResponse struct {
	ID             uuid.UUID   `json:"id"`
	SessionID      uuid.UUID   `json:"sessionId"`
	AmountCents    int64       `json:"amountCents"`
	IdempotencyKey string      `json:"idempotencyKey"`
	GatewayRef     null.String `json:"gatewayRef"`
	Status         string      `json:"status"`
	RequestedAt    time.Time   `json:"requestedAt"`
	SettledAt      null.Time   `json:"settledAt"`
	FailureReason  null.String `json:"failureReason"`
}

func FromPaymentAttemptView(view *queries.PaymentAttemptView) *PaymentAttemptResponse {
	var resp PaymentAttemptResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromPaymentAttempt(a *payment.Attempt) *PaymentAttemptResponse {
	return &PaymentAttemptResponse{
		ID:             a.ID(),
		SessionID:      a.SessionID(),
		AmountCents:    a.AmountCents(),
		IdempotencyKey: a.IdempotencyKey(),
		GatewayRef:     null.StringFromPtr(a.GatewayRef()),
		Status:         string(a.Status()),
		RequestedAt:    a.RequestedAt(),
		SettledAt:      null.TimeFromPtr(a.SettledAt()),
		FailureReason:  null.StringFromPtr(a.FailureReason()),
	}
}

package request

import "github.com/google/uuid"

// Webhook bodies posted by the payment provider.
type PaymentConfirmationRequest struct {
	SessionID   uuid.UUID `json:"session_id" binding:"required"`
	AmountCents int64     `json:"amount_cents" binding:"required,gt=0"`
	GatewayRef  string    `json:"gateway_ref"`
}

type PaymentFailureRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

package paygw

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"parkgate/internal/domain/payment"
	"parkgate/internal/pkg/config"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
)

// chargeRequest is the body sent to the external payment provider. The
// idempotency key also travels as a header so the provider can dedupe
// before parsing.
type chargeRequest struct {
	SessionID      string `json:"session_id"`
	Plate          string `json:"plate"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

// HTTPGateway submits charge requests to the payment provider. Settlement is
// asynchronous: the provider calls back on the webhook endpoints, this client
// only initiates.
type HTTPGateway struct {
	client      *http.Client
	providerURL string
}

var _ commands.PaymentGateway = (*HTTPGateway)(nil)

func NewHTTPGateway(cfg config.PaymentConfig) *HTTPGateway {
	return &HTTPGateway{
		client:      &http.Client{Timeout: cfg.RequestTimeout},
		providerURL: cfg.ProviderURL,
	}
}

func (g *HTTPGateway) RequestPayment(ctx context.Context, attempt *payment.Attempt, plate string) error {
	body, err := json.Marshal(chargeRequest{
		SessionID:      attempt.SessionID().String(),
		Plate:          plate,
		AmountCents:    attempt.AmountCents(),
		Currency:       "EUR",
		IdempotencyKey: attempt.IdempotencyKey(),
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal charge request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.providerURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "failed to build charge request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", attempt.IdempotencyKey())

	resp, err := g.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "payment provider unreachable")
	}
	defer resp.Body.Close()

	// 409 means the provider already holds this key; the charge is in
	// flight and the webhook will settle it.
	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errs.Newf("payment provider returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

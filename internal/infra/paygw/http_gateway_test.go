//go:build unit

package paygw_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/domain/payment"
	"parkgate/internal/infra/paygw"
	"parkgate/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttempt(t *testing.T) *payment.Attempt {
	t.Helper()
	fee, err := billing.NewMoney(200)
	require.NoError(t, err)
	return payment.NewAttempt(uuid.New(), fee, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
}

func TestHTTPGateway_RequestPayment(t *testing.T) {
	t.Run("sends charge with idempotency key", func(t *testing.T) {
		attempt := newAttempt(t)

		var gotKey string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("Idempotency-Key")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		g := paygw.NewHTTPGateway(config.PaymentConfig{ProviderURL: srv.URL, RequestTimeout: time.Second})
		err := g.RequestPayment(context.Background(), attempt, "AB123CD")

		require.NoError(t, err)
		assert.Equal(t, attempt.IdempotencyKey(), gotKey)
		assert.Equal(t, "AB123CD", gotBody["plate"])
		assert.Equal(t, float64(200), gotBody["amount_cents"])
	})

	t.Run("treats duplicate key conflict as success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer srv.Close()

		g := paygw.NewHTTPGateway(config.PaymentConfig{ProviderURL: srv.URL, RequestTimeout: time.Second})
		err := g.RequestPayment(context.Background(), newAttempt(t), "AB123CD")

		assert.NoError(t, err)
	})

	t.Run("surfaces provider errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unknown merchant", http.StatusBadRequest)
		}))
		defer srv.Close()

		g := paygw.NewHTTPGateway(config.PaymentConfig{ProviderURL: srv.URL, RequestTimeout: time.Second})
		err := g.RequestPayment(context.Background(), newAttempt(t), "AB123CD")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
	})
}

package api

import (
	"net/http"

	"parkgate/internal/domain/billing"
	reqdto "parkgate/internal/handler/dto/request"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	sessionCommands commands.SessionCommands
	paymentCommands commands.PaymentCommands
}

func NewPaymentHandler(sessionCommands commands.SessionCommands, paymentCommands commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{
		sessionCommands: sessionCommands,
		paymentCommands: paymentCommands,
	}
}

// @Summary Payment confirmation webhook
// @Description Provider callback confirming a charge. Settles the session and
// @Description opens the exit gate. Duplicate confirmations replay the result.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentConfirmationRequest true "Confirmation"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /payments/webhooks/confirmation [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req reqdto.PaymentConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	amount, err := moneyFromCents(req.AmountCents)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid amount",
		})
		return
	}

	result, err := h.sessionCommands.ConfirmPayment(c.Request.Context(), req.SessionID, amount, req.GatewayRef)
	if err != nil {
		h.writePaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSession(result.Session))
}

// @Summary Payment failure webhook
// @Description Provider callback for a declined or errored charge. The session
// @Description stays awaiting payment so the driver can retry.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentFailureRequest true "Failure"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /payments/webhooks/failure [post]
func (h *PaymentHandler) Fail(c *gin.Context) {
	var req reqdto.PaymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.sessionCommands.FailPayment(c.Request.Context(), req.SessionID, req.Reason); err != nil {
		h.writePaymentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Re-request payment
// @Description Resubmit the charge for an awaiting session (kiosk retry). The
// @Description deterministic idempotency key prevents a double charge.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 202 {object} resdto.PaymentAttemptResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/sessions/{id}/request [post]
func (h *PaymentHandler) Request(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID format",
		})
		return
	}

	attempt, err := h.paymentCommands.RequestPayment(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrPaymentRequestFailed):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Payment provider rejected the request",
			})
		default:
			h.writePaymentError(c, err)
		}
		return
	}

	c.JSON(http.StatusAccepted, resdto.FromPaymentAttempt(attempt))
}

func moneyFromCents(cents int64) (billing.Money, error) {
	return billing.NewMoney(cents)
}

func (h *PaymentHandler) writePaymentError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found",
		})
	case errs.Is(err, errs.ErrAmountMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Confirmed amount does not match the session fee",
		})
	case errs.Is(err, errs.ErrSessionAlreadyClosed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Session is already closed",
		})
	case errs.Is(err, errs.ErrSessionNotAwaitingPayment):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Session is not awaiting payment",
		})
	case errs.Is(err, errs.ErrPaymentAttemptUnknown):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No payment attempt for session",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

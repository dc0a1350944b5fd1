//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/domain/session"
	"parkgate/internal/handler/api"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
	"parkgate/tests/common/httptest"
	commandsmock "parkgate/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockSessions *commandsmock.MockSessionCommands
	handler      *api.PaymentHandler
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessions = commandsmock.NewMockSessionCommands(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockSessions, nil)

	s.router.POST("/payments/webhooks/confirmation", s.handler.Confirm)
	s.router.POST("/payments/webhooks/failure", s.handler.Fail)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) settledSession(sessionID uuid.UUID, fee billing.Money) *session.Session {
	entryTime := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	sess, err := session.NewSession("AB123CD", entryTime, "entry-1", "", uuid.New())
	s.Require().NoError(err)
	s.Require().NoError(sess.AwaitPayment(entryTime.Add(65*time.Minute), "exit-1", "", fee))
	s.Require().NoError(sess.ClosePaid(fee, entryTime.Add(70*time.Minute)))
	_ = sessionID
	return sess
}

func (s *PaymentHandlerTestSuite) TestConfirm() {
	url := "/payments/webhooks/confirmation"
	sessionID := uuid.New()
	fee, err := billing.NewMoney(200)
	s.Require().NoError(err)

	body := map[string]any{
		"session_id":   sessionID.String(),
		"amount_cents": 200,
		"gateway_ref":  "txn_9f2c",
	}

	s.Run("success: confirmation settles the session", func() {
		s.mockSessions.EXPECT().ConfirmPayment(gomock.Any(), sessionID, fee, "txn_9f2c").
			Return(&commands.PaymentResult{Session: s.settledSession(sessionID, fee)}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var response resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("closed", response.Status)
		s.Equal("paid", response.PaymentState)
	})

	s.Run("success: duplicate confirmation is replayed", func() {
		s.mockSessions.EXPECT().ConfirmPayment(gomock.Any(), sessionID, fee, "txn_9f2c").
			Return(&commands.PaymentResult{Session: s.settledSession(sessionID, fee), Replayed: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var response resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("closed", response.Status)
	})

	s.Run("error: 422 on amount mismatch", func() {
		s.mockSessions.EXPECT().ConfirmPayment(gomock.Any(), sessionID, fee, "txn_9f2c").
			Return(nil, errs.ErrAmountMismatch).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "does not match")
	})

	s.Run("error: 404 for unknown session", func() {
		s.mockSessions.EXPECT().ConfirmPayment(gomock.Any(), sessionID, fee, "txn_9f2c").
			Return(nil, errs.ErrSessionNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("error: 400 on missing amount", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"session_id": sessionID.String()}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *PaymentHandlerTestSuite) TestFail() {
	url := "/payments/webhooks/failure"
	sessionID := uuid.New()

	body := map[string]any{
		"session_id": sessionID.String(),
		"reason":     "card_declined",
	}

	s.Run("success: failure is recorded with 204", func() {
		s.mockSessions.EXPECT().FailPayment(gomock.Any(), sessionID, "card_declined").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 409 when session is not awaiting payment", func() {
		s.mockSessions.EXPECT().FailPayment(gomock.Any(), sessionID, "card_declined").
			Return(errs.ErrSessionNotAwaitingPayment).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "not awaiting payment")
	})
}

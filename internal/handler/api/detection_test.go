//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"parkgate/internal/domain/detection"
	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/domain/session"
	"parkgate/internal/handler/api"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
	"parkgate/tests/common/httptest"
	commandsmock "parkgate/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DetectionHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockDetectionCommands
	handler      *api.DetectionHandler
}

func (s *DetectionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockDetectionCommands(s.mockCtrl)
	s.handler = api.NewDetectionHandler(s.mockCommands)

	s.router.POST("/detections", s.handler.Ingest)
}

func (s *DetectionHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestDetectionHandlerSuite(t *testing.T) {
	suite.Run(t, new(DetectionHandlerTestSuite))
}

func (s *DetectionHandlerTestSuite) detectionBody() map[string]any {
	return map[string]any{
		"plate":       "AB-123-CD",
		"gate_id":     "entry-1",
		"direction":   "entry",
		"detected_at": time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"confidence":  95,
		"image_ref":   "s3://frames/abc.jpg",
	}
}

func (s *DetectionHandlerTestSuite) TestIngest() {
	url := "/detections"

	s.Run("success: entry read opens a session", func() {
		entryTime := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
		sess, err := session.NewSession("AB123CD", entryTime, "entry-1", "s3://frames/abc.jpg", uuid.New())
		s.Require().NoError(err)

		s.mockCommands.EXPECT().Ingest(gomock.Any(), gomock.Any()).
			Return(&commands.IngestResult{
				Outcome: detection.OutcomeAccepted,
				Entry: &commands.EntryResult{
					Session: sess,
					Gate: &commands.GateDecision{
						GateID: "entry-1", Action: gatecmd.ActionOpen, Delivered: true,
					},
				},
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.detectionBody(), "")

		var response resdto.IngestResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(string(detection.OutcomeAccepted), response.Outcome)
		s.Require().NotNil(response.Session)
		s.Equal("AB123CD", response.Session.Plate)

		wantGate := &resdto.GateDecisionResponse{GateID: "entry-1", Action: "open", Delivered: true}
		s.Empty(cmp.Diff(wantGate, response.Gate))
	})

	s.Run("success: suppressed read returns the outcome only", func() {
		s.mockCommands.EXPECT().Ingest(gomock.Any(), gomock.Any()).
			Return(&commands.IngestResult{Outcome: detection.OutcomeDebounced}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.detectionBody(), "")

		var response resdto.IngestResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(string(detection.OutcomeDebounced), response.Outcome)
		s.Nil(response.Session)
	})

	s.Run("error: 409 when plate already has an active session", func() {
		s.mockCommands.EXPECT().Ingest(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrDuplicateActiveSession).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.detectionBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "active session")
	})

	s.Run("error: 404 on exit with no active session", func() {
		body := s.detectionBody()
		body["direction"] = "exit"
		s.mockCommands.EXPECT().Ingest(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrNoActiveSession).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "No active session")
	})

	s.Run("error: 503 when no rate is configured", func() {
		s.mockCommands.EXPECT().Ingest(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrNoCurrentRate).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.detectionBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "rate")
	})

	s.Run("error: 400 on unknown direction", func() {
		body := s.detectionBody()
		body["direction"] = "sideways"

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 400 on missing plate", func() {
		body := s.detectionBody()
		delete(body, "plate")

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

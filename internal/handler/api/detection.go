package api

import (
	"net/http"

	"parkgate/internal/handler/dto/request"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type DetectionHandler struct {
	detectionCommands commands.DetectionCommands
}

func NewDetectionHandler(detectionCommands commands.DetectionCommands) *DetectionHandler {
	return &DetectionHandler{
		detectionCommands: detectionCommands,
	}
}

// @Summary Ingest plate detection
// @Description Run a camera read through deduplication and the session lifecycle
// @Tags detections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.DetectionRequest true "Detection event"
// @Success 200 {object} resdto.IngestResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /detections [post]
func (h *DetectionHandler) Ingest(c *gin.Context) {
	var req request.DetectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.detectionCommands.Ingest(c.Request.Context(), commands.IngestInput{
		Plate:      req.Plate,
		GateID:     req.GateID,
		Direction:  req.Direction,
		DetectedAt: req.DetectedAt,
		Confidence: req.Confidence,
		ImageRef:   req.ImageRef,
	})
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInvalidDirection):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid detection direction",
			})
		case errs.Is(err, errs.ErrInvalidPlate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid license plate",
			})
		case errs.Is(err, errs.ErrDuplicateActiveSession):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Plate already has an active session",
			})
		case errs.Is(err, errs.ErrNoActiveSession):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No active session for plate",
			})
		case errs.Is(err, errs.ErrNoCurrentRate):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "No parking rate configured",
			})
		case errs.Is(err, errs.ErrNegativeDuration):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Exit time precedes entry time",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromIngestResult(result))
}

package api

import (
	"net/http"

	reqdto "parkgate/internal/handler/dto/request"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type RateHandler struct {
	rateCommands commands.RateCommands
	rateQueries  queries.RateQueries
}

func NewRateHandler(rateCommands commands.RateCommands, rateQueries queries.RateQueries) *RateHandler {
	return &RateHandler{
		rateCommands: rateCommands,
		rateQueries:  rateQueries,
	}
}

// @Summary Current rate
// @Description Get the rate snapshot new sessions bind to
// @Tags rates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.RateResponse
// @Failure 404 {object} map[string]string
// @Router /rates/current [get]
func (h *RateHandler) Current(c *gin.Context) {
	view, err := h.rateQueries.Current(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No rate configured",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromRateView(view))
}

// @Summary Rate history
// @Description List rate snapshots, newest first
// @Tags rates
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of snapshots"
// @Success 200 {array} resdto.RateResponse
// @Router /rates [get]
func (h *RateHandler) History(c *gin.Context) {
	limit := parseLimit(c)

	views, err := h.rateQueries.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.RateResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromRateView(view)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Update rate
// @Description Supersede the current rate with a new snapshot (admin only).
// @Description Open sessions keep billing against the snapshot bound at entry.
// @Tags rates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdateRateRequest true "New rate"
// @Success 201 {object} resdto.RateResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /rates [put]
func (h *RateHandler) Update(c *gin.Context) {
	var req reqdto.UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	snapshot, err := h.rateCommands.UpdateRate(c.Request.Context(), req.HourlyCents, req.FreeMinutes, req.MaxDailyCents)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInvalidRate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid rate parameters",
			})
		case errs.Is(err, errs.ErrDatabaseOperationFailed):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromRateSnapshot(snapshot))
}

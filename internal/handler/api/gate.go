package api

import (
	"net/http"

	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type GateHandler struct {
	gateQueries queries.GateQueries
}

func NewGateHandler(gateQueries queries.GateQueries) *GateHandler {
	return &GateHandler{gateQueries: gateQueries}
}

// @Summary Recent gate commands
// @Description Audit trail of recent gate commands across all gates
// @Tags gates
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of commands"
// @Success 200 {array} resdto.GateCommandResponse
// @Router /gate-commands [get]
func (h *GateHandler) ListRecent(c *gin.Context) {
	limit := parseLimit(c)

	views, err := h.gateQueries.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.GateCommandResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromGateCommandView(view)
	}
	c.JSON(http.StatusOK, response)
}

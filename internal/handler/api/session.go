package api

import (
	"net/http"
	"strconv"

	reqdto "parkgate/internal/handler/dto/request"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultListLimit = 50

type SessionHandler struct {
	sessionCommands commands.SessionCommands
	sessionQueries  queries.SessionQueries
	paymentQueries  queries.PaymentQueries
	gateQueries     queries.GateQueries
}

func NewSessionHandler(
	sessionCommands commands.SessionCommands,
	sessionQueries queries.SessionQueries,
	paymentQueries queries.PaymentQueries,
	gateQueries queries.GateQueries,
) *SessionHandler {
	return &SessionHandler{
		sessionCommands: sessionCommands,
		sessionQueries:  sessionQueries,
		paymentQueries:  paymentQueries,
		gateQueries:     gateQueries,
	}
}

// @Summary List active sessions
// @Description List currently open or awaiting-payment sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of sessions"
// @Success 200 {array} resdto.SessionListResponse
// @Failure 401 {object} map[string]string
// @Router /sessions [get]
func (h *SessionHandler) ListActive(c *gin.Context) {
	limit := parseLimit(c)

	items, err := h.sessionQueries.ListActive(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SessionListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromSessionListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get session
// @Description Get a session by ID
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	view, err := h.sessionQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionView(view))
}

// @Summary Session history for a plate
// @Description List past and present sessions for a license plate
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param plate path string true "License plate"
// @Param limit query int false "Maximum number of sessions"
// @Success 200 {array} resdto.SessionListResponse
// @Failure 401 {object} map[string]string
// @Router /sessions/history/{plate} [get]
func (h *SessionHandler) HistoryByPlate(c *gin.Context) {
	plate := c.Param("plate")
	limit := parseLimit(c)

	items, err := h.sessionQueries.HistoryByPlate(c.Request.Context(), plate, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SessionListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromSessionListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Grant extension
// @Description Add free minutes to an active session and recompute its fee
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.GrantExtensionRequest true "Extension"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/extension [post]
func (h *SessionHandler) GrantExtension(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req reqdto.GrantExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	s, err := h.sessionCommands.GrantExtension(c.Request.Context(), id, req.Minutes)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSession(s))
}

// @Summary Force close session
// @Description Close a stuck session free of charge (operator escape hatch)
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.ForceCloseRequest true "Reason"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/force-close [post]
func (h *SessionHandler) ForceClose(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req reqdto.ForceCloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	s, err := h.sessionCommands.ForceClose(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSession(s))
}

// @Summary Payment attempts for a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {array} resdto.PaymentAttemptResponse
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/payments [get]
func (h *SessionHandler) ListPayments(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	views, err := h.paymentQueries.ListBySession(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.PaymentAttemptResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromPaymentAttemptView(view)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Gate commands for a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {array} resdto.GateCommandResponse
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/gate-commands [get]
func (h *SessionHandler) ListGateCommands(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	views, err := h.gateQueries.ListBySession(c.Request.Context(), id)
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

func (h *SessionHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionHandler) writeSessionError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found",
		})
	case errs.Is(err, errs.ErrSessionAlreadyClosed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Session is already closed",
		})
	case errs.Is(err, errs.ErrSessionNotAwaitingPayment):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Session is not awaiting payment",
		})
	case errs.Is(err, errs.ErrRateNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Rate snapshot for session is missing",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func parseLimit(c *gin.Context) int32 {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return int32(limit)
}

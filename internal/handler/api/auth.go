package api

import (
	"net/http"

	"parkgate/internal/domain/operator"
	reqdto "parkgate/internal/handler/dto/request"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/handler/middleware"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands    commands.AuthCommands
	operatorQueries queries.OperatorQueries
}

func NewAuthHandler(authCommands commands.AuthCommands, operatorQueries queries.OperatorQueries) *AuthHandler {
	return &AuthHandler{
		authCommands:    authCommands,
		operatorQueries: operatorQueries,
	}
}

// @Summary Operator login
// @Description Authenticate an operator and issue a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Credentials"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
		case errs.Is(err, commands.ErrAuthenticationFailed):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid email or password",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{
		Token:      result.Token,
		OperatorID: result.OperatorID,
		Role:       result.Role.String(),
	})
}

// @Summary Current operator
// @Description Get the authenticated operator's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.OperatorResponse
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	operatorID, ok := middleware.GetOperatorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.operatorQueries.GetByID(c.Request.Context(), operatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromOperatorView(view))
}

// @Summary Register operator
// @Description Create a new operator account (admin only)
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RegisterOperatorRequest true "Operator details"
// @Success 201 {object} resdto.OperatorResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/operators [post]
func (h *AuthHandler) RegisterOperator(c *gin.Context) {
	var req reqdto.RegisterOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	role, err := operator.NewRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid role",
		})
		return
	}

	op, err := h.authCommands.RegisterOperator(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrDuplicateOperator):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Operator with this email already exists",
			})
		case errs.Is(err, commands.ErrAuthenticationFailed):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid operator details",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromOperator(op))
}

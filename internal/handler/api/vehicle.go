package api

import (
	"net/http"

	reqdto "parkgate/internal/handler/dto/request"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/pkg/errs"
	plateutil "parkgate/internal/pkg/plate"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	vehicleCommands commands.VehicleCommands
	vehicleQueries  queries.VehicleQueries
}

func NewVehicleHandler(vehicleCommands commands.VehicleCommands, vehicleQueries queries.VehicleQueries) *VehicleHandler {
	return &VehicleHandler{
		vehicleCommands: vehicleCommands,
		vehicleQueries:  vehicleQueries,
	}
}

// @Summary Register vehicle
// @Description Register a known vehicle with its owner details
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RegisterVehicleRequest true "Vehicle"
// @Success 201 {object} resdto.VehicleResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /vehicles [post]
func (h *VehicleHandler) Register(c *gin.Context) {
	var req reqdto.RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	v, err := h.vehicleCommands.Register(c.Request.Context(), req.Plate, req.OwnerName, req.OwnerContact)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrInvalidPlate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid license plate",
			})
		case errs.Is(err, commands.ErrDuplicateVehicle):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Vehicle already registered",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromVehicle(v))
}

// @Summary Get vehicle
// @Description Look up an active vehicle by plate
// @Tags vehicles
// @Produce json
// @Security BearerAuth
// @Param plate path string true "License plate"
// @Success 200 {object} resdto.VehicleResponse
// @Failure 404 {object} map[string]string
// @Router /vehicles/{plate} [get]
func (h *VehicleHandler) GetByPlate(c *gin.Context) {
	plate := plateutil.Normalize(c.Param("plate"))

	view, err := h.vehicleQueries.GetByPlate(c.Request.Context(), plate)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Vehicle not found",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromVehicleView(view))
}

// @Summary Update vehicle owner
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plate path string true "License plate"
// @Param request body reqdto.UpdateVehicleOwnerRequest true "Owner details"
// @Success 200 {object} resdto.VehicleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /vehicles/{plate} [put]
func (h *VehicleHandler) UpdateOwner(c *gin.Context) {
	var req reqdto.UpdateVehicleOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	v, err := h.vehicleCommands.UpdateOwner(c.Request.Context(), c.Param("plate"), req.OwnerName, req.OwnerContact)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrVehicleNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Vehicle not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromVehicle(v))
}

// @Summary Deactivate vehicle
// @Description Retire a vehicle registration. Deactivation is idempotent.
// @Tags vehicles
// @Security BearerAuth
// @Param plate path string true "License plate"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /vehicles/{plate} [delete]
func (h *VehicleHandler) Deactivate(c *gin.Context) {
	if err := h.vehicleCommands.Deactivate(c.Request.Context(), c.Param("plate")); err != nil {
		switch {
		case errs.Is(err, errs.ErrVehicleNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Vehicle not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

package statistics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"frota/pkg/apperrors"
	"frota/pkg/security"
)

type StatsHandler struct {
	Service *StatsService
}

func NewStatsHandler(service *StatsService) *StatsHandler {
	return &StatsHandler{Service: service}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/vehicles/:id/statistics", h.GetVehicleStatistics)
	router.GET("/regions/:id/statistics", h.GetRegionStatistics)
}

func (h *StatsHandler) GetVehicleStatistics(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	period, err := NewPeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period", "details": err.Error()})
		return
	}

	stats, err := h.Service.VehicleStatistics(actor, vehicleID, period)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to compute vehicle statistics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) GetRegionStatistics(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	regionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid region ID"})
		return
	}

	period, err := NewPeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period", "details": err.Error()})
		return
	}

	stats, err := h.Service.RegionStatistics(actor, regionID, period)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to compute region statistics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

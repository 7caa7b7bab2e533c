package vehicles

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/models"
	"frota/pkg/security"
)

type CreateVehicleRequest struct {
	Plate    string    `json:"plate" binding:"required"`
	Model    string    `json:"model" binding:"required"`
	Type     string    `json:"type" binding:"required"`
	Year     int       `json:"year"`
	Mileage  int       `json:"mileage"`
	RegionID uuid.UUID `json:"region_id" binding:"required"`
}

// RegionLookup resolves a region id to its state grouping for policy checks.
type RegionLookup interface {
	GetRegion(id uuid.UUID) (*models.Region, error)
}

type VehicleHandler struct {
	Repository VehicleRepository
	Regions    RegionLookup
	Policy     *accesspolicy.Engine
}

func NewVehicleHandler(r VehicleRepository, regions RegionLookup, policy *accesspolicy.Engine) *VehicleHandler {
	return &VehicleHandler{Repository: r, Regions: regions, Policy: policy}
}

func (h *VehicleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/vehicles", h.GetVehicles)
	router.GET("/vehicles/:id", h.GetVehicle)
	router.POST("/vehicles", h.CreateVehicle)
}

func (h *VehicleHandler) GetVehicles(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	filter := VehicleFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
	}

	vehicles, err := h.Repository.GetVehicles(filter, h.Policy.ScopeFilter(actor))
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list vehicles"})
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	vehicle, err := h.Repository.GetVehicle(id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to get vehicle", "details": err.Error()})
		return
	}

	ref := accesspolicy.RegionRef{ID: vehicle.Region.ID, StateID: vehicle.Region.StateID}
	if !h.Policy.CanView(actor, ref) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	region, err := h.Regions.GetRegion(req.RegionID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to resolve region", "details": err.Error()})
		return
	}

	// Creating a vehicle in a region is a mutation on that region.
	ref := accesspolicy.RegionRef{ID: region.ID, StateID: region.StateID}
	if !h.Policy.CanMutate(actor, ref) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		return
	}

	vehicle, err := h.Repository.PersistVehicle(req, actor.StaffID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to create vehicle", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

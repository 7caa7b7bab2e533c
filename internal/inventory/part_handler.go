package inventory

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/models"
	"frota/pkg/roles"
	"frota/pkg/security"
)

type PartHandler struct {
	Repository PartRepository
	Usages     *UsageService
	Policy     *accesspolicy.Engine
}

func NewPartHandler(r PartRepository, usages *UsageService, policy *accesspolicy.Engine) *PartHandler {
	return &PartHandler{Repository: r, Usages: usages, Policy: policy}
}

func (h *PartHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/parts", h.GetParts)
	router.GET("/parts/low-stock", h.GetLowStockParts)
	router.POST("/parts", security.RequireLevel(roles.SupervisorLevel), h.CreatePart)
	router.GET("/work-orders/:id/parts", h.GetOrderUsages)
	router.POST("/work-orders/:id/parts", h.ConsumePart)
	router.DELETE("/part-usages/:id", h.ReleaseUsage)
}

// Parts carry no region, so the catalog is all-or-nothing: a scoped actor
// sees the whole list and an out-of-scope actor sees an empty one.
func (h *PartHandler) catalogVisible(c *gin.Context) (bool, bool) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		return false, false
	}
	return h.Policy.ScopeFilter(actor).Kind != accesspolicy.ScopeNone, true
}

func (h *PartHandler) GetParts(c *gin.Context) {
	visible, ok := h.catalogVisible(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}
	if !visible {
		c.JSON(http.StatusOK, []models.Part{})
		return
	}

	filter := PartFilter{
		Code:   c.Query("code"),
		Search: c.Query("search"),
	}

	parts, err := h.Repository.GetParts(filter)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list parts"})
		return
	}

	c.JSON(http.StatusOK, parts)
}

func (h *PartHandler) GetLowStockParts(c *gin.Context) {
	visible, ok := h.catalogVisible(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}
	if !visible {
		c.JSON(http.StatusOK, []models.Part{})
		return
	}

	parts, err := h.Repository.GetLowStockParts()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list low-stock parts"})
		return
	}

	c.JSON(http.StatusOK, parts)
}

func (h *PartHandler) CreatePart(c *gin.Context) {
	var req CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.StockQuantity < 0 || req.MinimumStock < 0 || req.UnitCost < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantities and cost must not be negative"})
		return
	}

	part, err := h.Repository.PersistPart(req)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to create part", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, part)
}

func (h *PartHandler) GetOrderUsages(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work order ID"})
		return
	}

	usages, err := h.Usages.UsagesForOrder(orderID, actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to list part usages", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, usages)
}

func (h *PartHandler) ConsumePart(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work order ID"})
		return
	}

	var req ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	usage, err := h.Usages.Consume(orderID, req, actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to consume part", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, usage)
}

func (h *PartHandler) ReleaseUsage(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	usageID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid part usage ID"})
		return
	}

	if err := h.Usages.Release(usageID, actor); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to release part usage", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Part usage released and stock restored"})
}

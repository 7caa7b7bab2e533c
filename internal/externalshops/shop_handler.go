package externalshops

import (
	"errors"
	"io"
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

type ShopHandler struct {
	Repository ShopRepository
	Services   *ShopService
	Policy     *accesspolicy.Engine
}

func NewShopHandler(r ShopRepository, services *ShopService, policy *accesspolicy.Engine) *ShopHandler {
	return &ShopHandler{Repository: r, Services: services, Policy: policy}
}

func (h *ShopHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/external-shops", h.GetShops)
	router.GET("/external-shops/:id", h.GetShop)
	router.POST("/external-shops", security.RequireLevel(roles.SupervisorLevel), h.CreateShop)
	router.PUT("/external-shops/:id", security.RequireLevel(roles.SupervisorLevel), h.UpdateShop)
	router.DELETE("/external-shops/:id", security.RequireLevel(roles.SupervisorLevel), h.DeleteShop)
	router.GET("/work-orders/:id/external-services", h.GetOrderServices)
	router.POST("/work-orders/:id/external-services", h.SendService)
	router.PATCH("/external-services/:id/return", h.ReturnService)
	router.DELETE("/external-services/:id", h.RemoveService)
}

// Shops carry no region, so the registry is all-or-nothing: a scoped
// actor sees every shop and an out-of-scope actor sees none.
func (h *ShopHandler) registryVisible(c *gin.Context) (bool, bool) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		return false, false
	}
	return h.Policy.ScopeFilter(actor).Kind != accesspolicy.ScopeNone, true
}

func (h *ShopHandler) GetShops(c *gin.Context) {
	visible, ok := h.registryVisible(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}
	if !visible {
		c.JSON(http.StatusOK, []models.ExternalShop{})
		return
	}

	shops, err := h.Repository.GetShops()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list external shops"})
		return
	}

	c.JSON(http.StatusOK, shops)
}

func (h *ShopHandler) GetShop(c *gin.Context) {
	visible, ok := h.registryVisible(c)
	if !ok || !visible {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		return
	}

	shopID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid external shop ID"})
		return
	}

	shop, err := h.Repository.GetShop(shopID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to get external shop", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *ShopHandler) CreateShop(c *gin.Context) {
	var req ShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	shop, err := h.Repository.PersistShop(req)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to create external shop", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, shop)
}

func (h *ShopHandler) UpdateShop(c *gin.Context) {
	shopID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid external shop ID"})
		return
	}

	var req ShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	shop, err := h.Repository.UpdateShop(shopID, req)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to update external shop", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *ShopHandler) DeleteShop(c *gin.Context) {
	shopID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid external shop ID"})
		return
	}

	if err := h.Repository.DeleteShop(shopID); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to delete external shop", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "External shop removed"})
}

func (h *ShopHandler) GetOrderServices(c *gin.Context) {
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

	services, err := h.Services.ServicesForOrder(orderID, actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to list external services", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ShopHandler) SendService(c *gin.Context) {
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

	var req SendServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	service, err := h.Services.Send(orderID, req, actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to send external service", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ShopHandler) ReturnService(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	serviceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid external service ID"})
		return
	}

	// The return date is optional and so is the body itself.
	var req ReturnServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	service, err := h.Services.Return(serviceID, req.ReturnedAt, actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to return external service", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, service)
}

func (h *ShopHandler) RemoveService(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	serviceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid external service ID"})
		return
	}

	if err := h.Services.Remove(serviceID, actor); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to remove external service", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "External service removed"})
}

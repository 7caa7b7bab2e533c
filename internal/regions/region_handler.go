package regions

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RegionHandler struct {
	Repository *RegionRepository
}

func NewRegionHandler(r *RegionRepository) *RegionHandler {
	return &RegionHandler{Repository: r}
}

func (h *RegionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/regions", h.GetRegions)
	router.GET("/states", h.GetStates)
}

func (h *RegionHandler) GetRegions(c *gin.Context) {
	regions, err := h.Repository.GetRegions()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list regions"})
		return
	}

	c.JSON(http.StatusOK, regions)
}

func (h *RegionHandler) GetStates(c *gin.Context) {
	states, err := h.Repository.GetStates()
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list states"})
		return
	}

	c.JSON(http.StatusOK, states)
}

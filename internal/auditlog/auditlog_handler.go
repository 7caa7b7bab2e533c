package auditlog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"frota/pkg/auditlog"
	"frota/pkg/roles"
	"frota/pkg/security"
)

type AuditLogHandler struct {
	AuditLog *auditlog.Auditlog
}

func NewHandler(log *auditlog.Auditlog) *AuditLogHandler {
	return &AuditLogHandler{AuditLog: log}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit/:resource_type/:id", security.RequireLevel(roles.ManagerLevel), h.GetResourceLog)
}

func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	resourceType := c.Param("resource_type")
	resourceID := c.Param("id")

	entries, err := h.AuditLog.ResourceLog(resourceID, resourceType)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to read audit log"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

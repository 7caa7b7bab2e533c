package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/auditlog"
	"frota/pkg/roles"
	"frota/pkg/security"
)

type StaffHandler struct {
	Repository StaffRepository
	Policy     *accesspolicy.Engine
	AuditLog   *auditlog.Auditlog
}

func NewStaffHandler(repository StaffRepository, policy *accesspolicy.Engine, auditLog *auditlog.Auditlog) *StaffHandler {
	return &StaffHandler{Repository: repository, Policy: policy, AuditLog: auditLog}
}

func (h *StaffHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/staff", h.GetStaffList)
	router.GET("/staff/:id", h.GetStaff)
	router.POST("/staff", security.RequireLevel(roles.ManagerLevel), h.CreateStaff)
	router.DELETE("/staff/:id", security.RequireLevel(roles.ManagerLevel), h.DeactivateStaff)
}

func (h *StaffHandler) GetStaffList(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	members, err := h.Repository.GetStaffList(h.Policy.ScopeFilter(actor))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list staff members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

func (h *StaffHandler) GetStaff(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	member, err := h.Repository.GetStaff(staffID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to get staff member", "details": err.Error()})
		return
	}

	ref := accesspolicy.RegionRef{ID: member.Region.ID, StateID: member.Region.StateID}
	if !h.Policy.CanView(actor, ref) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *StaffHandler) CreateStaff(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to hash password"})
		return
	}

	member, err := h.Repository.PersistStaff(req, hashed)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to create staff member", "details": err.Error()})
		return
	}

	if h.AuditLog != nil {
		go h.AuditLog.Log("create", actor.StaffID, map[string]interface{}{
			"email":   member.Email,
			"role_id": req.RoleID,
		}, member)
	}

	c.JSON(http.StatusCreated, member)
}

func (h *StaffHandler) DeactivateStaff(c *gin.Context) {
	actor, ok := security.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing actor"})
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	member, err := h.Repository.GetStaff(staffID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to get staff member", "details": err.Error()})
		return
	}

	if err := h.Repository.DeactivateStaff(staffID); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": "Unable to deactivate staff member", "details": err.Error()})
		return
	}

	if h.AuditLog != nil {
		go h.AuditLog.Log("deactivate", actor.StaffID, map[string]interface{}{
			"email": member.Email,
		}, member)
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

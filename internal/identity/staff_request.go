package identity

import "github.com/google/uuid"

type CreateStaffRequest struct {
	AuthUserID   string     `json:"auth_user_id"`
	Name         string     `json:"name" binding:"required"`
	Email        string     `json:"email" binding:"required"`
	Registration string     `json:"registration"`
	Password     string     `json:"password" binding:"required"`
	RoleID       int        `json:"role_id" binding:"required"`
	RegionID     uuid.UUID  `json:"region_id" binding:"required"`
	SupervisorID *uuid.UUID `json:"supervisor_id"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type RoleCategory string

const (
	CategoryShopFloor  RoleCategory = "shop_floor"
	CategoryOperations RoleCategory = "operations"
	CategoryAdmin      RoleCategory = "admin"
)

// Role is a named rank. Level is a total order used for hierarchy
// comparisons; exact values live in the roles table, not in code.
type Role struct {
	ID       int          `json:"id" db:"id"`
	Name     string       `json:"name" db:"name"`
	Code     string       `json:"code" db:"code"`
	Level    int          `json:"level" db:"level"`
	Category RoleCategory `json:"category" db:"category"`
}

type StaffMember struct {
	ID           uuid.UUID  `json:"id"`
	AuthUserID   string     `json:"auth_user_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Registration string     `json:"registration"`
	Role         Role       `json:"role"`
	Region       Region     `json:"region"`
	SupervisorID *uuid.UUID `json:"supervisor_id,omitempty"`
	Active       bool       `json:"active"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (s *StaffMember) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID.String(),
		ResourceType: "staff_member",
	}
}

type FlatStaffRecord struct {
	ID           uuid.UUID  `db:"id"`
	AuthUserID   string     `db:"auth_user_id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	Registration string     `db:"registration"`
	SupervisorID *uuid.UUID `db:"supervisor_id"`
	Active       bool       `db:"active"`
	PasswordHash string     `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	RoleID       int        `db:"role_id"`
	RoleName     string     `db:"role_name"`
	RoleCode     string     `db:"role_code"`
	RoleLevel    int        `db:"role_level"`
	RoleCategory string     `db:"role_category"`
	RegionID     uuid.UUID  `db:"region_id"`
	RegionName   string     `db:"region_name"`
	StateID      uuid.UUID  `db:"state_id"`
}

func (fs *FlatStaffRecord) TransformToStaffMember() StaffMember {
	return StaffMember{
		ID:           fs.ID,
		AuthUserID:   fs.AuthUserID,
		Name:         fs.Name,
		Email:        fs.Email,
		Registration: fs.Registration,
		SupervisorID: fs.SupervisorID,
		Active:       fs.Active,
		PasswordHash: fs.PasswordHash,
		CreatedAt:    fs.CreatedAt,
		Role: Role{
			ID:       fs.RoleID,
			Name:     fs.RoleName,
			Code:     fs.RoleCode,
			Level:    fs.RoleLevel,
			Category: RoleCategory(fs.RoleCategory),
		},
		Region: Region{
			ID:      fs.RegionID,
			Name:    fs.RegionName,
			StateID: fs.StateID,
		},
	}
}

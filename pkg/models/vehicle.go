package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type VehicleStatus string

const (
	VehicleActive        VehicleStatus = "active"
	VehicleInMaintenance VehicleStatus = "in_maintenance"
	VehicleInactive      VehicleStatus = "inactive"
	VehicleExternalShop  VehicleStatus = "external_shop"
)

func NewVehicleStatus(value string) (VehicleStatus, error) {
	status := VehicleStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid vehicle status: %s", value)
	}
	return status, nil
}

func (s VehicleStatus) isValid() bool {
	switch s {
	case VehicleActive, VehicleInMaintenance, VehicleInactive, VehicleExternalShop:
		return true
	default:
		return false
	}
}

type Vehicle struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	Plate     string        `json:"plate" db:"plate"`
	Model     string        `json:"model" db:"model"`
	Type      string        `json:"type" db:"type"`
	Year      int           `json:"year" db:"year"`
	Mileage   int           `json:"mileage" db:"mileage"`
	Status    VehicleStatus `json:"status" db:"status"`
	Region    Region        `json:"region"`
	CreatedBy uuid.UUID     `json:"created_by" db:"created_by"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

type FlatVehicleRecord struct {
	ID         uuid.UUID `db:"id"`
	Plate      string    `db:"plate"`
	Model      string    `db:"model"`
	Type       string    `db:"type"`
	Year       int       `db:"year"`
	Mileage    int       `db:"mileage"`
	Status     string    `db:"status"`
	CreatedBy  uuid.UUID `db:"created_by"`
	CreatedAt  time.Time `db:"created_at"`
	RegionID   uuid.UUID `db:"region_id"`
	RegionName string    `db:"region_name"`
	StateID    uuid.UUID `db:"state_id"`
}

func (fv *FlatVehicleRecord) TransformToVehicle() Vehicle {
	return Vehicle{
		ID:        fv.ID,
		Plate:     fv.Plate,
		Model:     fv.Model,
		Type:      fv.Type,
		Year:      fv.Year,
		Mileage:   fv.Mileage,
		Status:    VehicleStatus(fv.Status),
		CreatedBy: fv.CreatedBy,
		CreatedAt: fv.CreatedAt,
		Region: Region{
			ID:      fv.RegionID,
			Name:    fv.RegionName,
			StateID: fv.StateID,
		},
	}
}

func (v *Vehicle) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   v.ID.String(),
		ResourceType: "vehicle",
	}
}

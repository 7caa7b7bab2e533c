package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type WorkOrderStatus string

const (
	OrderInProgress       WorkOrderStatus = "in_progress"
	OrderDiagnosis        WorkOrderStatus = "diagnosis"
	OrderAwaitingPart     WorkOrderStatus = "awaiting_part"
	OrderAwaitingApproval WorkOrderStatus = "awaiting_approval"
	OrderExternalShop     WorkOrderStatus = "external_shop"
	OrderCompleted        WorkOrderStatus = "completed"
	OrderCancelled        WorkOrderStatus = "cancelled"
)

func NewWorkOrderStatus(value string) (WorkOrderStatus, error) {
	status := WorkOrderStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid work order status: %s", value)
	}
	return status, nil
}

func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case OrderInProgress, OrderDiagnosis, OrderAwaitingPart, OrderAwaitingApproval,
		OrderExternalShop, OrderCompleted, OrderCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are permitted.
func (s WorkOrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

type WorkOrder struct {
	ID              int             `json:"id"`
	OrderNumber     string          `json:"order_number"`
	VehicleID       uuid.UUID       `json:"vehicle_id"`
	VehiclePlate    string          `json:"vehicle_plate,omitempty"`
	VehicleModel    string          `json:"vehicle_model,omitempty"`
	ReportedProblem string          `json:"reported_problem"`
	Diagnosis       *string         `json:"diagnosis,omitempty"`
	Status          WorkOrderStatus `json:"status"`
	EntryAt         time.Time       `json:"entry_at"`
	ExitAt          *time.Time      `json:"exit_at,omitempty"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	DeliveredBy     *uuid.UUID      `json:"delivered_by,omitempty"`
	ReceivedBy      *uuid.UUID      `json:"received_by,omitempty"`
	Region          Region          `json:"region"`
}

type FlatWorkOrderRecord struct {
	ID              int             `db:"id"`
	OrderNumber     string          `db:"order_number"`
	VehicleID       uuid.UUID       `db:"vehicle_id"`
	VehiclePlate    string          `db:"vehicle_plate"`
	VehicleModel    string          `db:"vehicle_model"`
	ReportedProblem string          `db:"reported_problem"`
	Diagnosis       *string         `db:"diagnosis"`
	Status          WorkOrderStatus `db:"status"`
	EntryAt         time.Time       `db:"entry_at"`
	ExitAt          *time.Time      `db:"exit_at"`
	CreatedBy       uuid.UUID       `db:"created_by"`
	DeliveredBy     *uuid.UUID      `db:"delivered_by"`
	ReceivedBy      *uuid.UUID      `db:"received_by"`
	RegionID        uuid.UUID       `db:"region_id"`
	RegionName      string          `db:"region_name"`
	StateID         uuid.UUID       `db:"state_id"`
}

func (fo *FlatWorkOrderRecord) TransformToWorkOrder() WorkOrder {
	return WorkOrder{
		ID:              fo.ID,
		OrderNumber:     fo.OrderNumber,
		VehicleID:       fo.VehicleID,
		VehiclePlate:    fo.VehiclePlate,
		VehicleModel:    fo.VehicleModel,
		ReportedProblem: fo.ReportedProblem,
		Diagnosis:       fo.Diagnosis,
		Status:          fo.Status,
		EntryAt:         fo.EntryAt,
		ExitAt:          fo.ExitAt,
		CreatedBy:       fo.CreatedBy,
		DeliveredBy:     fo.DeliveredBy,
		ReceivedBy:      fo.ReceivedBy,
		Region: Region{
			ID:      fo.RegionID,
			Name:    fo.RegionName,
			StateID: fo.StateID,
		},
	}
}

func (o *WorkOrder) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   strconv.Itoa(o.ID),
		ResourceType: "work_order",
	}
}

// StatusHistoryEntry is one row of the append-only status ledger.
// PreviousStatus is nil only for the entry written at order creation.
type StatusHistoryEntry struct {
	ID             int              `json:"id" db:"id"`
	WorkOrderID    int              `json:"work_order_id" db:"work_order_id"`
	PreviousStatus *WorkOrderStatus `json:"previous_status" db:"previous_status"`
	NewStatus      WorkOrderStatus  `json:"new_status" db:"new_status"`
	Note           string           `json:"note" db:"note"`
	StaffID        uuid.UUID        `json:"staff_id" db:"staff_id"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

package workorders

import "github.com/google/uuid"

type CreateOrderRequest struct {
	VehicleID       uuid.UUID  `json:"vehicle_id" binding:"required"`
	ReportedProblem string     `json:"reported_problem" binding:"required"`
	Diagnosis       *string    `json:"diagnosis"`
	DeliveredBy     *uuid.UUID `json:"delivered_by"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Part struct {
	ID            int     `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Code          string  `json:"code" db:"code"`
	Supplier      string  `json:"supplier" db:"supplier"`
	UnitCost      float64 `json:"unit_cost" db:"unit_cost"`
	StockQuantity int     `json:"stock_quantity" db:"stock_quantity"`
	MinimumStock  int     `json:"minimum_stock" db:"minimum_stock"`
}

func (p *Part) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   strconv.Itoa(p.ID),
		ResourceType: "part",
	}
}

// PartUsage links a consumed part to a work order. UnitCost is a snapshot
// taken at consumption time, not a live reference to the part's price.
type PartUsage struct {
	ID          int       `json:"id" db:"id"`
	WorkOrderID int       `json:"work_order_id" db:"work_order_id"`
	PartID      int       `json:"part_id" db:"part_id"`
	PartName    string    `json:"part_name,omitempty" db:"part_name"`
	PartCode    string    `json:"part_code,omitempty" db:"part_code"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitCost    float64   `json:"unit_cost" db:"unit_cost"`
	StaffID     uuid.UUID `json:"staff_id" db:"staff_id"`
	UsedAt      time.Time `json:"used_at" db:"used_at"`
}

func (u *PartUsage) TotalCost() float64 {
	return float64(u.Quantity) * u.UnitCost
}

func (u *PartUsage) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   strconv.Itoa(u.ID),
		ResourceType: "part_usage",
	}
}

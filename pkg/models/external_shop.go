package models

import (
	"strconv"
	"time"
)

// ExternalShop is a third-party workshop vehicles are sent to when the
// repair cannot be done in-house.
type ExternalShop struct {
	ID      int    `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	TaxID   string `json:"tax_id" db:"tax_id"`
	Address string `json:"address" db:"address"`
	Phone   string `json:"phone" db:"phone"`
	Contact string `json:"contact" db:"contact"`
}

func (s *ExternalShop) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   strconv.Itoa(s.ID),
		ResourceType: "external_shop",
	}
}

// ExternalService records one outsourced job on a work order. ReturnedAt
// stays nil while the vehicle is still at the external shop.
type ExternalService struct {
	ID          int        `json:"id" db:"id"`
	WorkOrderID int        `json:"work_order_id" db:"work_order_id"`
	ShopID      int        `json:"shop_id" db:"shop_id"`
	ShopName    string     `json:"shop_name,omitempty" db:"shop_name"`
	ShopTaxID   string     `json:"shop_tax_id,omitempty" db:"shop_tax_id"`
	ShopPhone   string     `json:"shop_phone,omitempty" db:"shop_phone"`
	Description string     `json:"description" db:"description"`
	Cost        float64    `json:"cost" db:"cost"`
	SentAt      time.Time  `json:"sent_at" db:"sent_at"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty" db:"returned_at"`
}

func (s *ExternalService) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   strconv.Itoa(s.ID),
		ResourceType: "external_service",
	}
}

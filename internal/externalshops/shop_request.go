package externalshops

import "time"

type ShopRequest struct {
	Name    string `json:"name" binding:"required"`
	TaxID   string `json:"tax_id" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Contact string `json:"contact"`
}

type SendServiceRequest struct {
	ShopID      int     `json:"shop_id" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Cost        float64 `json:"cost"`
}

type ReturnServiceRequest struct {
	ReturnedAt *time.Time `json:"returned_at"`
}

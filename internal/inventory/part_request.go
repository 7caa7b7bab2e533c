package inventory

type CreatePartRequest struct {
	Name          string  `json:"name" binding:"required"`
	Code          string  `json:"code" binding:"required"`
	Supplier      string  `json:"supplier"`
	UnitCost      float64 `json:"unit_cost"`
	StockQuantity int     `json:"stock_quantity"`
	MinimumStock  int     `json:"minimum_stock"`
}

type ConsumeRequest struct {
	PartID   int      `json:"part_id" binding:"required"`
	Quantity int      `json:"quantity" binding:"required"`
	UnitCost *float64 `json:"unit_cost"`
}

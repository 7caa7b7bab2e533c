package statistics

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"frota/internal/repository"
	"frota/pkg/models"
)

type StatsRepository interface {
	GetOrdersByVehicle(vehicleID uuid.UUID, since *time.Time) ([]models.WorkOrder, error)
	GetUsagesByVehicle(vehicleID uuid.UUID, since *time.Time) ([]models.PartUsage, error)
	GetOrdersByRegion(regionID uuid.UUID, since *time.Time) ([]models.WorkOrder, error)
	GetUsagesByRegion(regionID uuid.UUID, since *time.Time) ([]models.PartUsage, error)
	GetExternalServicesByVehicle(vehicleID uuid.UUID, since *time.Time) ([]models.ExternalService, error)
	GetExternalServicesByRegion(regionID uuid.UUID, since *time.Time) ([]models.ExternalService, error)
}

type statsRepositoryImpl struct {
	repository *repository.Repository
}

func NewStatsRepository(r *repository.Repository) StatsRepository {
	return &statsRepositoryImpl{repository: r}
}

func (r *statsRepositoryImpl) orderQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("work_orders").As("wo")).
		Select(
			goqu.I("wo.id").As("id"),
			goqu.I("wo.order_number").As("order_number"),
			goqu.I("wo.vehicle_id").As("vehicle_id"),
			goqu.I("v.plate").As("vehicle_plate"),
			goqu.I("v.model").As("vehicle_model"),
			goqu.I("wo.reported_problem").As("reported_problem"),
			goqu.I("wo.diagnosis").As("diagnosis"),
			goqu.I("wo.status").As("status"),
			goqu.I("wo.entry_at").As("entry_at"),
			goqu.I("wo.exit_at").As("exit_at"),
			goqu.I("wo.created_by").As("created_by"),
			goqu.I("wo.delivered_by").As("delivered_by"),
			goqu.I("wo.received_by").As("received_by"),
			goqu.I("rg.id").As("region_id"),
			goqu.I("rg.name").As("region_name"),
			goqu.I("rg.state_id").As("state_id"),
		).
		Join(goqu.T("vehicles").As("v"), goqu.On(goqu.Ex{"v.id": goqu.I("wo.vehicle_id")})).
		Join(goqu.T("regions").As("rg"), goqu.On(goqu.Ex{"rg.id": goqu.I("wo.region_id")}))
}

func (r *statsRepositoryImpl) usageQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("part_usages").As("pu")).
		Select(
			goqu.I("pu.id").As("id"),
			goqu.I("pu.work_order_id").As("work_order_id"),
			goqu.I("pu.part_id").As("part_id"),
			goqu.I("p.name").As("part_name"),
			goqu.I("p.code").As("part_code"),
			goqu.I("pu.quantity").As("quantity"),
			goqu.I("pu.unit_cost").As("unit_cost"),
			goqu.I("pu.staff_id").As("staff_id"),
			goqu.I("pu.used_at").As("used_at"),
		).
		Join(goqu.T("parts").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("pu.part_id")})).
		Join(goqu.T("work_orders").As("wo"), goqu.On(goqu.Ex{"wo.id": goqu.I("pu.work_order_id")}))
}

func (r *statsRepositoryImpl) scanOrders(query *goqu.SelectDataset) ([]models.WorkOrder, error) {
	var flats []models.FlatWorkOrderRecord
	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	orders := make([]models.WorkOrder, 0, len(flats))
	for _, flat := range flats {
		orders = append(orders, flat.TransformToWorkOrder())
	}
	return orders, nil
}

func (r *statsRepositoryImpl) GetOrdersByVehicle(vehicleID uuid.UUID, since *time.Time) ([]models.WorkOrder, error) {
	query := r.orderQuery().Where(goqu.Ex{"wo.vehicle_id": vehicleID.String()})
	if since != nil {
		query = query.Where(goqu.I("wo.entry_at").Gte(*since))
	}
	return r.scanOrders(query.Order(goqu.I("wo.entry_at").Asc()))
}

func (r *statsRepositoryImpl) GetOrdersByRegion(regionID uuid.UUID, since *time.Time) ([]models.WorkOrder, error) {
	query := r.orderQuery().Where(goqu.Ex{"wo.region_id": regionID.String()})
	if since != nil {
		query = query.Where(goqu.I("wo.entry_at").Gte(*since))
	}
	return r.scanOrders(query.Order(goqu.I("wo.entry_at").Asc()))
}

func (r *statsRepositoryImpl) GetUsagesByVehicle(vehicleID uuid.UUID, since *time.Time) ([]models.PartUsage, error) {
	query := r.usageQuery().Where(goqu.Ex{"wo.vehicle_id": vehicleID.String()})
	if since != nil {
		query = query.Where(goqu.I("pu.used_at").Gte(*since))
	}

	var usages []models.PartUsage
	if err := query.Order(goqu.I("pu.used_at").Asc()).Executor().ScanStructs(&usages); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	return usages, nil
}

func (r *statsRepositoryImpl) GetUsagesByRegion(regionID uuid.UUID, since *time.Time) ([]models.PartUsage, error) {
	query := r.usageQuery().Where(goqu.Ex{"wo.region_id": regionID.String()})
	if since != nil {
		query = query.Where(goqu.I("pu.used_at").Gte(*since))
	}

	var usages []models.PartUsage
	if err := query.Order(goqu.I("pu.used_at").Asc()).Executor().ScanStructs(&usages); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	return usages, nil
}

func (r *statsRepositoryImpl) externalServiceQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("external_services").As("es")).
		Select(
			goqu.I("es.id").As("id"),
			goqu.I("es.work_order_id").As("work_order_id"),
			goqu.I("es.shop_id").As("shop_id"),
			goqu.I("es.description").As("description"),
			goqu.I("es.cost").As("cost"),
			goqu.I("es.sent_at").As("sent_at"),
			goqu.I("es.returned_at").As("returned_at"),
		).
		Join(goqu.T("work_orders").As("wo"), goqu.On(goqu.Ex{"wo.id": goqu.I("es.work_order_id")}))
}

func (r *statsRepositoryImpl) scanExternalServices(query *goqu.SelectDataset, since *time.Time) ([]models.ExternalService, error) {
	if since != nil {
		query = query.Where(goqu.I("es.sent_at").Gte(*since))
	}

	var services []models.ExternalService
	if err := query.Order(goqu.I("es.sent_at").Asc()).Executor().ScanStructs(&services); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	return services, nil
}

func (r *statsRepositoryImpl) GetExternalServicesByVehicle(vehicleID uuid.UUID, since *time.Time) ([]models.ExternalService, error) {
	query := r.externalServiceQuery().Where(goqu.Ex{"wo.vehicle_id": vehicleID.String()})
	return r.scanExternalServices(query, since)
}

func (r *statsRepositoryImpl) GetExternalServicesByRegion(regionID uuid.UUID, since *time.Time) ([]models.ExternalService, error) {
	query := r.externalServiceQuery().Where(goqu.Ex{"wo.region_id": regionID.String()})
	return r.scanExternalServices(query, since)
}

package workorders

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"frota/internal/accesspolicy"
	"frota/internal/repository"
	"frota/pkg/apperrors"
	"frota/pkg/models"
)

type OrderFilter struct {
	Status    string
	VehicleID *uuid.UUID
	Active    bool // only non-terminal orders
}

type OrderRepository interface {
	InsertWorkOrder(tx *goqu.TxDatabase, req CreateOrderRequest, orderNumber string, regionID uuid.UUID, createdBy uuid.UUID, entryAt time.Time) (int, error)
	GetWorkOrder(id int) (*models.WorkOrder, error)
	GetWorkOrders(filter OrderFilter, scope accesspolicy.Scope) ([]models.WorkOrder, error)
	GetActiveOrderID(tx *goqu.TxDatabase, vehicleID uuid.UUID) (int, bool, error)
	UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.WorkOrderStatus, exitAt *time.Time, receivedBy *uuid.UUID) (int64, error)
	InsertHistoryEntry(tx *goqu.TxDatabase, entry models.StatusHistoryEntry) error
	GetHistory(workOrderID int) ([]models.StatusHistoryEntry, error)
	AllocateOrderNumber(tx *goqu.TxDatabase, date time.Time) (string, error)
}

type orderRepositoryImpl struct {
	repository *repository.Repository
}

func NewOrderRepository(r *repository.Repository) OrderRepository {
	return &orderRepositoryImpl{repository: r}
}

func orderQuery(db *goqu.Database) *goqu.SelectDataset {
	return db.
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

func (r *orderRepositoryImpl) GetWorkOrder(id int) (*models.WorkOrder, error) {
	var flat models.FlatWorkOrderRecord
	query := orderQuery(r.repository.GoquDBWrapper).Where(goqu.Ex{"wo.id": id})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("work_order", id)
	}

	order := flat.TransformToWorkOrder()
	return &order, nil
}

func (r *orderRepositoryImpl) GetWorkOrders(filter OrderFilter, scope accesspolicy.Scope) ([]models.WorkOrder, error) {
	query := orderQuery(r.repository.GoquDBWrapper)

	if expr := scope.Expression("wo.region_id"); expr != nil {
		query = query.Where(expr)
	}
	if filter.Status != "" {
		query = query.Where(goqu.Ex{"wo.status": filter.Status})
	}
	if filter.VehicleID != nil {
		query = query.Where(goqu.Ex{"wo.vehicle_id": filter.VehicleID.String()})
	}
	if filter.Active {
		query = query.Where(goqu.I("wo.status").NotIn(
			string(models.OrderCompleted), string(models.OrderCancelled),
		))
	}

	var flats []models.FlatWorkOrderRecord
	if err := query.Order(goqu.I("wo.entry_at").Desc()).Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	orders := make([]models.WorkOrder, 0, len(flats))
	for _, flat := range flats {
		orders = append(orders, flat.TransformToWorkOrder())
	}

	return orders, nil
}

// GetActiveOrderID finds the vehicle's non-terminal work order, if any.
// Runs inside the creation transaction so the one-live-order invariant
// holds under concurrent creates (backed by a partial unique index).
func (r *orderRepositoryImpl) GetActiveOrderID(tx *goqu.TxDatabase, vehicleID uuid.UUID) (int, bool, error) {
	var id int
	query := tx.
		Select("id").
		From("work_orders").
		Where(
			goqu.Ex{"vehicle_id": vehicleID.String()},
			goqu.I("status").NotIn(string(models.OrderCompleted), string(models.OrderCancelled)),
		)

	found, err := query.Executor().ScanVal(&id)
	if err != nil {
		return 0, false, fmt.Errorf("failed to check active work order: %w", err)
	}

	return id, found, nil
}

func (r *orderRepositoryImpl) InsertWorkOrder(tx *goqu.TxDatabase, req CreateOrderRequest, orderNumber string, regionID uuid.UUID, createdBy uuid.UUID, entryAt time.Time) (int, error) {
	record := goqu.Record{
		"order_number":     orderNumber,
		"vehicle_id":       req.VehicleID.String(),
		"reported_problem": req.ReportedProblem,
		"status":           string(models.OrderInProgress),
		"entry_at":         entryAt,
		"created_by":       createdBy.String(),
		"region_id":        regionID.String(),
	}
	if req.Diagnosis != nil {
		record["diagnosis"] = *req.Diagnosis
	}
	if req.DeliveredBy != nil {
		record["delivered_by"] = req.DeliveredBy.String()
	}

	var id int
	query := tx.Insert("work_orders").Rows(record).Returning("id")
	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert work order: %w", err)
	}

	return id, nil
}

// UpdateStatus performs the optimistic write: the row only changes when the
// status still matches what the caller read. Zero rows affected means a
// concurrent transition won.
func (r *orderRepositoryImpl) UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.WorkOrderStatus, exitAt *time.Time, receivedBy *uuid.UUID) (int64, error) {
	record := goqu.Record{"status": string(to)}
	if exitAt != nil {
		record["exit_at"] = *exitAt
	}
	if receivedBy != nil {
		record["received_by"] = receivedBy.String()
	}

	result, err := tx.Update("work_orders").
		Set(record).
		Where(goqu.Ex{"id": id, "status": string(from)}).
		Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to update work order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return affected, nil
}

func (r *orderRepositoryImpl) InsertHistoryEntry(tx *goqu.TxDatabase, entry models.StatusHistoryEntry) error {
	record := goqu.Record{
		"work_order_id": entry.WorkOrderID,
		"new_status":    string(entry.NewStatus),
		"note":          entry.Note,
		"staff_id":      entry.StaffID.String(),
		"created_at":    entry.CreatedAt,
	}
	if entry.PreviousStatus != nil {
		record["previous_status"] = string(*entry.PreviousStatus)
	}

	if _, err := tx.Insert("status_history").Rows(record).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert status history entry: %w", err)
	}

	return nil
}

func (r *orderRepositoryImpl) GetHistory(workOrderID int) ([]models.StatusHistoryEntry, error) {
	var entries []models.StatusHistoryEntry
	query := r.repository.GoquDBWrapper.
		Select("id", "work_order_id", "previous_status", "new_status", "note", "staff_id", "created_at").
		From("status_history").
		Where(goqu.Ex{"work_order_id": workOrderID}).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())

	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return entries, nil
}

// AllocateOrderNumber hands out the next OS-YYYYMMDD-NNNN number for the
// given date. The upsert increments the per-date counter atomically, so
// two concurrent creates can never share a sequence value.
func (r *orderRepositoryImpl) AllocateOrderNumber(tx *goqu.TxDatabase, date time.Time) (string, error) {
	dateKey := date.Format("20060102")

	var seq int
	query := tx.Insert("order_counters").
		Rows(goqu.Record{"date_key": dateKey, "last_seq": 1}).
		OnConflict(goqu.DoUpdate(
			"date_key",
			goqu.Record{"last_seq": goqu.L("order_counters.last_seq + 1")},
		)).
		Returning("last_seq")

	if _, err := query.Executor().ScanVal(&seq); err != nil {
		return "", fmt.Errorf("failed to allocate order number: %w", err)
	}

	return fmt.Sprintf("OS-%s-%04d", dateKey, seq), nil
}

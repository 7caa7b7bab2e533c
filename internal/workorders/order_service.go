package workorders

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/auditlog"
	"frota/pkg/models"
)

type transactor interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

// VehicleStore is the slice of the vehicle repository the state machine
// needs: reading a vehicle to authorize and scope the order, and flipping
// its status inside the order transaction.
type VehicleStore interface {
	GetVehicle(id uuid.UUID) (*models.Vehicle, error)
	UpdateVehicleStatus(tx *goqu.TxDatabase, id uuid.UUID, status models.VehicleStatus) error
}

type ServiceConfig struct {
	// RestoreVehicleOnCancel controls whether cancelling an order returns
	// the vehicle to active. The audited behavior only restores on
	// completion, so the default is false.
	RestoreVehicleOnCancel bool
}

type OrderService struct {
	tx       transactor
	orders   OrderRepository
	vehicles VehicleStore
	policy   *accesspolicy.Engine
	audit    *auditlog.Auditlog
	cfg      ServiceConfig
	now      func() time.Time
}

func NewOrderService(tx transactor, orders OrderRepository, vehicles VehicleStore, policy *accesspolicy.Engine, audit *auditlog.Auditlog, cfg ServiceConfig) *OrderService {
	return &OrderService{
		tx:       tx,
		orders:   orders,
		vehicles: vehicles,
		policy:   policy,
		audit:    audit,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock swaps the time source. Duration math in tests needs this.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Create opens a work order for a vehicle: allocates the date-scoped order
// number, seeds the status ledger, and moves the vehicle into maintenance.
// Everything commits atomically or not at all.
func (s *OrderService) Create(req CreateOrderRequest, actor accesspolicy.Actor) (*models.WorkOrder, error) {
	if req.ReportedProblem == "" {
		return nil, &apperrors.ValidationError{Field: "reported_problem", Message: "must not be empty"}
	}

	vehicle, err := s.vehicles.GetVehicle(req.VehicleID)
	if err != nil {
		return nil, err
	}

	ref := accesspolicy.RegionRef{ID: vehicle.Region.ID, StateID: vehicle.Region.StateID}
	if !s.policy.CanMutate(actor, ref) {
		return nil, &apperrors.UnauthorizedError{Operation: "create", Resource: "work_order"}
	}

	entryAt := s.now()
	var orderID int

	err = s.tx.WithTx(func(tx *goqu.TxDatabase) error {
		activeID, found, err := s.orders.GetActiveOrderID(tx, req.VehicleID)
		if err != nil {
			return err
		}
		if found {
			return &apperrors.VehicleInProcessError{VehicleID: req.VehicleID.String(), OrderID: activeID}
		}

		orderNumber, err := s.orders.AllocateOrderNumber(tx, entryAt)
		if err != nil {
			return err
		}

		orderID, err = s.orders.InsertWorkOrder(tx, req, orderNumber, vehicle.Region.ID, actor.StaffID, entryAt)
		if err != nil {
			return err
		}

		if err := s.orders.InsertHistoryEntry(tx, models.StatusHistoryEntry{
			WorkOrderID: orderID,
			NewStatus:   models.OrderInProgress,
			StaffID:     actor.StaffID,
			CreatedAt:   entryAt,
		}); err != nil {
			return err
		}

		return s.vehicles.UpdateVehicleStatus(tx, req.VehicleID, models.VehicleInMaintenance)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetWorkOrder(orderID)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		go s.audit.Log("create", actor.StaffID, map[string]interface{}{
			"order_number": order.OrderNumber,
			"vehicle_id":   order.VehicleID.String(),
		}, order)
	}

	return order, nil
}

// Transition moves an order to a new status, appending to the ledger. The
// status write is optimistic: if a concurrent transition already changed
// the row, the caller gets a conflict instead of a silent clobber.
func (s *OrderService) Transition(orderID int, newStatus models.WorkOrderStatus, note string, actor accesspolicy.Actor) (*models.WorkOrder, error) {
	order, err := s.orders.GetWorkOrder(orderID)
	if err != nil {
		return nil, err
	}

	ref := accesspolicy.RegionRef{ID: order.Region.ID, StateID: order.Region.StateID}
	if !s.policy.CanMutate(actor, ref) {
		return nil, &apperrors.UnauthorizedError{Operation: "transition", Resource: "work_order"}
	}

	if err := ValidateTransition(order.Status, newStatus); err != nil {
		return nil, err
	}

	transitionAt := s.now()

	var exitAt *time.Time
	var receivedBy *uuid.UUID
	if newStatus.IsTerminal() {
		exitAt = &transitionAt
	}
	if newStatus == models.OrderCompleted {
		staffID := actor.StaffID
		receivedBy = &staffID
	}

	err = s.tx.WithTx(func(tx *goqu.TxDatabase) error {
		affected, err := s.orders.UpdateStatus(tx, orderID, order.Status, newStatus, exitAt, receivedBy)
		if err != nil {
			return err
		}
		if affected == 0 {
			return &apperrors.ConflictError{
				Resource: "work_order",
				Reason:   "status changed since it was read",
			}
		}

		previous := order.Status
		if err := s.orders.InsertHistoryEntry(tx, models.StatusHistoryEntry{
			WorkOrderID:    orderID,
			PreviousStatus: &previous,
			NewStatus:      newStatus,
			Note:           note,
			StaffID:        actor.StaffID,
			CreatedAt:      transitionAt,
		}); err != nil {
			return err
		}

		restore := newStatus == models.OrderCompleted ||
			(newStatus == models.OrderCancelled && s.cfg.RestoreVehicleOnCancel)
		if restore {
			return s.vehicles.UpdateVehicleStatus(tx, order.VehicleID, models.VehicleActive)
		}
		if newStatus == models.OrderExternalShop {
			return s.vehicles.UpdateVehicleStatus(tx, order.VehicleID, models.VehicleExternalShop)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.GetWorkOrder(orderID)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		go s.audit.Log("transition", actor.StaffID, map[string]interface{}{
			"from": string(order.Status),
			"to":   string(newStatus),
			"note": note,
		}, updated)
	}

	return updated, nil
}

func (s *OrderService) Get(orderID int, actor accesspolicy.Actor) (*models.WorkOrder, error) {
	order, err := s.orders.GetWorkOrder(orderID)
	if err != nil {
		return nil, err
	}

	ref := accesspolicy.RegionRef{ID: order.Region.ID, StateID: order.Region.StateID}
	if !s.policy.CanView(actor, ref) {
		return nil, &apperrors.UnauthorizedError{Operation: "view", Resource: "work_order"}
	}

	return order, nil
}

func (s *OrderService) List(filter OrderFilter, actor accesspolicy.Actor) ([]models.WorkOrder, error) {
	return s.orders.GetWorkOrders(filter, s.policy.ScopeFilter(actor))
}

func (s *OrderService) History(orderID int, actor accesspolicy.Actor) ([]models.StatusHistoryEntry, error) {
	if _, err := s.Get(orderID, actor); err != nil {
		return nil, err
	}
	return s.orders.GetHistory(orderID)
}

// ElapsedTimePerStatus derives, strictly from the ledger, how long the
// order sat in each status.
func (s *OrderService) ElapsedTimePerStatus(orderID int, actor accesspolicy.Actor) ([]StatusSegment, error) {
	entries, err := s.History(orderID, actor)
	if err != nil {
		return nil, err
	}
	return BuildSegments(entries, s.now()), nil
}

func (s *OrderService) TotalElapsed(orderID int, actor accesspolicy.Actor) (time.Duration, error) {
	segments, err := s.ElapsedTimePerStatus(orderID, actor)
	if err != nil {
		return 0, err
	}
	return TotalDuration(segments), nil
}

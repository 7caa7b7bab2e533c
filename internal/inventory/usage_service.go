package inventory

import (
	"time"

	"github.com/doug-martin/goqu/v9"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/auditlog"
	"frota/pkg/models"
)

type transactor interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

// OrderLookup is the slice of the work-order repository the ledger needs:
// usage mutations are authorized against the owning order's region and
// rejected once the order is terminal.
type OrderLookup interface {
	GetWorkOrder(id int) (*models.WorkOrder, error)
}

type UsageService struct {
	tx     transactor
	parts  PartRepository
	orders OrderLookup
	policy *accesspolicy.Engine
	audit  *auditlog.Auditlog
	now    func() time.Time
}

func NewUsageService(tx transactor, parts PartRepository, orders OrderLookup, policy *accesspolicy.Engine, audit *auditlog.Auditlog) *UsageService {
	return &UsageService{
		tx:     tx,
		parts:  parts,
		orders: orders,
		policy: policy,
		audit:  audit,
		now:    time.Now,
	}
}

func (s *UsageService) WithClock(now func() time.Time) *UsageService {
	s.now = now
	return s
}

// Consume deducts stock and records the usage as one atomic unit. The
// unit cost is snapshotted at consumption time; later price changes never
// rewrite the ledger.
func (s *UsageService) Consume(workOrderID int, req ConsumeRequest, actor accesspolicy.Actor) (*models.PartUsage, error) {
	if req.Quantity <= 0 {
		return nil, &apperrors.ValidationError{Field: "quantity", Message: "must be positive"}
	}

	order, err := s.orders.GetWorkOrder(workOrderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, &apperrors.ValidationError{Field: "work_order_id", Message: "work order is closed"}
	}

	ref := accesspolicy.RegionRef{ID: order.Region.ID, StateID: order.Region.StateID}
	if !s.policy.CanMutate(actor, ref) {
		return nil, &apperrors.UnauthorizedError{Operation: "consume", Resource: "part"}
	}

	var usageID int
	err = s.tx.WithTx(func(tx *goqu.TxDatabase) error {
		part, err := s.parts.GetPartTx(tx, req.PartID)
		if err != nil {
			return err
		}

		affected, err := s.parts.DecrementStock(tx, req.PartID, req.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return &apperrors.InsufficientStockError{
				PartID:    req.PartID,
				Requested: req.Quantity,
				Available: part.StockQuantity,
			}
		}

		unitCost := part.UnitCost
		if req.UnitCost != nil {
			unitCost = *req.UnitCost
		}

		usageID, err = s.parts.InsertUsage(tx, models.PartUsage{
			WorkOrderID: workOrderID,
			PartID:      req.PartID,
			Quantity:    req.Quantity,
			UnitCost:    unitCost,
			StaffID:     actor.StaffID,
			UsedAt:      s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	usage, err := s.parts.GetUsage(usageID)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		go s.audit.Log("consume", actor.StaffID, map[string]interface{}{
			"work_order_id": workOrderID,
			"part_id":       req.PartID,
			"quantity":      req.Quantity,
		}, usage)
	}

	return usage, nil
}

// Release deletes a usage record and puts its quantity back on the shelf,
// atomically. This is the compensating action for a consume.
func (s *UsageService) Release(usageID int, actor accesspolicy.Actor) error {
	usage, err := s.parts.GetUsage(usageID)
	if err != nil {
		return err
	}

	order, err := s.orders.GetWorkOrder(usage.WorkOrderID)
	if err != nil {
		return err
	}

	ref := accesspolicy.RegionRef{ID: order.Region.ID, StateID: order.Region.StateID}
	if !s.policy.CanMutate(actor, ref) {
		return &apperrors.UnauthorizedError{Operation: "release", Resource: "part_usage"}
	}

	err = s.tx.WithTx(func(tx *goqu.TxDatabase) error {
		if err := s.parts.DeleteUsage(tx, usageID); err != nil {
			return err
		}
		return s.parts.RestoreStock(tx, usage.PartID, usage.Quantity)
	})
	if err != nil {
		return err
	}

	if s.audit != nil {
		go s.audit.Log("release", actor.StaffID, map[string]interface{}{
			"work_order_id": usage.WorkOrderID,
			"part_id":       usage.PartID,
			"quantity":      usage.Quantity,
		}, usage)
	}

	return nil
}

func (s *UsageService) UsagesForOrder(workOrderID int, actor accesspolicy.Actor) ([]models.PartUsage, error) {
	order, err := s.orders.GetWorkOrder(workOrderID)
	if err != nil {
		return nil, err
	}

	ref := accesspolicy.RegionRef{ID: order.Region.ID, StateID: order.Region.StateID}
	if !s.policy.CanView(actor, ref) {
		return nil, &apperrors.UnauthorizedError{Operation: "view", Resource: "part_usage"}
	}

	return s.parts.GetUsagesByWorkOrder(workOrderID)
}

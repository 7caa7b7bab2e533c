package externalshops

import (
	"time"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/auditlog"
	"frota/pkg/models"
)

// OrderLookup is the slice of the work-order repository this package
// needs: outsourced jobs are authorized against the owning order's region
// and rejected once the order is terminal.
type OrderLookup interface {
	GetWorkOrder(id int) (*models.WorkOrder, error)
}

// ShopService manages the jobs sent out to external workshops.
type ShopService struct {
	shops  ShopRepository
	orders OrderLookup
	policy *accesspolicy.Engine
	audit  *auditlog.Auditlog
	now    func() time.Time
}

func NewShopService(shops ShopRepository, orders OrderLookup, policy *accesspolicy.Engine, audit *auditlog.Auditlog) *ShopService {
	return &ShopService{
		shops:  shops,
		orders: orders,
		policy: policy,
		audit:  audit,
		now:    time.Now,
	}
}

func (s *ShopService) WithClock(now func() time.Time) *ShopService {
	s.now = now
	return s
}

// Send records an outsourced job on an open work order. The send date is
// stamped server-side; the cost is agreed up front with the shop.
func (s *ShopService) Send(workOrderID int, req SendServiceRequest, actor accesspolicy.Actor) (*models.ExternalService, error) {
	if req.Cost < 0 {
		return nil, &apperrors.ValidationError{Field: "cost", Message: "must not be negative"}
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
		return nil, &apperrors.UnauthorizedError{Operation: "send", Resource: "external_service"}
	}

	if _, err := s.shops.GetShop(req.ShopID); err != nil {
		return nil, err
	}

	serviceID, err := s.shops.InsertService(models.ExternalService{
		WorkOrderID: workOrderID,
		ShopID:      req.ShopID,
		Description: req.Description,
		Cost:        req.Cost,
		SentAt:      s.now(),
	})
	if err != nil {
		return nil, err
	}

	service, err := s.shops.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		go s.audit.Log("send", actor.StaffID, map[string]interface{}{
			"work_order_id": workOrderID,
			"shop_id":       req.ShopID,
			"cost":          req.Cost,
		}, service)
	}

	return service, nil
}

// Return closes the outsourced job. A nil returnedAt stamps the current
// time; a job that already came back is not reopened or restamped.
func (s *ShopService) Return(serviceID int, returnedAt *time.Time, actor accesspolicy.Actor) (*models.ExternalService, error) {
	service, err := s.shops.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetWorkOrder(service.WorkOrderID)
	if err != nil {
		return nil, err
	}

	ref := accesspolicy.RegionRef{ID: order.Region.ID, StateID: order.Region.StateID}
	if !s.policy.CanMutate(actor, ref) {
		return nil, &apperrors.UnauthorizedError{Operation: "return", Resource: "external_service"}
	}

	when := s.now()
	if returnedAt != nil {
		when = *returnedAt
	}

	affected, err := s.shops.MarkReturned(serviceID, when)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, &apperrors.ValidationError{Field: "returned_at", Message: "service already returned"}
	}

	updated, err := s.shops.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		go s.audit.Log("return", actor.StaffID, map[string]interface{}{
			"work_order_id": service.WorkOrderID,
			"shop_id":       service.ShopID,
		}, updated)
	}

	return updated, nil
}

// Remove deletes a job recorded by mistake.
func (s *ShopService) Remove(serviceID int, actor accesspolicy.Actor) error {
	service, err := s.shops.GetService(serviceID)
	if err != nil {
		return err
	}

	order, err := s.orders.GetWorkOrder(service.WorkOrderID)
	if err != nil {
		return err
	}

	ref := accesspolicy.RegionRef{ID: order.Region.ID, StateID: order.Region.StateID}
	if !s.policy.CanMutate(actor, ref) {
		return &apperrors.UnauthorizedError{Operation: "remove", Resource: "external_service"}
	}

	if err := s.shops.DeleteService(serviceID); err != nil {
		return err
	}

	if s.audit != nil {
		go s.audit.Log("remove", actor.StaffID, map[string]interface{}{
			"work_order_id": service.WorkOrderID,
			"shop_id":       service.ShopID,
		}, service)
	}

	return nil
}

func (s *ShopService) ServicesForOrder(workOrderID int, actor accesspolicy.Actor) ([]models.ExternalService, error) {
	order, err := s.orders.GetWorkOrder(workOrderID)
	if err != nil {
		return nil, err
	}

	ref := accesspolicy.RegionRef{ID: order.Region.ID, StateID: order.Region.StateID}
	if !s.policy.CanView(actor, ref) {
		return nil, &apperrors.UnauthorizedError{Operation: "view", Resource: "external_service"}
	}

	return s.shops.GetServicesByWorkOrder(workOrderID)
}

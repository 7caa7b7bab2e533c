package externalshops

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"frota/internal/repository"
	"frota/pkg/apperrors"
	"frota/pkg/models"
)

type ShopRepository interface {
	PersistShop(req ShopRequest) (*models.ExternalShop, error)
	GetShop(id int) (*models.ExternalShop, error)
	GetShops() ([]models.ExternalShop, error)
	UpdateShop(id int, req ShopRequest) (*models.ExternalShop, error)
	DeleteShop(id int) error
	InsertService(service models.ExternalService) (int, error)
	GetService(id int) (*models.ExternalService, error)
	GetServicesByWorkOrder(workOrderID int) ([]models.ExternalService, error)
	MarkReturned(id int, returnedAt time.Time) (int64, error)
	DeleteService(id int) error
}

type shopRepositoryImpl struct {
	repository *repository.Repository
}

func NewShopRepository(r *repository.Repository) ShopRepository {
	return &shopRepositoryImpl{repository: r}
}

func shopRecord(req ShopRequest) goqu.Record {
	return goqu.Record{
		"name":    req.Name,
		"tax_id":  req.TaxID,
		"address": req.Address,
		"phone":   req.Phone,
		"contact": req.Contact,
	}
}

func (r *shopRepositoryImpl) PersistShop(req ShopRequest) (*models.ExternalShop, error) {
	var id int
	query := r.repository.GoquDBWrapper.Insert("external_shops").
		Rows(shopRecord(req)).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("external shop "+req.TaxID, string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert external shop: %w", err)
	}

	return r.GetShop(id)
}

func (r *shopRepositoryImpl) GetShop(id int) (*models.ExternalShop, error) {
	var shop models.ExternalShop
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "tax_id", "address", "phone", "contact").
		From("external_shops").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&shop)
	if err != nil {
		return nil, fmt.Errorf("failed to get external shop: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("external_shop", id)
	}

	return &shop, nil
}

func (r *shopRepositoryImpl) GetShops() ([]models.ExternalShop, error) {
	var shops []models.ExternalShop
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "tax_id", "address", "phone", "contact").
		From("external_shops").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&shops); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return shops, nil
}

func (r *shopRepositoryImpl) UpdateShop(id int, req ShopRequest) (*models.ExternalShop, error) {
	result, err := r.repository.GoquDBWrapper.Update("external_shops").
		Set(shopRecord(req)).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("external shop "+req.TaxID, string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update external shop: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return nil, apperrors.NewNotFound("external_shop", id)
	}

	return r.GetShop(id)
}

func (r *shopRepositoryImpl) DeleteShop(id int) error {
	result, err := r.repository.GoquDBWrapper.Delete("external_shops").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return apperrors.WrapDBError("external shop", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete external shop: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("external_shop", id)
	}

	return nil
}

func (r *shopRepositoryImpl) serviceQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("external_services").As("es")).
		Select(
			goqu.I("es.id").As("id"),
			goqu.I("es.work_order_id").As("work_order_id"),
			goqu.I("es.shop_id").As("shop_id"),
			goqu.I("s.name").As("shop_name"),
			goqu.I("s.tax_id").As("shop_tax_id"),
			goqu.I("s.phone").As("shop_phone"),
			goqu.I("es.description").As("description"),
			goqu.I("es.cost").As("cost"),
			goqu.I("es.sent_at").As("sent_at"),
			goqu.I("es.returned_at").As("returned_at"),
		).
		Join(goqu.T("external_shops").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("es.shop_id")}))
}

func (r *shopRepositoryImpl) InsertService(service models.ExternalService) (int, error) {
	var id int
	query := r.repository.GoquDBWrapper.Insert("external_services").
		Rows(goqu.Record{
			"work_order_id": service.WorkOrderID,
			"shop_id":       service.ShopID,
			"description":   service.Description,
			"cost":          service.Cost,
			"sent_at":       service.SentAt,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, apperrors.WrapDBError("external service", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert external service: %w", err)
	}

	return id, nil
}

func (r *shopRepositoryImpl) GetService(id int) (*models.ExternalService, error) {
	var service models.ExternalService
	query := r.serviceQuery().Where(goqu.Ex{"es.id": id})

	found, err := query.Executor().ScanStruct(&service)
	if err != nil {
		return nil, fmt.Errorf("failed to get external service: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("external_service", id)
	}

	return &service, nil
}

func (r *shopRepositoryImpl) GetServicesByWorkOrder(workOrderID int) ([]models.ExternalService, error) {
	var services []models.ExternalService
	query := r.serviceQuery().
		Where(goqu.Ex{"es.work_order_id": workOrderID}).
		Order(goqu.I("es.sent_at").Desc())

	if err := query.Executor().ScanStructs(&services); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return services, nil
}

// MarkReturned closes the service only while it is still open, so a
// concurrent return never rewrites the recorded date.
func (r *shopRepositoryImpl) MarkReturned(id int, returnedAt time.Time) (int64, error) {
	result, err := r.repository.GoquDBWrapper.Update("external_services").
		Set(goqu.Record{"returned_at": returnedAt}).
		Where(goqu.Ex{"id": id, "returned_at": nil}).
		Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to mark external service returned: %w", err)
	}

	return result.RowsAffected()
}

func (r *shopRepositoryImpl) DeleteService(id int) error {
	result, err := r.repository.GoquDBWrapper.Delete("external_services").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete external service: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("external_service", id)
	}

	return nil
}

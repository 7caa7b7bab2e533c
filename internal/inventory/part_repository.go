package inventory

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"frota/internal/repository"
	"frota/pkg/apperrors"
	"frota/pkg/models"
)

type PartFilter struct {
	Code   string
	Search string
}

type PartRepository interface {
	PersistPart(req CreatePartRequest) (*models.Part, error)
	GetPart(id int) (*models.Part, error)
	GetPartTx(tx *goqu.TxDatabase, id int) (*models.Part, error)
	GetParts(filter PartFilter) ([]models.Part, error)
	GetLowStockParts() ([]models.Part, error)
	DecrementStock(tx *goqu.TxDatabase, partID, quantity int) (int64, error)
	RestoreStock(tx *goqu.TxDatabase, partID, quantity int) error
	InsertUsage(tx *goqu.TxDatabase, usage models.PartUsage) (int, error)
	GetUsage(id int) (*models.PartUsage, error)
	GetUsagesByWorkOrder(workOrderID int) ([]models.PartUsage, error)
	DeleteUsage(tx *goqu.TxDatabase, id int) error
}

type partRepositoryImpl struct {
	repository *repository.Repository
}

func NewPartRepository(r *repository.Repository) PartRepository {
	return &partRepositoryImpl{repository: r}
}

func (r *partRepositoryImpl) PersistPart(req CreatePartRequest) (*models.Part, error) {
	var id int
	query := r.repository.GoquDBWrapper.Insert("parts").
		Rows(goqu.Record{
			"name":           req.Name,
			"code":           req.Code,
			"supplier":       req.Supplier,
			"unit_cost":      req.UnitCost,
			"stock_quantity": req.StockQuantity,
			"minimum_stock":  req.MinimumStock,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("part code "+req.Code, string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert part: %w", err)
	}

	return r.GetPart(id)
}

func (r *partRepositoryImpl) GetPart(id int) (*models.Part, error) {
	var part models.Part
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "code", "supplier", "unit_cost", "stock_quantity", "minimum_stock").
		From("parts").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&part)
	if err != nil {
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("part", id)
	}

	return &part, nil
}

func (r *partRepositoryImpl) GetPartTx(tx *goqu.TxDatabase, id int) (*models.Part, error) {
	var part models.Part
	query := tx.
		Select("id", "name", "code", "supplier", "unit_cost", "stock_quantity", "minimum_stock").
		From("parts").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&part)
	if err != nil {
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("part", id)
	}

	return &part, nil
}

func (r *partRepositoryImpl) GetParts(filter PartFilter) ([]models.Part, error) {
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "code", "supplier", "unit_cost", "stock_quantity", "minimum_stock").
		From("parts")

	if filter.Code != "" {
		query = query.Where(goqu.Ex{"code": filter.Code})
	}
	if filter.Search != "" {
		query = query.Where(goqu.C("name").ILike("%" + filter.Search + "%"))
	}

	var parts []models.Part
	if err := query.Order(goqu.C("name").Asc()).Executor().ScanStructs(&parts); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return parts, nil
}

func (r *partRepositoryImpl) GetLowStockParts() ([]models.Part, error) {
	var parts []models.Part
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "code", "supplier", "unit_cost", "stock_quantity", "minimum_stock").
		From("parts").
		Where(goqu.C("stock_quantity").Lte(goqu.C("minimum_stock"))).
		Order(goqu.C("stock_quantity").Asc())

	if err := query.Executor().ScanStructs(&parts); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return parts, nil
}

// DecrementStock is the conditional update that closes the lost-update
// race: the check and the decrement are one statement, so a concurrent
// consume cannot pass the check against a stale quantity. Zero rows
// affected means the part is missing or the stock is short.
func (r *partRepositoryImpl) DecrementStock(tx *goqu.TxDatabase, partID, quantity int) (int64, error) {
	result, err := tx.Update("parts").
		Set(goqu.Record{
			"stock_quantity": goqu.L("stock_quantity - ?", quantity),
		}).
		Where(goqu.Ex{"id": partID}).
		Where(goqu.C("stock_quantity").Gte(quantity)).
		Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock for part %d: %w", partID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected for part %d: %w", partID, err)
	}

	return affected, nil
}

func (r *partRepositoryImpl) RestoreStock(tx *goqu.TxDatabase, partID, quantity int) error {
	result, err := tx.Update("parts").
		Set(goqu.Record{
			"stock_quantity": goqu.L("stock_quantity + ?", quantity),
		}).
		Where(goqu.Ex{"id": partID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to restore stock for part %d: %w", partID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for part %d: %w", partID, err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("part", partID)
	}

	return nil
}

func (r *partRepositoryImpl) InsertUsage(tx *goqu.TxDatabase, usage models.PartUsage) (int, error) {
	var id int
	query := tx.Insert("part_usages").
		Rows(goqu.Record{
			"work_order_id": usage.WorkOrderID,
			"part_id":       usage.PartID,
			"quantity":      usage.Quantity,
			"unit_cost":     usage.UnitCost,
			"staff_id":      usage.StaffID.String(),
			"used_at":       usage.UsedAt,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert part usage: %w", err)
	}

	return id, nil
}

func usageQuery(db *goqu.Database) *goqu.SelectDataset {
	return db.
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
		Join(goqu.T("parts").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("pu.part_id")}))
}

func (r *partRepositoryImpl) GetUsage(id int) (*models.PartUsage, error) {
	var usage models.PartUsage
	query := usageQuery(r.repository.GoquDBWrapper).Where(goqu.Ex{"pu.id": id})

	found, err := query.Executor().ScanStruct(&usage)
	if err != nil {
		return nil, fmt.Errorf("failed to get part usage: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("part_usage", id)
	}

	return &usage, nil
}

func (r *partRepositoryImpl) GetUsagesByWorkOrder(workOrderID int) ([]models.PartUsage, error) {
	var usages []models.PartUsage
	query := usageQuery(r.repository.GoquDBWrapper).
		Where(goqu.Ex{"pu.work_order_id": workOrderID}).
		Order(goqu.I("pu.used_at").Desc())

	if err := query.Executor().ScanStructs(&usages); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return usages, nil
}

func (r *partRepositoryImpl) DeleteUsage(tx *goqu.TxDatabase, id int) error {
	result, err := tx.Delete("part_usages").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete part usage: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("part_usage", id)
	}

	return nil
}

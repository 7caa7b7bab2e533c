package vehicles

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"frota/internal/accesspolicy"
	"frota/internal/repository"
	"frota/pkg/apperrors"
	"frota/pkg/models"
)

type VehicleFilter struct {
	Status string
	Type   string
}

type VehicleRepository interface {
	PersistVehicle(req CreateVehicleRequest, createdBy uuid.UUID) (*models.Vehicle, error)
	GetVehicle(id uuid.UUID) (*models.Vehicle, error)
	GetVehicles(filter VehicleFilter, scope accesspolicy.Scope) ([]models.Vehicle, error)
	UpdateVehicleStatus(tx *goqu.TxDatabase, id uuid.UUID, status models.VehicleStatus) error
}

type vehicleRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) VehicleRepository {
	return &vehicleRepositoryImpl{repository: r}
}

func vehicleQuery(db *goqu.Database) *goqu.SelectDataset {
	return db.
		From(goqu.T("vehicles").As("v")).
		Select(
			goqu.I("v.id").As("id"),
			goqu.I("v.plate").As("plate"),
			goqu.I("v.model").As("model"),
			goqu.I("v.type").As("type"),
			goqu.I("v.year").As("year"),
			goqu.I("v.mileage").As("mileage"),
			goqu.I("v.status").As("status"),
			goqu.I("v.created_by").As("created_by"),
			goqu.I("v.created_at").As("created_at"),
			goqu.I("rg.id").As("region_id"),
			goqu.I("rg.name").As("region_name"),
			goqu.I("rg.state_id").As("state_id"),
		).
		Join(goqu.T("regions").As("rg"), goqu.On(goqu.Ex{"rg.id": goqu.I("v.region_id")}))
}

func (r *vehicleRepositoryImpl) GetVehicle(id uuid.UUID) (*models.Vehicle, error) {
	var flat models.FlatVehicleRecord
	query := vehicleQuery(r.repository.GoquDBWrapper).Where(goqu.Ex{"v.id": id.String()})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("vehicle", id)
	}

	vehicle := flat.TransformToVehicle()
	return &vehicle, nil
}

func (r *vehicleRepositoryImpl) GetVehicles(filter VehicleFilter, scope accesspolicy.Scope) ([]models.Vehicle, error) {
	query := vehicleQuery(r.repository.GoquDBWrapper)

	if expr := scope.Expression("v.region_id"); expr != nil {
		query = query.Where(expr)
	}
	if filter.Status != "" {
		query = query.Where(goqu.Ex{"v.status": filter.Status})
	}
	if filter.Type != "" {
		query = query.Where(goqu.Ex{"v.type": filter.Type})
	}

	var flats []models.FlatVehicleRecord
	if err := query.Order(goqu.I("v.plate").Asc()).Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	vehicles := make([]models.Vehicle, 0, len(flats))
	for _, flat := range flats {
		vehicles = append(vehicles, flat.TransformToVehicle())
	}

	return vehicles, nil
}

func (r *vehicleRepositoryImpl) PersistVehicle(req CreateVehicleRequest, createdBy uuid.UUID) (*models.Vehicle, error) {
	var id uuid.UUID
	query := r.repository.GoquDBWrapper.Insert("vehicles").
		Rows(goqu.Record{
			"plate":      req.Plate,
			"model":      req.Model,
			"type":       req.Type,
			"year":       req.Year,
			"mileage":    req.Mileage,
			"status":     string(models.VehicleActive),
			"region_id":  req.RegionID.String(),
			"created_by": createdBy.String(),
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("vehicle plate "+req.Plate, string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert vehicle: %w", err)
	}

	return r.GetVehicle(id)
}

// UpdateVehicleStatus is only ever called by the work-order state machine,
// inside its transaction.
func (r *vehicleRepositoryImpl) UpdateVehicleStatus(tx *goqu.TxDatabase, id uuid.UUID, status models.VehicleStatus) error {
	result, err := tx.Update("vehicles").
		Set(goqu.Record{"status": string(status)}).
		Where(goqu.Ex{"id": id.String()}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update vehicle status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("vehicle", id)
	}

	return nil
}

package regions

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"frota/internal/repository"
	"frota/pkg/apperrors"
	"frota/pkg/models"
)

type RegionRepository struct {
	repository *repository.Repository
}

func NewRegionRepository(r *repository.Repository) *RegionRepository {
	return &RegionRepository{repository: r}
}

func (r *RegionRepository) GetRegion(id uuid.UUID) (*models.Region, error) {
	var region models.Region
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "code", "state_id").
		From("regions").
		Where(goqu.Ex{"id": id.String()})

	found, err := query.Executor().ScanStruct(&region)
	if err != nil {
		return nil, fmt.Errorf("failed to get region: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("region", id)
	}

	return &region, nil
}

func (r *RegionRepository) GetRegions() ([]models.Region, error) {
	var regions []models.Region
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "code", "state_id").
		From("regions").
		Order(goqu.C("name").Asc())

	if err := query.Executor().ScanStructs(&regions); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return regions, nil
}

func (r *RegionRepository) GetStates() ([]models.State, error) {
	var states []models.State
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "code").
		From("states").
		Order(goqu.C("name").Asc())

	if err := query.Executor().ScanStructs(&states); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return states, nil
}

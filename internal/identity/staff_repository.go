package identity

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"frota/internal/accesspolicy"
	"frota/internal/repository"
	"frota/pkg/apperrors"
	"frota/pkg/models"
)

type StaffRepository interface {
	PersistStaff(req CreateStaffRequest, hashedPassword []byte) (*models.StaffMember, error)
	GetStaff(id uuid.UUID) (*models.StaffMember, error)
	GetStaffByAuthUser(authUserID string) (*models.StaffMember, error)
	GetStaffByEmail(email string) (*models.StaffMember, error)
	GetStaffList(scope accesspolicy.Scope) ([]models.StaffMember, error)
	DeactivateStaff(id uuid.UUID) error
}

type staffRepositoryImpl struct {
	repository *repository.Repository
}

func NewStaffRepository(r *repository.Repository) StaffRepository {
	return &staffRepositoryImpl{repository: r}
}

func staffQuery(db *goqu.Database) *goqu.SelectDataset {
	return db.
		From(goqu.T("staff_members").As("sm")).
		Select(
			goqu.I("sm.id").As("id"),
			goqu.I("sm.auth_user_id").As("auth_user_id"),
			goqu.I("sm.name").As("name"),
			goqu.I("sm.email").As("email"),
			goqu.I("sm.registration").As("registration"),
			goqu.I("sm.supervisor_id").As("supervisor_id"),
			goqu.I("sm.active").As("active"),
			goqu.I("sm.password_hash").As("password_hash"),
			goqu.I("sm.created_at").As("created_at"),
			goqu.I("r.id").As("role_id"),
			goqu.I("r.name").As("role_name"),
			goqu.I("r.code").As("role_code"),
			goqu.I("r.level").As("role_level"),
			goqu.I("r.category").As("role_category"),
			goqu.I("rg.id").As("region_id"),
			goqu.I("rg.name").As("region_name"),
			goqu.I("rg.state_id").As("state_id"),
		).
		Join(goqu.T("roles").As("r"), goqu.On(goqu.Ex{"r.id": goqu.I("sm.role_id")})).
		Join(goqu.T("regions").As("rg"), goqu.On(goqu.Ex{"rg.id": goqu.I("sm.region_id")}))
}

func (r *staffRepositoryImpl) getStaffWhere(where goqu.Expression, id interface{}) (*models.StaffMember, error) {
	var flat models.FlatStaffRecord
	query := staffQuery(r.repository.GoquDBWrapper).Where(where)

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("staff_member", id)
	}

	member := flat.TransformToStaffMember()
	return &member, nil
}

func (r *staffRepositoryImpl) GetStaff(id uuid.UUID) (*models.StaffMember, error) {
	return r.getStaffWhere(goqu.Ex{"sm.id": id.String()}, id)
}

func (r *staffRepositoryImpl) GetStaffByAuthUser(authUserID string) (*models.StaffMember, error) {
	return r.getStaffWhere(goqu.Ex{"sm.auth_user_id": authUserID}, authUserID)
}

func (r *staffRepositoryImpl) GetStaffByEmail(email string) (*models.StaffMember, error) {
	return r.getStaffWhere(goqu.Ex{"sm.email": email}, email)
}

func (r *staffRepositoryImpl) GetStaffList(scope accesspolicy.Scope) ([]models.StaffMember, error) {
	query := staffQuery(r.repository.GoquDBWrapper).Where(goqu.Ex{"sm.active": true})
	if expr := scope.Expression("sm.region_id"); expr != nil {
		query = query.Where(expr)
	}

	var flats []models.FlatStaffRecord
	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	members := make([]models.StaffMember, 0, len(flats))
	for _, flat := range flats {
		members = append(members, flat.TransformToStaffMember())
	}

	return members, nil
}

func (r *staffRepositoryImpl) PersistStaff(req CreateStaffRequest, hashedPassword []byte) (*models.StaffMember, error) {
	record := goqu.Record{
		"auth_user_id":  req.AuthUserID,
		"name":          req.Name,
		"email":         req.Email,
		"registration":  req.Registration,
		"password_hash": string(hashedPassword),
		"role_id":       req.RoleID,
		"region_id":     req.RegionID.String(),
		"active":        true,
	}
	if req.SupervisorID != nil {
		record["supervisor_id"] = req.SupervisorID.String()
	}

	var id uuid.UUID
	query := r.repository.GoquDBWrapper.Insert("staff_members").
		Rows(record).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		return nil, fmt.Errorf("failed to insert staff member: %w", err)
	}

	return r.GetStaff(id)
}

func (r *staffRepositoryImpl) DeactivateStaff(id uuid.UUID) error {
	result, err := r.repository.GoquDBWrapper.Update("staff_members").
		Set(goqu.Record{"active": false}).
		Where(goqu.Ex{"id": id.String()}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to deactivate staff member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("staff_member", id)
	}

	return nil
}

package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/models"
	"frota/pkg/security"
)

// The security middleware and login handler consume these through local
// interfaces; keep the concrete types assignable.
var (
	_ security.ActorResolver   = (*Resolver)(nil)
	_ security.CredentialStore = (StaffRepository)(nil)
)

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) PersistStaff(req CreateStaffRequest, hashedPassword []byte) (*models.StaffMember, error) {
	args := m.Called(req, hashedPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) GetStaff(id uuid.UUID) (*models.StaffMember, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) GetStaffByAuthUser(authUserID string) (*models.StaffMember, error) {
	args := m.Called(authUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) GetStaffByEmail(email string) (*models.StaffMember, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) GetStaffList(scope accesspolicy.Scope) ([]models.StaffMember, error) {
	args := m.Called(scope)
	return args.Get(0).([]models.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) DeactivateStaff(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestResolveActor(t *testing.T) {
	repo := new(MockStaffRepository)
	resolver := NewResolver(repo)

	staffID := uuid.New()
	regionID := uuid.New()
	stateID := uuid.New()

	repo.On("GetStaff", staffID).Return(&models.StaffMember{
		ID:     staffID,
		Active: true,
		Role:   models.Role{Level: 4, Category: models.CategoryOperations},
		Region: models.Region{ID: regionID, StateID: stateID},
	}, nil)

	actor, err := resolver.ResolveActor(staffID)

	assert.NoError(t, err)
	assert.Equal(t, staffID, actor.StaffID)
	assert.Equal(t, 4, actor.RoleLevel)
	assert.Equal(t, models.CategoryOperations, actor.RoleCategory)
	assert.Equal(t, regionID, actor.RegionID)
	assert.Equal(t, stateID, actor.StateID)
}

func TestResolveActorInactiveStaff(t *testing.T) {
	repo := new(MockStaffRepository)
	resolver := NewResolver(repo)

	staffID := uuid.New()
	repo.On("GetStaff", staffID).Return(&models.StaffMember{
		ID:     staffID,
		Active: false,
		Role:   models.Role{Level: 6},
	}, nil)

	_, err := resolver.ResolveActor(staffID)

	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestResolveActorUnknownStaff(t *testing.T) {
	repo := new(MockStaffRepository)
	resolver := NewResolver(repo)

	staffID := uuid.New()
	repo.On("GetStaff", staffID).Return(nil, apperrors.NewNotFound("staff_member", staffID))

	_, err := resolver.ResolveActor(staffID)

	assert.True(t, apperrors.IsNotFound(err))
}

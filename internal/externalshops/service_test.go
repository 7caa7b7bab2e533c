package externalshops

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/models"
	"frota/pkg/roles"
)

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) PersistShop(req ShopRequest) (*models.ExternalShop, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExternalShop), args.Error(1)
}

func (m *MockShopRepository) GetShop(id int) (*models.ExternalShop, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExternalShop), args.Error(1)
}

func (m *MockShopRepository) GetShops() ([]models.ExternalShop, error) {
	args := m.Called()
	return args.Get(0).([]models.ExternalShop), args.Error(1)
}

func (m *MockShopRepository) UpdateShop(id int, req ShopRequest) (*models.ExternalShop, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExternalShop), args.Error(1)
}

func (m *MockShopRepository) DeleteShop(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockShopRepository) InsertService(service models.ExternalService) (int, error) {
	args := m.Called(service)
	return args.Int(0), args.Error(1)
}

func (m *MockShopRepository) GetService(id int) (*models.ExternalService, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExternalService), args.Error(1)
}

func (m *MockShopRepository) GetServicesByWorkOrder(workOrderID int) ([]models.ExternalService, error) {
	args := m.Called(workOrderID)
	return args.Get(0).([]models.ExternalService), args.Error(1)
}

func (m *MockShopRepository) MarkReturned(id int, returnedAt time.Time) (int64, error) {
	args := m.Called(id, returnedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShopRepository) DeleteService(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockOrderLookup struct {
	mock.Mock
}

func (m *MockOrderLookup) GetWorkOrder(id int) (*models.WorkOrder, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

type shopFixture struct {
	shops   *MockShopRepository
	orders  *MockOrderLookup
	service *ShopService

	regionID uuid.UUID
	stateID  uuid.UUID
	actor    accesspolicy.Actor
	now      time.Time
}

func newShopFixture(t *testing.T) *shopFixture {
	t.Helper()

	f := &shopFixture{
		shops:    new(MockShopRepository),
		orders:   new(MockOrderLookup),
		regionID: uuid.New(),
		stateID:  uuid.New(),
		now:      time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
	}
	f.actor = accesspolicy.Actor{
		StaffID:   uuid.New(),
		RoleLevel: roles.SupervisorLevel,
		RegionID:  f.regionID,
		StateID:   f.stateID,
	}

	policy := accesspolicy.NewEngine(accesspolicy.DefaultConfig())
	f.service = NewShopService(f.shops, f.orders, policy, nil).
		WithClock(func() time.Time { return f.now })

	return f
}

func (f *shopFixture) openOrder() *models.WorkOrder {
	return &models.WorkOrder{
		ID:     42,
		Status: models.OrderExternalShop,
		Region: models.Region{ID: f.regionID, StateID: f.stateID},
	}
}

func TestSendStampsServerTime(t *testing.T) {
	f := newShopFixture(t)
	shop := &models.ExternalShop{ID: 7, Name: "Retifica Central"}

	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)
	f.shops.On("GetShop", 7).Return(shop, nil)
	f.shops.On("InsertService", mock.MatchedBy(func(service models.ExternalService) bool {
		return service.WorkOrderID == 42 &&
			service.ShopID == 7 &&
			service.Cost == 850 &&
			service.SentAt.Equal(f.now)
	})).Return(11, nil)
	f.shops.On("GetService", 11).Return(&models.ExternalService{
		ID:          11,
		WorkOrderID: 42,
		ShopID:      7,
		Cost:        850,
		SentAt:      f.now,
	}, nil)

	service, err := f.service.Send(42, SendServiceRequest{
		ShopID:      7,
		Description: "engine head rebuild",
		Cost:        850,
	}, f.actor)

	require.NoError(t, err)
	assert.Equal(t, 11, service.ID)
	assert.True(t, service.SentAt.Equal(f.now))
	f.shops.AssertExpectations(t)
}

func TestSendRejectsClosedOrder(t *testing.T) {
	f := newShopFixture(t)
	order := f.openOrder()
	order.Status = models.OrderCompleted

	f.orders.On("GetWorkOrder", 42).Return(order, nil)

	_, err := f.service.Send(42, SendServiceRequest{ShopID: 7, Description: "paint"}, f.actor)

	assert.True(t, apperrors.IsValidation(err))
	f.shops.AssertNotCalled(t, "InsertService")
}

func TestSendRejectsNegativeCost(t *testing.T) {
	f := newShopFixture(t)

	_, err := f.service.Send(42, SendServiceRequest{ShopID: 7, Description: "paint", Cost: -1}, f.actor)

	assert.True(t, apperrors.IsValidation(err))
	f.orders.AssertNotCalled(t, "GetWorkOrder")
}

func TestSendDeniedOutsideRegion(t *testing.T) {
	f := newShopFixture(t)
	f.actor.RegionID = uuid.New()
	f.actor.StateID = uuid.New()

	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)

	_, err := f.service.Send(42, SendServiceRequest{ShopID: 7, Description: "paint"}, f.actor)

	assert.True(t, apperrors.IsUnauthorized(err))
	f.shops.AssertNotCalled(t, "InsertService")
}

func TestSendRejectsUnknownShop(t *testing.T) {
	f := newShopFixture(t)

	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)
	f.shops.On("GetShop", 7).Return(nil, apperrors.NewNotFound("external_shop", 7))

	_, err := f.service.Send(42, SendServiceRequest{ShopID: 7, Description: "paint"}, f.actor)

	assert.True(t, apperrors.IsNotFound(err))
	f.shops.AssertNotCalled(t, "InsertService")
}

func TestReturnDefaultsToServerTime(t *testing.T) {
	f := newShopFixture(t)
	open := &models.ExternalService{ID: 11, WorkOrderID: 42, ShopID: 7, SentAt: f.now.AddDate(0, 0, -3)}

	f.shops.On("GetService", 11).Return(open, nil).Once()
	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)
	f.shops.On("MarkReturned", 11, f.now).Return(int64(1), nil)

	closed := *open
	closed.ReturnedAt = &f.now
	f.shops.On("GetService", 11).Return(&closed, nil)

	service, err := f.service.Return(11, nil, f.actor)

	require.NoError(t, err)
	require.NotNil(t, service.ReturnedAt)
	assert.True(t, service.ReturnedAt.Equal(f.now))
}

func TestReturnRejectsAlreadyReturned(t *testing.T) {
	f := newShopFixture(t)
	returned := f.now.AddDate(0, 0, -1)
	service := &models.ExternalService{ID: 11, WorkOrderID: 42, ShopID: 7, ReturnedAt: &returned}

	f.shops.On("GetService", 11).Return(service, nil)
	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)
	f.shops.On("MarkReturned", 11, f.now).Return(int64(0), nil)

	_, err := f.service.Return(11, nil, f.actor)

	assert.True(t, apperrors.IsValidation(err))
}

func TestServicesForOrderDeniedOutsideRegion(t *testing.T) {
	f := newShopFixture(t)
	f.actor.RegionID = uuid.New()
	f.actor.StateID = uuid.New()

	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)

	_, err := f.service.ServicesForOrder(42, f.actor)

	assert.True(t, apperrors.IsUnauthorized(err))
	f.shops.AssertNotCalled(t, "GetServicesByWorkOrder")
}

func TestRemoveDeletesService(t *testing.T) {
	f := newShopFixture(t)
	service := &models.ExternalService{ID: 11, WorkOrderID: 42, ShopID: 7}

	f.shops.On("GetService", 11).Return(service, nil)
	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)
	f.shops.On("DeleteService", 11).Return(nil)

	err := f.service.Remove(11, f.actor)

	require.NoError(t, err)
	f.shops.AssertExpectations(t)
}

package inventory

import (
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
	"frota/pkg/models"
	"frota/pkg/roles"
)

type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) PersistPart(req CreatePartRequest) (*models.Part, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Part), args.Error(1)
}

func (m *MockPartRepository) GetPart(id int) (*models.Part, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Part), args.Error(1)
}

func (m *MockPartRepository) GetPartTx(tx *goqu.TxDatabase, id int) (*models.Part, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Part), args.Error(1)
}

func (m *MockPartRepository) GetParts(filter PartFilter) ([]models.Part, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Part), args.Error(1)
}

func (m *MockPartRepository) GetLowStockParts() ([]models.Part, error) {
	args := m.Called()
	return args.Get(0).([]models.Part), args.Error(1)
}

func (m *MockPartRepository) DecrementStock(tx *goqu.TxDatabase, partID, quantity int) (int64, error) {
	args := m.Called(tx, partID, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartRepository) RestoreStock(tx *goqu.TxDatabase, partID, quantity int) error {
	args := m.Called(tx, partID, quantity)
	return args.Error(0)
}

func (m *MockPartRepository) InsertUsage(tx *goqu.TxDatabase, usage models.PartUsage) (int, error) {
	args := m.Called(tx, usage)
	return args.Int(0), args.Error(1)
}

func (m *MockPartRepository) GetUsage(id int) (*models.PartUsage, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartUsage), args.Error(1)
}

func (m *MockPartRepository) GetUsagesByWorkOrder(workOrderID int) ([]models.PartUsage, error) {
	args := m.Called(workOrderID)
	return args.Get(0).([]models.PartUsage), args.Error(1)
}

func (m *MockPartRepository) DeleteUsage(tx *goqu.TxDatabase, id int) error {
	args := m.Called(tx, id)
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

type fakeTransactor struct{}

func (fakeTransactor) WithTx(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type usageFixture struct {
	parts   *MockPartRepository
	orders  *MockOrderLookup
	service *UsageService

	regionID uuid.UUID
	stateID  uuid.UUID
	actor    accesspolicy.Actor
	now      time.Time
}

func newUsageFixture(t *testing.T) *usageFixture {
	t.Helper()

	f := &usageFixture{
		parts:    new(MockPartRepository),
		orders:   new(MockOrderLookup),
		regionID: uuid.New(),
		stateID:  uuid.New(),
		now:      time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC),
	}
	f.actor = accesspolicy.Actor{
		StaffID:   uuid.New(),
		RoleLevel: roles.SupervisorLevel,
		RegionID:  f.regionID,
		StateID:   f.stateID,
	}

	policy := accesspolicy.NewEngine(accesspolicy.DefaultConfig())
	f.service = NewUsageService(fakeTransactor{}, f.parts, f.orders, policy, nil).
		WithClock(func() time.Time { return f.now })

	return f
}

func (f *usageFixture) openOrder() *models.WorkOrder {
	return &models.WorkOrder{
		ID:     42,
		Status: models.OrderDiagnosis,
		Region: models.Region{ID: f.regionID, StateID: f.stateID},
	}
}

func TestConsumeSnapshotsUnitCost(t *testing.T) {
	f := newUsageFixture(t)
	part := &models.Part{ID: 5, Name: "brake pad", UnitCost: 49.90, StockQuantity: 10}

	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)
	f.parts.On("GetPartTx", mock.Anything, 5).Return(part, nil)
	f.parts.On("DecrementStock", mock.Anything, 5, 3).Return(int64(1), nil)
	f.parts.On("InsertUsage", mock.Anything, mock.MatchedBy(func(usage models.PartUsage) bool {
		return usage.WorkOrderID == 42 &&
			usage.PartID == 5 &&
			usage.Quantity == 3 &&
			usage.UnitCost == 49.90 &&
			usage.UsedAt.Equal(f.now)
	})).Return(77, nil)
	f.parts.On("GetUsage", 77).Return(&models.PartUsage{ID: 77, WorkOrderID: 42, PartID: 5, Quantity: 3, UnitCost: 49.90}, nil)

	usage, err := f.service.Consume(42, ConsumeRequest{PartID: 5, Quantity: 3}, f.actor)

	assert.NoError(t, err)
	assert.InDelta(t, 149.70, usage.TotalCost(), 1e-9)
	f.parts.AssertExpectations(t)
}

func TestConsumeOverrideUnitCost(t *testing.T) {
	f := newUsageFixture(t)
	part := &models.Part{ID: 5, UnitCost: 49.90, StockQuantity: 10}
	override := 60.0

	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)
	f.parts.On("GetPartTx", mock.Anything, 5).Return(part, nil)
	f.parts.On("DecrementStock", mock.Anything, 5, 1).Return(int64(1), nil)
	f.parts.On("InsertUsage", mock.Anything, mock.MatchedBy(func(usage models.PartUsage) bool {
		return usage.UnitCost == override
	})).Return(78, nil)
	f.parts.On("GetUsage", 78).Return(&models.PartUsage{ID: 78, UnitCost: override, Quantity: 1}, nil)

	_, err := f.service.Consume(42, ConsumeRequest{PartID: 5, Quantity: 1, UnitCost: &override}, f.actor)

	assert.NoError(t, err)
	f.parts.AssertExpectations(t)
}

func TestConsumeInsufficientStock(t *testing.T) {
	f := newUsageFixture(t)
	part := &models.Part{ID: 5, StockQuantity: 2}

	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)
	f.parts.On("GetPartTx", mock.Anything, 5).Return(part, nil)
	f.parts.On("DecrementStock", mock.Anything, 5, 3).Return(int64(0), nil)

	_, err := f.service.Consume(42, ConsumeRequest{PartID: 5, Quantity: 3}, f.actor)

	assert.True(t, apperrors.IsInsufficientStock(err))

	var stockErr *apperrors.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	f.parts.AssertNotCalled(t, "InsertUsage", mock.Anything, mock.Anything)
}

func TestConsumeRejectsNonPositiveQuantity(t *testing.T) {
	f := newUsageFixture(t)

	for _, quantity := range []int{0, -1} {
		_, err := f.service.Consume(42, ConsumeRequest{PartID: 5, Quantity: quantity}, f.actor)
		assert.True(t, apperrors.IsValidation(err))
	}
	f.orders.AssertNotCalled(t, "GetWorkOrder", mock.Anything)
}

func TestConsumeRejectsClosedOrder(t *testing.T) {
	f := newUsageFixture(t)

	closed := f.openOrder()
	closed.Status = models.OrderCompleted
	f.orders.On("GetWorkOrder", 42).Return(closed, nil)

	_, err := f.service.Consume(42, ConsumeRequest{PartID: 5, Quantity: 1}, f.actor)

	assert.True(t, apperrors.IsValidation(err))
	f.parts.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsumeDeniedOutsideRegion(t *testing.T) {
	f := newUsageFixture(t)

	outsider := f.actor
	outsider.RegionID = uuid.New()

	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)

	_, err := f.service.Consume(42, ConsumeRequest{PartID: 5, Quantity: 1}, outsider)

	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestReleaseRestoresStock(t *testing.T) {
	f := newUsageFixture(t)
	usage := &models.PartUsage{ID: 77, WorkOrderID: 42, PartID: 5, Quantity: 3}

	f.parts.On("GetUsage", 77).Return(usage, nil)
	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)
	f.parts.On("DeleteUsage", mock.Anything, 77).Return(nil)
	f.parts.On("RestoreStock", mock.Anything, 5, 3).Return(nil)

	err := f.service.Release(77, f.actor)

	assert.NoError(t, err)
	f.parts.AssertExpectations(t)
}

func TestReleaseUnknownUsage(t *testing.T) {
	f := newUsageFixture(t)

	f.parts.On("GetUsage", 77).Return(nil, apperrors.NewNotFound("part_usage", 77))

	err := f.service.Release(77, f.actor)

	assert.True(t, apperrors.IsNotFound(err))
}

func TestUsagesForOrderChecksView(t *testing.T) {
	f := newUsageFixture(t)

	outsider := f.actor
	outsider.RegionID = uuid.New()

	f.orders.On("GetWorkOrder", 42).Return(f.openOrder(), nil)

	_, err := f.service.UsagesForOrder(42, outsider)
	assert.True(t, apperrors.IsUnauthorized(err))

	f.parts.On("GetUsagesByWorkOrder", 42).Return([]models.PartUsage{}, nil)
	usages, err := f.service.UsagesForOrder(42, f.actor)
	assert.NoError(t, err)
	assert.Empty(t, usages)
}

package services

import (
	"context"
	"time"

	"procurehub/internal/models"
	"procurehub/internal/repositories"
	"procurehub/internal/seed"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, departmentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) ReferencedParentIDs(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockCategoryRepository) DeleteExcept(ctx context.Context, departmentID uuid.UUID, keep []uuid.UUID) (int64, error) {
	args := m.Called(ctx, departmentID, keep)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) DeleteByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, departmentID)
	return args.Get(0).(int64), args.Error(1)
}

type MockDepartmentRepository struct {
	mock.Mock
}

func (m *MockDepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	args := m.Called(ctx, department)
	return args.Error(0)
}

func (m *MockDepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockDepartmentRepository) GetByName(ctx context.Context, name string) (*models.Department, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockDepartmentRepository) List(ctx context.Context) ([]*models.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Department), args.Error(1)
}

func (m *MockDepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDepartmentRepository) AcquireMaintenanceLock(ctx context.Context, id uuid.UUID) (repositories.MaintenanceUnlock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repositories.MaintenanceUnlock), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.User, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) ReassignDepartment(ctx context.Context, fromDepartmentID uuid.UUID, toDepartmentID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, fromDepartmentID, toDepartmentID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPurchaseRequestRepository struct {
	mock.Mock
}

func (m *MockPurchaseRequestRepository) Create(ctx context.Context, request *models.PurchaseRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockPurchaseRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseRequest), args.Error(1)
}

func (m *MockPurchaseRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPurchaseRequestRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.PurchaseRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PurchaseRequest), args.Error(1)
}

func (m *MockPurchaseRequestRepository) RewriteBudgetCategory(ctx context.Context, oldName, newName string) (int64, error) {
	args := m.Called(ctx, oldName, newName)
	return args.Get(0).(int64), args.Error(1)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Supplier), args.Error(1)
}

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, order *models.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetForest(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCacheService) SetForest(ctx context.Context, departmentID uuid.UUID, forest []*models.Category, ttl time.Duration) error {
	args := m.Called(ctx, departmentID, forest, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateForest(ctx context.Context, departmentID uuid.UUID) error {
	args := m.Called(ctx, departmentID)
	return args.Error(0)
}

func (m *MockCacheService) GetDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockCacheService) SetDepartment(ctx context.Context, department *models.Department, ttl time.Duration) error {
	args := m.Called(ctx, department, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDepartment(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type MockHierarchyService struct {
	mock.Mock
}

func (m *MockHierarchyService) EnsureDepartment(ctx context.Context, name string) (*models.Department, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockHierarchyService) LoadHierarchy(ctx context.Context, department *models.Department, branch string, forest seed.Forest) error {
	args := m.Called(ctx, department, branch, forest)
	return args.Error(0)
}

func (m *MockHierarchyService) PurgeDepartment(ctx context.Context, departmentID uuid.UUID) error {
	args := m.Called(ctx, departmentID)
	return args.Error(0)
}

func (m *MockHierarchyService) Reseed(ctx context.Context, department *models.Department, branch string, forest seed.Forest) error {
	args := m.Called(ctx, department, branch, forest)
	return args.Error(0)
}

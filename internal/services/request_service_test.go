package services

import (
	"context"
	"errors"
	"testing"

	"procurehub/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RequestServiceTestSuite struct {
	suite.Suite
	requestRepo  *MockPurchaseRequestRepository
	orderRepo    *MockPurchaseOrderRepository
	supplierRepo *MockSupplierRepository
	service      RequestService
	ctx          context.Context
}

func (suite *RequestServiceTestSuite) SetupTest() {
	suite.requestRepo = &MockPurchaseRequestRepository{}
	suite.orderRepo = &MockPurchaseOrderRepository{}
	suite.supplierRepo = &MockSupplierRepository{}
	suite.service = NewRequestService(suite.requestRepo, suite.orderRepo, suite.supplierRepo)
	suite.ctx = context.Background()

	suite.requestRepo.Test(suite.T())
	suite.orderRepo.Test(suite.T())
	suite.supplierRepo.Test(suite.T())
}

func (suite *RequestServiceTestSuite) TearDownTest() {
	suite.requestRepo.AssertExpectations(suite.T())
	suite.orderRepo.AssertExpectations(suite.T())
	suite.supplierRepo.AssertExpectations(suite.T())
}

func TestRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceTestSuite))
}

func (suite *RequestServiceTestSuite) pendingRequest() *models.PurchaseRequest {
	return &models.PurchaseRequest{
		ID:             uuid.New(),
		RequesterID:    uuid.New(),
		DepartmentID:   uuid.New(),
		BudgetCategory: "Chessington",
		Amount:         decimal.NewFromInt(800),
		Status:         models.RequestStatusPending,
	}
}

func (suite *RequestServiceTestSuite) TestSubmitRequest_DefaultsToPending() {
	request := &models.PurchaseRequest{
		RequesterID:    uuid.New(),
		DepartmentID:   uuid.New(),
		BudgetCategory: "Chessington",
		Amount:         decimal.NewFromInt(100),
	}

	suite.requestRepo.On("Create", suite.ctx, request).Return(nil).Once()

	err := suite.service.SubmitRequest(suite.ctx, request)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RequestStatusPending, request.Status)
	assert.NotEqual(suite.T(), uuid.Nil, request.ID)
}

func (suite *RequestServiceTestSuite) TestSubmitRequest_RejectsNonPositiveAmount() {
	request := &models.PurchaseRequest{
		BudgetCategory: "Chessington",
		Amount:         decimal.Zero,
	}

	err := suite.service.SubmitRequest(suite.ctx, request)
	assert.Error(suite.T(), err)
	suite.requestRepo.AssertNotCalled(suite.T(), "Create", suite.ctx, request)
}

func (suite *RequestServiceTestSuite) TestSubmitRequest_ValidatesNamedSupplier() {
	supplierID := uuid.New()
	request := &models.PurchaseRequest{
		RequesterID:    uuid.New(),
		DepartmentID:   uuid.New(),
		SupplierID:     &supplierID,
		BudgetCategory: "Chessington",
		Amount:         decimal.NewFromInt(100),
	}

	suite.supplierRepo.On("GetByID", suite.ctx, supplierID).
		Return(&models.Supplier{ID: supplierID, Name: "Acme Office Ltd"}, nil).Once()
	suite.requestRepo.On("Create", suite.ctx, request).Return(nil).Once()

	err := suite.service.SubmitRequest(suite.ctx, request)
	assert.NoError(suite.T(), err)
}

func (suite *RequestServiceTestSuite) TestSubmitRequest_RejectsUnknownSupplier() {
	supplierID := uuid.New()
	request := &models.PurchaseRequest{
		RequesterID:    uuid.New(),
		DepartmentID:   uuid.New(),
		SupplierID:     &supplierID,
		BudgetCategory: "Chessington",
		Amount:         decimal.NewFromInt(100),
	}

	suite.supplierRepo.On("GetByID", suite.ctx, supplierID).
		Return(nil, errors.New("no rows in result set")).Once()

	err := suite.service.SubmitRequest(suite.ctx, request)
	assert.Error(suite.T(), err)
	suite.requestRepo.AssertNotCalled(suite.T(), "Create", suite.ctx, request)
}

func (suite *RequestServiceTestSuite) TestSubmitRequest_RequiresBudgetCategory() {
	request := &models.PurchaseRequest{Amount: decimal.NewFromInt(50)}

	err := suite.service.SubmitRequest(suite.ctx, request)
	assert.Error(suite.T(), err)
}

func (suite *RequestServiceTestSuite) TestApproveRequest_CreatesSentOrder() {
	request := suite.pendingRequest()

	suite.requestRepo.On("GetByID", suite.ctx, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("UpdateStatus", suite.ctx, request.ID, models.RequestStatusApproved).Return(nil).Once()
	suite.orderRepo.On("Create", suite.ctx, mock.MatchedBy(func(o *models.PurchaseOrder) bool {
		return o.RequestID == request.ID &&
			o.Status == models.OrderStatusSent &&
			o.Total.Equal(request.Amount)
	})).Return(nil).Once()

	order, err := suite.service.ApproveRequest(suite.ctx, request.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusSent, order.Status)
	assert.Equal(suite.T(), request.ID, order.RequestID)
}

func (suite *RequestServiceTestSuite) TestApproveRequest_RejectsNonPending() {
	request := suite.pendingRequest()
	request.Status = models.RequestStatusRejected

	suite.requestRepo.On("GetByID", suite.ctx, request.ID).Return(request, nil).Once()

	order, err := suite.service.ApproveRequest(suite.ctx, request.ID)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), order)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", suite.ctx, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestRejectRequest() {
	request := suite.pendingRequest()

	suite.requestRepo.On("GetByID", suite.ctx, request.ID).Return(request, nil).Once()
	suite.requestRepo.On("UpdateStatus", suite.ctx, request.ID, models.RequestStatusRejected).Return(nil).Once()

	err := suite.service.RejectRequest(suite.ctx, request.ID)
	assert.NoError(suite.T(), err)
}

func (suite *RequestServiceTestSuite) TestRejectRequest_RejectsAlreadyApproved() {
	request := suite.pendingRequest()
	request.Status = models.RequestStatusApproved

	suite.requestRepo.On("GetByID", suite.ctx, request.ID).Return(request, nil).Once()

	err := suite.service.RejectRequest(suite.ctx, request.ID)
	assert.Error(suite.T(), err)
}

func (suite *RequestServiceTestSuite) TestCompleteOrder() {
	order := &models.PurchaseOrder{
		ID:     uuid.New(),
		Status: models.OrderStatusSent,
	}

	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil).Once()
	suite.orderRepo.On("UpdateStatus", suite.ctx, order.ID, models.OrderStatusCompleted).Return(nil).Once()

	err := suite.service.CompleteOrder(suite.ctx, order.ID)
	assert.NoError(suite.T(), err)
}

func (suite *RequestServiceTestSuite) TestCompleteOrder_RejectsAlreadyCompleted() {
	order := &models.PurchaseOrder{
		ID:     uuid.New(),
		Status: models.OrderStatusCompleted,
	}

	suite.orderRepo.On("GetByID", suite.ctx, order.ID).Return(order, nil).Once()

	err := suite.service.CompleteOrder(suite.ctx, order.ID)
	assert.Error(suite.T(), err)
}

package services

import (
	"context"
	"fmt"
	"time"

	"procurehub/internal/models"
	"procurehub/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestService drives the purchase request workflow:
// PENDING -> APPROVED (spawns a purchase order, SENT -> COMPLETED) or REJECTED.
type RequestService interface {
	SubmitRequest(ctx context.Context, request *models.PurchaseRequest) error
	ApproveRequest(ctx context.Context, requestID uuid.UUID) (*models.PurchaseOrder, error)
	RejectRequest(ctx context.Context, requestID uuid.UUID) error
	CompleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type requestService struct {
	requestRepo  repositories.PurchaseRequestRepository
	orderRepo    repositories.PurchaseOrderRepository
	supplierRepo repositories.SupplierRepository
}

func NewRequestService(requestRepo repositories.PurchaseRequestRepository, orderRepo repositories.PurchaseOrderRepository,
	supplierRepo repositories.SupplierRepository) RequestService {
	return &requestService{requestRepo: requestRepo, orderRepo: orderRepo, supplierRepo: supplierRepo}
}

func (s *requestService) SubmitRequest(ctx context.Context, request *models.PurchaseRequest) error {
	if request.Amount.IsNegative() || request.Amount.IsZero() {
		return fmt.Errorf("request amount must be positive, got %s", request.Amount)
	}
	if request.BudgetCategory == "" {
		return fmt.Errorf("request needs a budget category")
	}
	if request.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *request.SupplierID); err != nil {
			return fmt.Errorf("look up supplier %s: %w", *request.SupplierID, err)
		}
	}

	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	request.Status = models.RequestStatusPending

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return fmt.Errorf("create purchase request: %w", err)
	}
	return nil
}

// ApproveRequest moves a pending request to APPROVED and raises the matching
// purchase order in SENT state.
func (s *requestService) ApproveRequest(ctx context.Context, requestID uuid.UUID) (*models.PurchaseOrder, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load purchase request: %w", err)
	}
	if request.Status != models.RequestStatusPending {
		return nil, fmt.Errorf("can only approve requests with status %q, current status: %s",
			models.RequestStatusPending, request.Status)
	}

	if err := s.requestRepo.UpdateStatus(ctx, requestID, models.RequestStatusApproved); err != nil {
		return nil, fmt.Errorf("approve purchase request: %w", err)
	}

	order := &models.PurchaseOrder{
		ID:         uuid.New(),
		RequestID:  request.ID,
		SupplierID: request.SupplierID,
		Total:      request.Amount,
		OrderDate:  time.Now(),
		Status:     models.OrderStatusSent,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}

	log.Info().
		Stringer("request_id", request.ID).
		Stringer("order_id", order.ID).
		Msg("purchase request approved")
	return order, nil
}

func (s *requestService) RejectRequest(ctx context.Context, requestID uuid.UUID) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("load purchase request: %w", err)
	}
	if request.Status != models.RequestStatusPending {
		return fmt.Errorf("can only reject requests with status %q, current status: %s",
			models.RequestStatusPending, request.Status)
	}
	if err := s.requestRepo.UpdateStatus(ctx, requestID, models.RequestStatusRejected); err != nil {
		return fmt.Errorf("reject purchase request: %w", err)
	}
	return nil
}

func (s *requestService) CompleteOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load purchase order: %w", err)
	}
	if order.Status != models.OrderStatusSent {
		return fmt.Errorf("can only complete orders with status %q, current status: %s",
			models.OrderStatusSent, order.Status)
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, models.OrderStatusCompleted); err != nil {
		return fmt.Errorf("complete purchase order: %w", err)
	}
	return nil
}

package repositories

import (
	"context"

	"procurehub/internal/models"

	"github.com/google/uuid"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *models.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type purchaseOrderRepo struct {
	db Database
}

func NewPurchaseOrderRepo(db Database) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) Create(ctx context.Context, order *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, request_id, supplier_id, total, order_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.RequestID, order.SupplierID,
		order.Total, order.OrderDate, order.Status)
	return err
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}
	query := `
		SELECT id, request_id, supplier_id, total, order_date, status, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.RequestID, &order.SupplierID,
		&order.Total, &order.OrderDate, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *purchaseOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE purchase_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

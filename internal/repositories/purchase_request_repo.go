package repositories

import (
	"context"

	"procurehub/internal/models"

	"github.com/google/uuid"
)

type PurchaseRequestRepository interface {
	Create(ctx context.Context, request *models.PurchaseRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.PurchaseRequest, error)
	RewriteBudgetCategory(ctx context.Context, oldName, newName string) (int64, error)
}

type purchaseRequestRepo struct {
	db Database
}

func NewPurchaseRequestRepo(db Database) PurchaseRequestRepository {
	return &purchaseRequestRepo{db: db}
}

func (r *purchaseRequestRepo) Create(ctx context.Context, request *models.PurchaseRequest) error {
	query := `
		INSERT INTO purchase_requests (id, requester_id, department_id, supplier_id, budget_category, description, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, request.ID, request.RequesterID, request.DepartmentID,
		request.SupplierID, request.BudgetCategory, request.Description, request.Amount, request.Status)
	return err
}

func (r *purchaseRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	request := &models.PurchaseRequest{}
	query := `
		SELECT id, requester_id, department_id, supplier_id, budget_category, description, amount, status, created_at, updated_at
		FROM purchase_requests
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&request.ID, &request.RequesterID, &request.DepartmentID,
		&request.SupplierID, &request.BudgetCategory, &request.Description, &request.Amount,
		&request.Status, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (r *purchaseRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE purchase_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *purchaseRequestRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.PurchaseRequest, error) {
	query := `
		SELECT id, requester_id, department_id, supplier_id, budget_category, description, amount, status, created_at, updated_at
		FROM purchase_requests
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.PurchaseRequest
	for rows.Next() {
		request := &models.PurchaseRequest{}
		if err := rows.Scan(&request.ID, &request.RequesterID, &request.DepartmentID,
			&request.SupplierID, &request.BudgetCategory, &request.Description, &request.Amount,
			&request.Status, &request.CreatedAt, &request.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// RewriteBudgetCategory repoints every request referencing oldName at newName.
// Used when a legacy department is merged into its canonical spelling.
func (r *purchaseRequestRepo) RewriteBudgetCategory(ctx context.Context, oldName, newName string) (int64, error) {
	query := `
		UPDATE purchase_requests
		SET budget_category = $1, updated_at = NOW()
		WHERE budget_category = $2
	`
	tag, err := r.db.Exec(ctx, query, newName, oldName)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

package repositories

import (
	"context"

	"procurehub/internal/models"

	"github.com/google/uuid"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, limit, offset int) ([]*models.Supplier, error)
}

type supplierRepo struct {
	db Database
}

func NewSupplierRepo(db Database) SupplierRepository {
	return &supplierRepo{db: db}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, contact_email, contact_phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, supplier.ID, supplier.Name, supplier.ContactEmail,
		supplier.ContactPhone, supplier.Address)
	return err
}

func (r *supplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	query := `
		SELECT id, name, contact_email, contact_phone, address, created_at, updated_at
		FROM suppliers
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&supplier.ID, &supplier.Name, &supplier.ContactEmail,
		&supplier.ContactPhone, &supplier.Address, &supplier.CreatedAt, &supplier.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *supplierRepo) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	query := `
		SELECT id, name, contact_email, contact_phone, address, created_at, updated_at
		FROM suppliers
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		supplier := &models.Supplier{}
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.ContactEmail,
			&supplier.ContactPhone, &supplier.Address, &supplier.CreatedAt, &supplier.UpdatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}

package repositories

import (
	"context"
	"errors"

	"procurehub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MaintenanceUnlock releases a department maintenance lock.
type MaintenanceUnlock func(ctx context.Context) error

type DepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error)
	GetByName(ctx context.Context, name string) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AcquireMaintenanceLock(ctx context.Context, id uuid.UUID) (MaintenanceUnlock, error)
}

type departmentRepo struct {
	db Database
}

func NewDepartmentRepo(db Database) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) Create(ctx context.Context, department *models.Department) error {
	query := `
		INSERT INTO departments (id, name, budget, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (name) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, department.ID, department.Name, department.Budget)
	return err
}

func (r *departmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	department := &models.Department{}
	query := `
		SELECT id, name, budget, created_at, updated_at
		FROM departments
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&department.ID, &department.Name,
		&department.Budget, &department.CreatedAt, &department.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return department, nil
}

// GetByName returns (nil, nil) when no department carries the name.
func (r *departmentRepo) GetByName(ctx context.Context, name string) (*models.Department, error) {
	department := &models.Department{}
	query := `
		SELECT id, name, budget, created_at, updated_at
		FROM departments
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&department.ID, &department.Name,
		&department.Budget, &department.CreatedAt, &department.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return department, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]*models.Department, error) {
	query := `
		SELECT id, name, budget, created_at, updated_at
		FROM departments
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		department := &models.Department{}
		if err := rows.Scan(&department.ID, &department.Name, &department.Budget,
			&department.CreatedAt, &department.UpdatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

func (r *departmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM departments WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// AcquireMaintenanceLock takes a transaction-scoped advisory lock keyed on the
// department id. The transaction pins one pooled connection for the lock's
// whole lifetime; a session-level lock taken through the pool could be
// unlocked on a different connection, where pg_advisory_unlock silently
// no-ops and strands the lock. Concurrent reseed or purge runs against the
// same department block here instead of racing on parent resolution and leaf
// peeling. The returned MaintenanceUnlock commits the transaction, which
// releases the lock.
func (r *departmentRepo) AcquireMaintenanceLock(ctx context.Context, id uuid.UUID) (MaintenanceUnlock, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, id.String()); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	return func(ctx context.Context) error {
		return tx.Commit(ctx)
	}, nil
}

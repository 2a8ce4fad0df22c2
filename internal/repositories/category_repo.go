package repositories

import (
	"context"

	"procurehub/internal/models"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error)
	CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
	ReferencedParentIDs(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error)
	DeleteExcept(ctx context.Context, departmentID uuid.UUID, keep []uuid.UUID) (int64, error)
	DeleteByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
}

type categoryRepo struct {
	db Database
}

func NewCategoryRepo(db Database) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, parent_id, department_id, branch, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, category.ID, category.Name, category.ParentID,
		category.DepartmentID, category.Branch)
	return err
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, name, parent_id, department_id, branch, created_at, updated_at
		FROM categories
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name, &category.ParentID,
		&category.DepartmentID, &category.Branch, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error) {
	query := `
		SELECT id, name, parent_id, department_id, branch, created_at, updated_at
		FROM categories
		WHERE department_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.ParentID,
			&category.DepartmentID, &category.Branch, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM categories WHERE department_id = $1`
	if err := r.db.QueryRow(ctx, query, departmentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ReferencedParentIDs returns the ids of every category in the department that
// currently has at least one child.
func (r *categoryRepo) ReferencedParentIDs(ctx context.Context, departmentID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT parent_id
		FROM categories
		WHERE department_id = $1 AND parent_id IS NOT NULL
	`
	rows, err := r.db.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteExcept bulk-deletes every category in the department whose id is not in
// keep. With an empty keep set it clears the whole department.
func (r *categoryRepo) DeleteExcept(ctx context.Context, departmentID uuid.UUID, keep []uuid.UUID) (int64, error) {
	if keep == nil {
		keep = []uuid.UUID{}
	}
	query := `DELETE FROM categories WHERE department_id = $1 AND NOT (id = ANY($2))`
	tag, err := r.db.Exec(ctx, query, departmentID, keep)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *categoryRepo) DeleteByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	query := `DELETE FROM categories WHERE department_id = $1`
	tag, err := r.db.Exec(ctx, query, departmentID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

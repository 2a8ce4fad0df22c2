package repositories

import (
	"context"

	"procurehub/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.User, error)
	ReassignDepartment(ctx context.Context, fromDepartmentID uuid.UUID, toDepartmentID *uuid.UUID) (int64, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, department_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.FirstName, user.LastName,
		user.DepartmentID, user.Status)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, first_name, last_name, department_id, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.FirstName,
		&user.LastName, &user.DepartmentID, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.User, error) {
	query := `
		SELECT id, email, first_name, last_name, department_id, status, created_at, updated_at
		FROM users
		WHERE department_id = $1
		ORDER BY email ASC
	`
	rows, err := r.db.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName,
			&user.DepartmentID, &user.Status, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ReassignDepartment moves every user out of fromDepartmentID. A nil
// toDepartmentID leaves the users without a department.
func (r *userRepo) ReassignDepartment(ctx context.Context, fromDepartmentID uuid.UUID, toDepartmentID *uuid.UUID) (int64, error) {
	query := `
		UPDATE users
		SET department_id = $1, updated_at = NOW()
		WHERE department_id = $2
	`
	tag, err := r.db.Exec(ctx, query, toDepartmentID, fromDepartmentID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

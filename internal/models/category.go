package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	ParentID     *uuid.UUID  `json:"parent_id" db:"parent_id"`
	DepartmentID uuid.UUID   `json:"department_id" db:"department_id"`
	Branch       string      `json:"branch" db:"branch"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
	Children     []*Category `json:"children,omitempty" db:"-"` // For nested responses
}

// IsRoot reports whether the category sits at the top of its tree.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

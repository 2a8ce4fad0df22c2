package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase request statuses.
const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

type PurchaseRequest struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	RequesterID    uuid.UUID       `json:"requester_id" db:"requester_id"`
	DepartmentID   uuid.UUID       `json:"department_id" db:"department_id"`
	SupplierID     *uuid.UUID      `json:"supplier_id" db:"supplier_id"`
	BudgetCategory string          `json:"budget_category" db:"budget_category"`
	Description    *string         `json:"description" db:"description"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

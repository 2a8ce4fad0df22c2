package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses.
const (
	OrderStatusSent      = "SENT"
	OrderStatusCompleted = "COMPLETED"
)

type PurchaseOrder struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	RequestID  uuid.UUID       `json:"request_id" db:"request_id"`
	SupplierID *uuid.UUID      `json:"supplier_id" db:"supplier_id"`
	Total      decimal.Decimal `json:"total" db:"total"`
	OrderDate  time.Time       `json:"order_date" db:"order_date"`
	Status     string          `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

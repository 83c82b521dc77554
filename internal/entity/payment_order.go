package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment order lifecycle. The record is written before the browser is
// redirected, so the gateway callback has something to correlate against.
const (
	PaymentOrderStatusInitiated        = "initiated"
	PaymentOrderStatusCallbackReceived = "callback_received"
)

// PaymentOrder is the persisted trace of one checkout attempt.
type PaymentOrder struct {
	OrderID       uuid.UUID           `json:"order_id"`
	CustomerEmail string              `json:"customer_email"`
	Amount        decimal.Decimal     `json:"amount"`
	Currency      string              `json:"currency"`
	Status        string              `json:"status"`
	Items         []*PaymentOrderItem `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type PaymentOrderItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

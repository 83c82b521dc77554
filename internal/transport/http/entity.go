// nolint: revive,staticcheck
// swagger:meta
package httpt

import "github.com/jfsanchez2k/webflow-ecommerce/internal/entity"

// Every response carries the success flag so the storefront script can
// branch on responseData.success regardless of the endpoint it called.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// swagger:model SuccessResponse
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// CheckoutResponse is returned on a successful payment initiation. The
// browser builds a hidden form from PaymentData and submits it to
// PaymentURL as a top-level POST.
// swagger:model CheckoutResponse
type CheckoutResponse struct {
	Success     bool                       `json:"success"`
	PaymentURL  string                     `json:"payment_url"`
	PaymentData *entity.GatewayFormPayload `json:"payment_data"`
	OrderID     string                     `json:"order_id"`
}

// swagger:model CheckoutRequest
type CheckoutRequest entity.CheckoutRequest

// swagger:model Product
type Product entity.Product

// swagger:model User
type User entity.User

// swagger:model PaymentOrder
type PaymentOrder entity.PaymentOrder

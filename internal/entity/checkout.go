package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go to the gateway as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// CheckoutRequest is the browser-supplied checkout payload. Totals are never
// taken from it; the server recomputes them from the line items.
type CheckoutRequest struct {
	Name       string     `json:"name"        validate:"required,max=100"`
	Email      string     `json:"email"       validate:"required,email,max=120"`
	Address    string     `json:"address"     validate:"required,max=500"`
	Items      []LineItem `json:"items"       validate:"required,min=1,dive"`
	SuccessURL string     `json:"success_url" validate:"omitempty,url"`
	ReturnURL  string     `json:"return_url"  validate:"omitempty,url"`
}

type LineItem struct {
	Name     string          `json:"name"     validate:"required,max=255"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"required,gte=1"`
}

// Total is the line total, price * quantity, computed exactly.
func (li LineItem) Total() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// CheckoutSession is the result of one payment initiation. It lives only for
// the duration of the request and is handed back to the browser, which
// submits FormPayload to PaymentURL as a top-level form POST.
type CheckoutSession struct {
	OrderID     uuid.UUID
	Total       decimal.Decimal
	Token       string
	PaymentURL  string
	FormPayload *GatewayFormPayload
}

// GatewayFormPayload carries the hidden form fields the gateway's hosted
// payment page expects. Field names are part of the gateway's wire contract.
type GatewayFormPayload struct {
	SiteID     string `json:"SiteId"`
	UserID     string `json:"UserId"`
	Names      string `json:"Names"`
	Email      string `json:"Email"`
	Address    string `json:"Address"`
	Detail     string `json:"Detail"`
	SuccessURL string `json:"SuccessURL"`
	ReturnURL  string `json:"ReturnURL"`
	Token      string `json:"token"`
	NoHeader   string `json:"NoHeader"`
}

// GatewayDetail is the JSON blob serialized into the Detail form field.
type GatewayDetail struct {
	Payments []GatewayPayment `json:"Payments"`
}

type GatewayPayment struct {
	MerchantKey  string          `json:"MerchantKey"`
	Service      string          `json:"Service"`
	MerchantName string          `json:"MerchantName"`
	Description  string          `json:"Description"`
	Amount       decimal.Decimal `json:"Amount"`
	Tax          decimal.Decimal `json:"Tax"`
	Currency     string          `json:"Currency"`
	Items        []GatewayItem   `json:"Items"`
}

// GatewayItem is one line descriptor inside the detail blob. Quantity is
// text on the wire; tax is always zero, the gateway computes none either.
type GatewayItem struct {
	Description string          `json:"Description"`
	Quantity    string          `json:"Quantity"`
	Amount      decimal.Decimal `json:"Amount"`
	Tax         decimal.Decimal `json:"Tax"`
}

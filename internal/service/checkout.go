package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/cache"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres/transaction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	_defaultContextTimeout = 500 * time.Millisecond

	_noHeaderIframeMode = "2"
)

var _emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

//go:generate mockgen -source=checkout.go -destination=mock/checkout.go -package=mock_service

type (
	// GatewayClient obtains a bearer token for one checkout attempt.
	GatewayClient interface {
		FetchToken(
			ctx context.Context,
			orderID string,
			customerKey string,
			amount decimal.Decimal,
		) (string, error)
	}

	PaymentOrderRepository interface {
		Create(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			order *entity.PaymentOrder,
		) (*entity.PaymentOrder, error)
		CreateItems(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			orderID uuid.UUID,
			items []*entity.PaymentOrderItem,
		) error
		GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.PaymentOrder, error)
		UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
	}

	EventPublisher interface {
		CheckoutInitiated(ctx context.Context, order *entity.PaymentOrder) error
		CallbackReceived(ctx context.Context, orderID string, status string) error
	}

	// CheckoutService orchestrates payment initiation: it validates the
	// request, computes the total server-side, fetches a gateway token and
	// assembles the hosted-payment form the browser submits to the gateway.
	CheckoutService struct {
		gateway   GatewayClient
		orderRepo PaymentOrderRepository
		txManager transaction.Manager
		publisher EventPublisher
		cfg       *config.Gateway
		log       logger.Logger
		cache     cache.Cache[uuid.UUID, *entity.PaymentOrder]
		cacheTTL  time.Duration
	}
)

func NewCheckoutService(
	gateway GatewayClient,
	orderRepo PaymentOrderRepository,
	txManager transaction.Manager,
	publisher EventPublisher,
	cfg *config.Gateway,
	log logger.Logger,
	orderCache cache.Cache[uuid.UUID, *entity.PaymentOrder],
	cacheTTL time.Duration,
) *CheckoutService {
	return &CheckoutService{
		gateway:   gateway,
		orderRepo: orderRepo,
		txManager: txManager,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		cache:     orderCache,
		cacheTTL:  cacheTTL,
	}
}

// CreatePayment runs one checkout attempt end to end. Totals are always
// recomputed from the line items; a client-supplied total is never read.
// The single outbound token call is terminal on failure, the caller must
// resubmit the whole request to retry.
func (cs *CheckoutService) CreatePayment(
	ctx context.Context,
	req *entity.CheckoutRequest,
) (*entity.CheckoutSession, error) {
	const op = "service.CreatePayment"
	log := cs.log.Ctx(ctx)

	if err := validateCheckoutRequest(req); err != nil {
		log.Warnw("checkout validation failed",
			"op", op,
			"error", err,
		)
		return nil, fmt.Errorf("%s: validate request: %w", op, err)
	}

	orderID := uuid.New()

	log.Infow("checkout started",
		"op", op,
		"order_id", orderID.String(),
		"items_count", len(req.Items),
	)

	total := decimal.Zero
	gatewayItems := make([]entity.GatewayItem, 0, len(req.Items))
	orderItems := make([]*entity.PaymentOrderItem, 0, len(req.Items))

	for _, item := range req.Items {
		lineTotal := item.Total()
		total = total.Add(lineTotal)

		gatewayItems = append(gatewayItems, entity.GatewayItem{
			Description: item.Name,
			Quantity:    strconv.Itoa(item.Quantity),
			Amount:      lineTotal,
			Tax:         decimal.Zero,
		})
		orderItems = append(orderItems, &entity.PaymentOrderItem{
			Description: item.Name,
			Quantity:    item.Quantity,
			Amount:      lineTotal,
		})
	}

	token, err := cs.gateway.FetchToken(ctx, orderID.String(), req.Email, total)
	if err != nil {
		log.Errorw("gateway token fetch failed",
			"op", op,
			"order_id", orderID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("%s: fetch token: %w", op, err)
	}

	detail, err := json.Marshal(entity.GatewayDetail{
		Payments: []entity.GatewayPayment{{
			MerchantKey:  cs.cfg.MerchantKey,
			Service:      orderID.String(),
			MerchantName: cs.cfg.MerchantName,
			Description:  fmt.Sprintf("Order %s", orderID),
			Amount:       total,
			Tax:          decimal.Zero,
			Currency:     cs.cfg.Currency,
			Items:        gatewayItems,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal detail: %w", op, err)
	}

	order := &entity.PaymentOrder{
		OrderID:       orderID,
		CustomerEmail: req.Email,
		Amount:        total,
		Currency:      cs.cfg.Currency,
		Status:        entity.PaymentOrderStatusInitiated,
		Items:         orderItems,
	}

	recorded, err := cs.recordPaymentOrder(ctx, order)
	if err != nil {
		log.Errorw("payment order persistence failed",
			"op", op,
			"order_id", orderID.String(),
			"error", err,
		)
		return nil, err
	}

	cs.cache.Put(orderID, recorded, cs.cacheTTL)

	if err = cs.publisher.CheckoutInitiated(ctx, recorded); err != nil {
		log.Warnw("checkout event publish failed",
			"op", op,
			"order_id", orderID.String(),
			"error", err,
		)
	}

	log.Infow("checkout session created",
		"op", op,
		"order_id", orderID.String(),
		"total", total.String(),
	)

	return &entity.CheckoutSession{
		OrderID:    orderID,
		Total:      total,
		Token:      token,
		PaymentURL: cs.cfg.PaymentURL,
		FormPayload: &entity.GatewayFormPayload{
			SiteID:     cs.cfg.ClientID,
			UserID:     req.Email,
			Names:      req.Name,
			Email:      req.Email,
			Address:    req.Address,
			Detail:     string(detail),
			SuccessURL: urlOrDefault(req.SuccessURL, cs.cfg.SuccessURL),
			ReturnURL:  urlOrDefault(req.ReturnURL, cs.cfg.ReturnURL),
			Token:      token,
			NoHeader:   _noHeaderIframeMode,
		},
	}, nil
}

func (cs *CheckoutService) recordPaymentOrder(
	ctx context.Context,
	order *entity.PaymentOrder,
) (*entity.PaymentOrder, error) {
	var recorded *entity.PaymentOrder

	err := cs.txManager.ExecuteInTransaction(
		ctx,
		"RecordPaymentOrder",
		func(tx postgres.QueryExecuter) error {
			var err error
			recorded, err = cs.orderRepo.Create(ctx, tx, order)
			if err != nil {
				return err
			}
			if err = cs.orderRepo.CreateItems(ctx, tx, order.OrderID, order.Items); err != nil {
				return err
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	recorded.Items = order.Items
	return recorded, nil
}

// GetPaymentOrder returns the persisted record for one checkout attempt.
func (cs *CheckoutService) GetPaymentOrder(
	ctx context.Context,
	orderID uuid.UUID,
) (*entity.PaymentOrder, error) {
	const op = "service.GetPaymentOrder"
	log := cs.log.Ctx(ctx)

	if cached, found := cs.cache.Get(orderID); found {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, _defaultContextTimeout)
	defer cancel()

	order, err := cs.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		log.Warnw("payment order lookup failed",
			"op", op,
			"order_id", orderID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cs.cache.Put(orderID, order, cs.cacheTTL)

	return order, nil
}

// Candidate form fields a gateway callback may carry the order reference in.
var _orderRefFields = []string{"Service", "OrderId", "order_id"}

// HandleGatewayResponse processes the gateway's post-payment callback. A
// callback that references a known order moves it to callback_received;
// anything else is acknowledged and logged so the gateway does not retry
// forever against an endpoint that cannot do more with it.
func (cs *CheckoutService) HandleGatewayResponse(
	ctx context.Context,
	fields map[string]string,
) error {
	const op = "service.HandleGatewayResponse"
	log := cs.log.Ctx(ctx)

	if len(fields) == 0 {
		return fmt.Errorf("%s: empty callback payload: %w", op, entity.ErrInvalidData)
	}

	orderID, found := extractOrderRef(fields)
	if !found {
		log.Warnw("gateway callback without order reference",
			"op", op,
			"fields_count", len(fields),
		)
		return nil
	}

	err := cs.orderRepo.UpdateStatus(ctx, orderID, entity.PaymentOrderStatusCallbackReceived)
	if err != nil {
		if errors.Is(err, entity.ErrDataNotFound) {
			log.Warnw("gateway callback for unknown order",
				"op", op,
				"order_id", orderID.String(),
			)
			return nil
		}
		return fmt.Errorf("%s: update status: %w", op, err)
	}

	cs.cache.Remove(orderID)

	if err = cs.publisher.CallbackReceived(
		ctx,
		orderID.String(),
		entity.PaymentOrderStatusCallbackReceived,
	); err != nil {
		log.Warnw("callback event publish failed",
			"op", op,
			"order_id", orderID.String(),
			"error", err,
		)
	}

	log.Infow("gateway callback processed",
		"op", op,
		"order_id", orderID.String(),
	)

	return nil
}

func extractOrderRef(fields map[string]string) (uuid.UUID, bool) {
	for _, key := range _orderRefFields {
		if value, ok := fields[key]; ok {
			if id, err := uuid.Parse(value); err == nil {
				return id, true
			}
		}
	}
	return uuid.Nil, false
}

// Fail-fast, in contract order: name, email, address, items. No outbound
// call is ever made for an invalid request.
func validateCheckoutRequest(req *entity.CheckoutRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("customer name is required: %w", entity.ErrInvalidData)
	}
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("customer email is required: %w", entity.ErrInvalidData)
	}
	if !_emailPattern.MatchString(req.Email) {
		return fmt.Errorf("customer email is malformed: %w", entity.ErrInvalidData)
	}
	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("customer address is required: %w", entity.ErrInvalidData)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("at least one item is required: %w", entity.ErrInvalidData)
	}

	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("item %d: name is required: %w", i+1, entity.ErrInvalidData)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("item %d: price must not be negative: %w", i+1, entity.ErrInvalidData)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be positive: %w", i+1, entity.ErrInvalidData)
		}
	}

	return nil
}

func urlOrDefault(url, fallback string) string {
	if url == "" {
		return fallback
	}
	return url
}

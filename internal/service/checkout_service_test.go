package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/service"
	mock_service "github.com/jfsanchez2k/webflow-ecommerce/internal/service/mock"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/cache"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/metric"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres"
	mock_transaction "github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres/transaction/mock"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testGatewayConfig() *config.Gateway {
	return &config.Gateway{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		MerchantKey:  "test-merchant-key",
		MerchantName: "Webflow Store",
		TokenURL:     "https://sandbox-webapi.agilpay.net/oauth/paymenttoken",
		PaymentURL:   "https://sandbox-webpay.agilpay.net/Payment",
		SuccessURL:   "https://example.com/success",
		ReturnURL:    "https://example.com/return",
		Currency:     "840",
		Timeout:      10 * time.Second,
	}
}

func generateFakeCheckoutRequest() *entity.CheckoutRequest {
	itemsCount := gofakeit.Number(1, 4)
	items := make([]entity.LineItem, 0, itemsCount)
	for range itemsCount {
		items = append(items, entity.LineItem{
			Name:     gofakeit.ProductName(),
			Price:    decimal.NewFromFloat(gofakeit.Price(1, 200)).Round(2),
			Quantity: gofakeit.Number(1, 5),
		})
	}

	return &entity.CheckoutRequest{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Address: gofakeit.Address().Address,
		Items:   items,
	}
}

type checkoutFixture struct {
	gateway   *mock_service.MockGatewayClient
	orderRepo *mock_service.MockPaymentOrderRepository
	txManager *mock_transaction.MockManager
	publisher *mock_service.MockEventPublisher
	cache     cache.Cache[uuid.UUID, *entity.PaymentOrder]
	svc       *service.CheckoutService
}

func newCheckoutFixture(t *testing.T, ctrl *gomock.Controller) *checkoutFixture {
	t.Helper()

	orderCache, err := cache.NewLRU[uuid.UUID, *entity.PaymentOrder](
		"payment_order",
		16,
		logger.Nop(),
		metric.NewFactory().Cache(),
	)
	require.NoError(t, err)

	f := &checkoutFixture{
		gateway:   mock_service.NewMockGatewayClient(ctrl),
		orderRepo: mock_service.NewMockPaymentOrderRepository(ctrl),
		txManager: mock_transaction.NewMockManager(ctrl),
		publisher: mock_service.NewMockEventPublisher(ctrl),
		cache:     orderCache,
	}
	f.svc = service.NewCheckoutService(
		f.gateway,
		f.orderRepo,
		f.txManager,
		f.publisher,
		testGatewayConfig(),
		logger.Nop(),
		orderCache,
		time.Minute,
	)
	return f
}

func (f *checkoutFixture) expectRecorded() {
	f.txManager.EXPECT().ExecuteInTransaction(
		gomock.Any(), "RecordPaymentOrder", gomock.Any(),
	).DoAndReturn(func(
		ctx context.Context,
		operation string,
		fn func(postgres.QueryExecuter) error,
	) error {
		return fn(nil)
	}).Times(1)

	f.orderRepo.EXPECT().Create(gomock.Any(), nil, gomock.Any()).
		DoAndReturn(func(
			_ context.Context,
			_ postgres.QueryExecuter,
			order *entity.PaymentOrder,
		) (*entity.PaymentOrder, error) {
			return order, nil
		}).Times(1)
	f.orderRepo.EXPECT().CreateItems(gomock.Any(), nil, gomock.Any(), gomock.Any()).
		Return(nil).Times(1)
	f.publisher.EXPECT().CheckoutInitiated(gomock.Any(), gomock.Any()).
		Return(nil).Times(1)
}

func TestCheckoutService_CreatePayment_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testCases := []struct {
		desc  string
		setup func() *entity.CheckoutRequest
	}{
		{
			desc: "MissingName",
			setup: func() *entity.CheckoutRequest {
				req := generateFakeCheckoutRequest()
				req.Name = "   "
				return req
			},
		},
		{
			desc: "MissingEmail",
			setup: func() *entity.CheckoutRequest {
				req := generateFakeCheckoutRequest()
				req.Email = ""
				return req
			},
		},
		{
			desc: "MalformedEmail",
			setup: func() *entity.CheckoutRequest {
				req := generateFakeCheckoutRequest()
				req.Email = "not-an-email"
				return req
			},
		},
		{
			desc: "MissingAddress",
			setup: func() *entity.CheckoutRequest {
				req := generateFakeCheckoutRequest()
				req.Address = ""
				return req
			},
		},
		{
			desc: "EmptyItems",
			setup: func() *entity.CheckoutRequest {
				req := generateFakeCheckoutRequest()
				req.Items = nil
				return req
			},
		},
		{
			desc: "ItemWithoutName",
			setup: func() *entity.CheckoutRequest {
				req := generateFakeCheckoutRequest()
				req.Items[0].Name = ""
				return req
			},
		},
		{
			desc: "NegativeItemPrice",
			setup: func() *entity.CheckoutRequest {
				req := generateFakeCheckoutRequest()
				req.Items[0].Price = decimal.NewFromInt(-1)
				return req
			},
		},
		{
			desc: "ZeroQuantity",
			setup: func() *entity.CheckoutRequest {
				req := generateFakeCheckoutRequest()
				req.Items[0].Quantity = 0
				return req
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No gateway nor repository expectation: an invalid request
			// must never leave the service.
			f := newCheckoutFixture(t, ctrl)

			session, err := f.svc.CreatePayment(ctx, tc.setup())
			require.ErrorIs(t, err, entity.ErrInvalidData)
			require.Nil(t, session)
		})
	}
}

func TestCheckoutService_CreatePayment_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCheckoutFixture(t, ctrl)

	req := &entity.CheckoutRequest{
		Name:    "Ana Ruiz",
		Email:   "ana@example.com",
		Address: "123 Main St",
		Items: []entity.LineItem{
			{Name: "Premium Widget", Price: decimal.RequireFromString("25.50"), Quantity: 1},
			{Name: "Basic Gadget", Price: decimal.RequireFromString("15.50"), Quantity: 1},
		},
	}

	f.gateway.EXPECT().
		FetchToken(gomock.Any(), gomock.Any(), "ana@example.com", gomock.Any()).
		DoAndReturn(func(
			_ context.Context,
			orderID, _ string,
			amount decimal.Decimal,
		) (string, error) {
			_, err := uuid.Parse(orderID)
			require.NoError(t, err)
			require.True(t, amount.Equal(decimal.RequireFromString("41.00")))
			return "tok_abc", nil
		}).Times(1)
	f.expectRecorded()

	session, err := f.svc.CreatePayment(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, session)

	require.True(t, session.Total.Equal(decimal.RequireFromString("41.00")))
	require.Equal(t, "tok_abc", session.Token)
	require.Equal(t, "https://sandbox-webpay.agilpay.net/Payment", session.PaymentURL)

	form := session.FormPayload
	require.NotNil(t, form)
	require.Equal(t, "test-client-id", form.SiteID)
	require.Equal(t, "ana@example.com", form.UserID)
	require.Equal(t, "Ana Ruiz", form.Names)
	require.Equal(t, "123 Main St", form.Address)
	require.Equal(t, "https://example.com/success", form.SuccessURL)
	require.Equal(t, "https://example.com/return", form.ReturnURL)
	require.Equal(t, "tok_abc", form.Token)
	require.Equal(t, "2", form.NoHeader)

	var detail entity.GatewayDetail
	require.NoError(t, json.Unmarshal([]byte(form.Detail), &detail))
	require.Len(t, detail.Payments, 1)

	payment := detail.Payments[0]
	require.Equal(t, "test-merchant-key", payment.MerchantKey)
	require.Equal(t, session.OrderID.String(), payment.Service)
	require.Equal(t, "Webflow Store", payment.MerchantName)
	require.Equal(t, "840", payment.Currency)
	require.True(t, payment.Amount.Equal(decimal.RequireFromString("41.00")))
	require.True(t, payment.Tax.IsZero())
	require.Len(t, payment.Items, 2)
	require.Equal(t, "Premium Widget", payment.Items[0].Description)
	require.Equal(t, "1", payment.Items[0].Quantity)
	require.True(t, payment.Items[0].Amount.Equal(decimal.RequireFromString("25.50")))
}

func TestCheckoutService_CreatePayment_QuantityMultipliesTotal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCheckoutFixture(t, ctrl)

	req := &entity.CheckoutRequest{
		Name:    "Ana Ruiz",
		Email:   "ana@example.com",
		Address: "123 Main St",
		Items: []entity.LineItem{
			{Name: "Premium Widget", Price: decimal.RequireFromString("29.99"), Quantity: 2},
		},
	}

	f.gateway.EXPECT().
		FetchToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(
			_ context.Context,
			_, _ string,
			amount decimal.Decimal,
		) (string, error) {
			require.True(t, amount.Equal(decimal.RequireFromString("59.98")))
			return "tok_abc", nil
		}).Times(1)
	f.expectRecorded()

	session, err := f.svc.CreatePayment(ctx, req)
	require.NoError(t, err)
	require.True(t, session.Total.Equal(decimal.RequireFromString("59.98")))
}

func TestCheckoutService_CreatePayment_FreshOrderIDPerAttempt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCheckoutFixture(t, ctrl)

	req := generateFakeCheckoutRequest()
	seen := make(map[string]struct{})

	f.gateway.EXPECT().
		FetchToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(
			_ context.Context,
			orderID, _ string,
			_ decimal.Decimal,
		) (string, error) {
			seen[orderID] = struct{}{}
			return "tok_abc", nil
		}).Times(2)
	f.expectRecorded()
	f.expectRecorded()

	first, err := f.svc.CreatePayment(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.CreatePayment(ctx, req)
	require.NoError(t, err)

	require.NotEqual(t, first.OrderID, second.OrderID)
	require.Len(t, seen, 2)
}

func TestCheckoutService_CreatePayment_GatewayFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCheckoutFixture(t, ctrl)

	// Token fetch is terminal: nothing may be persisted or published.
	f.gateway.EXPECT().
		FetchToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", entity.ErrGatewayAuth).Times(1)

	session, err := f.svc.CreatePayment(ctx, generateFakeCheckoutRequest())
	require.ErrorIs(t, err, entity.ErrGatewayAuth)
	require.Nil(t, session)
}

func TestCheckoutService_CreatePayment_PersistenceFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCheckoutFixture(t, ctrl)

	f.gateway.EXPECT().
		FetchToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("tok_abc", nil).Times(1)

	storageErr := errors.New("connection reset")
	f.txManager.EXPECT().ExecuteInTransaction(
		gomock.Any(), "RecordPaymentOrder", gomock.Any(),
	).Return(storageErr).Times(1)

	session, err := f.svc.CreatePayment(ctx, generateFakeCheckoutRequest())
	require.ErrorIs(t, err, storageErr)
	require.Nil(t, session)
}

func TestCheckoutService_CreatePayment_PublishFailureDoesNotFail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCheckoutFixture(t, ctrl)

	f.gateway.EXPECT().
		FetchToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("tok_abc", nil).Times(1)
	f.txManager.EXPECT().ExecuteInTransaction(
		gomock.Any(), "RecordPaymentOrder", gomock.Any(),
	).DoAndReturn(func(
		ctx context.Context,
		operation string,
		fn func(postgres.QueryExecuter) error,
	) error {
		return fn(nil)
	}).Times(1)
	f.orderRepo.EXPECT().Create(gomock.Any(), nil, gomock.Any()).
		DoAndReturn(func(
			_ context.Context,
			_ postgres.QueryExecuter,
			order *entity.PaymentOrder,
		) (*entity.PaymentOrder, error) {
			return order, nil
		}).Times(1)
	f.orderRepo.EXPECT().CreateItems(gomock.Any(), nil, gomock.Any(), gomock.Any()).
		Return(nil).Times(1)
	f.publisher.EXPECT().CheckoutInitiated(gomock.Any(), gomock.Any()).
		Return(errors.New("broker unavailable")).Times(1)

	session, err := f.svc.CreatePayment(ctx, generateFakeCheckoutRequest())
	require.NoError(t, err)
	require.NotNil(t, session)
}

func TestCheckoutService_GetPaymentOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	orderID := uuid.New()
	stored := &entity.PaymentOrder{
		OrderID:       orderID,
		CustomerEmail: gofakeit.Email(),
		Amount:        decimal.RequireFromString("41.00"),
		Currency:      "840",
		Status:        entity.PaymentOrderStatusInitiated,
	}

	t.Run("CacheMissHitsRepository", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newCheckoutFixture(t, ctrl)

		f.orderRepo.EXPECT().GetByOrderID(gomock.Any(), orderID).
			Return(stored, nil).Times(1)

		order, err := f.svc.GetPaymentOrder(ctx, orderID)
		require.NoError(t, err)
		require.Equal(t, stored, order)

		// Second lookup is served from cache.
		order, err = f.svc.GetPaymentOrder(ctx, orderID)
		require.NoError(t, err)
		require.Equal(t, stored, order)
	})

	t.Run("NotFound", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newCheckoutFixture(t, ctrl)

		f.orderRepo.EXPECT().GetByOrderID(gomock.Any(), orderID).
			Return(nil, entity.ErrDataNotFound).Times(1)

		order, err := f.svc.GetPaymentOrder(ctx, orderID)
		require.ErrorIs(t, err, entity.ErrDataNotFound)
		require.Nil(t, order)
	})
}

func TestCheckoutService_HandleGatewayResponse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("EmptyPayload", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newCheckoutFixture(t, ctrl)

		err := f.svc.HandleGatewayResponse(ctx, nil)
		require.ErrorIs(t, err, entity.ErrInvalidData)
	})

	t.Run("NoOrderReference", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newCheckoutFixture(t, ctrl)

		err := f.svc.HandleGatewayResponse(ctx, map[string]string{
			"Status": "Approved",
		})
		require.NoError(t, err)
	})

	t.Run("KnownOrderMarkedReceived", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newCheckoutFixture(t, ctrl)
		orderID := uuid.New()

		f.orderRepo.EXPECT().
			UpdateStatus(gomock.Any(), orderID, entity.PaymentOrderStatusCallbackReceived).
			Return(nil).Times(1)
		f.publisher.EXPECT().
			CallbackReceived(gomock.Any(), orderID.String(), entity.PaymentOrderStatusCallbackReceived).
			Return(nil).Times(1)

		err := f.svc.HandleGatewayResponse(ctx, map[string]string{
			"Service": orderID.String(),
		})
		require.NoError(t, err)
	})

	t.Run("UnknownOrderAcknowledged", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newCheckoutFixture(t, ctrl)
		orderID := uuid.New()

		f.orderRepo.EXPECT().
			UpdateStatus(gomock.Any(), orderID, entity.PaymentOrderStatusCallbackReceived).
			Return(entity.ErrDataNotFound).Times(1)

		err := f.svc.HandleGatewayResponse(ctx, map[string]string{
			"OrderId": orderID.String(),
		})
		require.NoError(t, err)
	})
}

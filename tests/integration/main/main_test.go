package main

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/repository"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/service"
	"github.com/jfsanchez2k/webflow-ecommerce/migrations"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/metric"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres/transaction"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type IntegrationTestSuite struct {
	suite.Suite

	db          *postgres.Postgres
	userService *service.UserService
	orderRepo   *repository.PaymentOrderRepository
	txManager   transaction.Manager
	cfg         *config.Config
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg, err := config.Load()
	s.Require().NoError(err, "Failed to load configuration")
	s.cfg = cfg

	testLogger, err := logger.New(cfg)
	s.Require().NoError(err)

	maxRetries := 10
	var db *postgres.Postgres

	for i := range maxRetries {
		db, err = postgres.New(&cfg.Postgres, testLogger)
		if err == nil {
			break
		}
		testLogger.Infow("Waiting for database to be ready...", "attempt", i+1, "error", err.Error())
		time.Sleep(5 * time.Second)
	}
	s.Require().NoError(err, "Failed to connect to postgres after retries")
	s.db = db

	err = db.Pool.Ping(ctx)
	s.Require().NoError(err, "Failed to ping database")

	err = postgres.RunMigrations(migrations.FS, &cfg.Postgres, testLogger)
	s.Require().NoError(err, "Failed to run migrations")

	s.txManager, err = transaction.NewManager(db, testLogger, metric.NewFactory().Transaction())
	s.Require().NoError(err)

	s.orderRepo = repository.NewPaymentOrderRepository(db)
	s.userService = service.NewUserService(repository.NewUserRepository(db), testLogger)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Pool.Close()
	}
}

func (s *IntegrationTestSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.Pool.Exec(
		ctx,
		"TRUNCATE TABLE payment_order_items, payment_orders, users RESTART IDENTITY CASCADE;",
	)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) TestUserLifecycle() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fakeUser := &entity.User{
		Username: gofakeit.Username(),
		Email:    strings.ToLower(gofakeit.Email()),
	}

	created, err := s.userService.Create(ctx, fakeUser)
	s.Require().NoError(err)
	s.Require().NotZero(created.ID)
	s.Require().Equal(fakeUser.Username, created.Username)

	retrieved, err := s.userService.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Require().Equal(created.Email, retrieved.Email)

	retrieved.Username = gofakeit.Username()
	updated, err := s.userService.Update(ctx, retrieved)
	s.Require().NoError(err)
	s.Require().Equal(retrieved.Username, updated.Username)

	users, err := s.userService.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)

	err = s.userService.Delete(ctx, created.ID)
	s.Require().NoError(err)

	_, err = s.userService.Get(ctx, created.ID)
	s.Require().ErrorIs(err, entity.ErrDataNotFound)
}

func (s *IntegrationTestSuite) TestDuplicateUserRejected() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fakeUser := &entity.User{
		Username: gofakeit.Username(),
		Email:    strings.ToLower(gofakeit.Email()),
	}

	_, err := s.userService.Create(ctx, fakeUser)
	s.Require().NoError(err)

	duplicate := &entity.User{
		Username: fakeUser.Username,
		Email:    strings.ToLower(gofakeit.Email()),
	}
	_, err = s.userService.Create(ctx, duplicate)
	s.Require().ErrorIs(err, entity.ErrConflictingData)
}

func (s *IntegrationTestSuite) TestPaymentOrderRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	order := &entity.PaymentOrder{
		OrderID:       uuid.New(),
		CustomerEmail: strings.ToLower(gofakeit.Email()),
		Amount:        decimal.RequireFromString("41.00"),
		Currency:      "840",
		Status:        entity.PaymentOrderStatusInitiated,
		Items: []*entity.PaymentOrderItem{
			{Description: "Premium Widget", Quantity: 1, Amount: decimal.RequireFromString("25.50")},
			{Description: "Basic Gadget", Quantity: 1, Amount: decimal.RequireFromString("15.50")},
		},
	}

	err := s.txManager.ExecuteInTransaction(ctx, "RecordPaymentOrder",
		func(tx postgres.QueryExecuter) error {
			if _, err := s.orderRepo.Create(ctx, tx, order); err != nil {
				return err
			}
			return s.orderRepo.CreateItems(ctx, tx, order.OrderID, order.Items)
		})
	s.Require().NoError(err)

	retrieved, err := s.orderRepo.GetByOrderID(ctx, order.OrderID)
	s.Require().NoError(err)
	s.Require().Equal(order.OrderID, retrieved.OrderID)
	s.Require().Equal(entity.PaymentOrderStatusInitiated, retrieved.Status)
	s.Require().True(retrieved.Amount.Equal(order.Amount))
	s.Require().Len(retrieved.Items, 2)

	err = s.orderRepo.UpdateStatus(ctx, order.OrderID, entity.PaymentOrderStatusCallbackReceived)
	s.Require().NoError(err)

	retrieved, err = s.orderRepo.GetByOrderID(ctx, order.OrderID)
	s.Require().NoError(err)
	s.Require().Equal(entity.PaymentOrderStatusCallbackReceived, retrieved.Status)
}

func TestIntegration(t *testing.T) {
	t.Parallel()
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Skipping integration test; set INTEGRATION_TEST to run.")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

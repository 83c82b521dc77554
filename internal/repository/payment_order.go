package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentOrderRepository struct {
	db *postgres.Postgres
}

func NewPaymentOrderRepository(db *postgres.Postgres) *PaymentOrderRepository {
	return &PaymentOrderRepository{db}
}

func (r *PaymentOrderRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	order *entity.PaymentOrder,
) (*entity.PaymentOrder, error) {
	const op = "repository.payment_order.Create"

	query := r.db.Builder.Insert("payment_orders").
		Columns("order_id", "customer_email", "amount", "currency", "status").
		Values(
			order.OrderID,
			order.CustomerEmail,
			order.Amount,
			order.Currency,
			order.Status,
		).
		Suffix("RETURNING order_id, customer_email, amount, currency, status, created_at, updated_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.PaymentOrder{}
	err = queryExecuter.QueryRow(ctx, sql, args...).Scan(
		&result.OrderID,
		&result.CustomerEmail,
		&result.Amount,
		&result.Currency,
		&result.Status,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrConflictingData
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return result, nil
}

func (r *PaymentOrderRepository) CreateItems(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	orderID uuid.UUID,
	items []*entity.PaymentOrderItem,
) error {
	const op = "repository.payment_order.CreateItems"

	query := r.db.Builder.Insert("payment_order_items").
		Columns("order_id", "description", "quantity", "amount")
	for _, item := range items {
		query = query.Values(orderID, item.Description, item.Quantity, item.Amount)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	if _, err = queryExecuter.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (r *PaymentOrderRepository) GetByOrderID(
	ctx context.Context,
	orderID uuid.UUID,
) (*entity.PaymentOrder, error) {
	const op = "repository.payment_order.GetByOrderID"

	query := r.db.Builder.
		Select("order_id", "customer_email", "amount", "currency", "status", "created_at", "updated_at").
		From("payment_orders").
		Where(squirrel.Eq{"order_id": orderID}).
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.PaymentOrder{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&result.OrderID,
		&result.CustomerEmail,
		&result.Amount,
		&result.Currency,
		&result.Status,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	items, err := r.getItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	result.Items = items

	return result, nil
}

func (r *PaymentOrderRepository) getItems(
	ctx context.Context,
	orderID uuid.UUID,
) ([]*entity.PaymentOrderItem, error) {
	const op = "repository.payment_order.getItems"

	query := r.db.Builder.Select("description", "quantity", "amount").
		From("payment_order_items").
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var items []*entity.PaymentOrderItem
	for rows.Next() {
		item := &entity.PaymentOrderItem{}
		if err = rows.Scan(&item.Description, &item.Quantity, &item.Amount); err != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows final error: %w", op, rows.Err())
	}

	return items, nil
}

func (r *PaymentOrderRepository) UpdateStatus(
	ctx context.Context,
	orderID uuid.UUID,
	status string,
) error {
	const op = "repository.payment_order.UpdateStatus"

	query := r.db.Builder.Update("payment_orders").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"order_id": orderID})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDataNotFound
	}

	return nil
}

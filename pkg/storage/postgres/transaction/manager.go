package transaction

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/metric"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	_defaultMaxAttempts    = 3
	_defaultBaseRetryDelay = 10 * time.Millisecond
	_defaultMaxRetryDelay  = 100 * time.Millisecond

	_backoffMultiplier = 2
)

//go:generate mockgen -source=manager.go -destination=mock/manager.go -package=mock_transaction

// Manager runs a function inside a database transaction, retrying on
// transient failures (serialization conflicts, dropped connections).
type Manager interface {
	ExecuteInTransaction(
		ctx context.Context,
		operation string,
		fn func(tx postgres.QueryExecuter) error,
	) error
}

type manager struct {
	pool    *postgres.Postgres
	log     logger.Logger
	metrics metric.Transaction

	maxAttempts    int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
}

func NewManager(
	pool *postgres.Postgres,
	log logger.Logger,
	metrics metric.Transaction,
	opts ...Option,
) (Manager, error) {
	tm := &manager{
		pool:    pool,
		log:     log,
		metrics: metrics,

		maxAttempts:    _defaultMaxAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
	}

	for _, opt := range opts {
		opt(tm)
	}
	if err := tm.validate(); err != nil {
		return nil, fmt.Errorf("storage.postgres.transaction.NewManager: %w", err)
	}

	return tm, nil
}

func (tm *manager) ExecuteInTransaction(
	ctx context.Context,
	operation string,
	fn func(tx postgres.QueryExecuter) error,
) error {
	const op = "storage.postgres.transaction.ExecuteInTransaction"

	start := time.Now()
	defer func() {
		tm.metrics.ObserveDuration(operation, time.Since(start))
	}()

	var lastErr error
	backoff := tm.baseRetryDelay

	for attempt := 1; attempt <= tm.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(rand.Int64N(int64(backoff * _backoffMultiplier)))
			if delay > tm.maxRetryDelay {
				delay = tm.maxRetryDelay
			}

			tm.log.Ctx(ctx).Infow("retrying transaction",
				"op", op,
				"transaction", operation,
				"attempt", attempt,
				"max_attempts", tm.maxAttempts,
				"retry_after", delay.String(),
				"error", lastErr,
			)

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				tm.metrics.IncrementFailures(operation)
				return fmt.Errorf("%s: context canceled: %w", op, ctx.Err())
			}
			timer.Stop()

			if backoff *= _backoffMultiplier; backoff > tm.maxRetryDelay {
				backoff = tm.maxRetryDelay
			}
		}

		err := tm.runOnce(ctx, operation, fn)
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			tm.metrics.IncrementFailures(operation)
			return err
		}

		tm.metrics.IncrementRetries(operation)
		lastErr = err
	}

	tm.metrics.IncrementFailures(operation)
	return fmt.Errorf("%s: max attempts (%d) exceeded for %s: %w",
		op, tm.maxAttempts, operation, lastErr)
}

func (tm *manager) runOnce(
	ctx context.Context,
	operation string,
	fn func(tx postgres.QueryExecuter) error,
) error {
	const op = "storage.postgres.transaction.runOnce"

	tx, err := tm.pool.Pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer tm.safelyRollback(ctx, tx, operation)

	if err = fn(&postgres.TxQueryExecuter{Tx: tx}); err != nil {
		return fmt.Errorf("%s: %s: %w", op, operation, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func (tm *manager) safelyRollback(ctx context.Context, tx pgx.Tx, operation string) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		tm.log.Ctx(ctx).Errorw("rollback failed",
			"transaction", operation,
			"error", err,
		)
	}
}

func isRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40P01", "40001", "08000", "08003", "08006", "08001", "08004", "08007", "08P01":
			return true
		}
	}

	return false
}

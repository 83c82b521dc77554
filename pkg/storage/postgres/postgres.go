package postgres

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	_defaultMaxPoolSize    = 100
	_defaultConnAttempts   = 10
	_defaultBaseRetryDelay = 100 * time.Millisecond
	_defaultMaxRetryDelay  = 5 * time.Second

	_backoffMultiplier = 2
)

type Postgres struct {
	Builder squirrel.StatementBuilderType
	Pool    *pgxpool.Pool

	connAttempts   int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
	maxPoolSize    int32
}

func New(cfg *config.Postgres, log logger.Logger, opts ...Option) (*Postgres, error) {
	const op = "storage.postgres.New"

	pg := &Postgres{
		connAttempts:   _defaultConnAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
		maxPoolSize:    _defaultMaxPoolSize,
	}

	for _, opt := range opts {
		opt(pg)
	}
	if err := pg.validate(); err != nil {
		return nil, fmt.Errorf("%s: validation: %w", op, err)
	}

	pg.Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	poolConfig, err := pgxpool.ParseConfig(connectionURL("postgres", cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: parse pool config: %w", op, err)
	}
	poolConfig.MaxConns = pg.maxPoolSize

	backoff := pg.baseRetryDelay
	for attempt := 1; attempt <= pg.connAttempts; attempt++ {
		pg.Pool, err = pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err == nil {
			if err = pg.Pool.Ping(context.Background()); err == nil {
				return pg, nil
			}
			pg.Pool.Close()
		}

		delay := time.Duration(rand.Int64N(int64(backoff * _backoffMultiplier)))
		if delay > pg.maxRetryDelay {
			delay = pg.maxRetryDelay
		}

		log.Warnw("postgres connection attempt failed",
			"op", op,
			"attempt", attempt,
			"retry_after", delay.String(),
			"error", err,
		)

		time.Sleep(delay)

		if backoff *= _backoffMultiplier; backoff > pg.maxRetryDelay {
			backoff = pg.maxRetryDelay
		}
	}

	return nil, fmt.Errorf("%s: connect after %d attempts: %w", op, pg.connAttempts, err)
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

func connectionURL(scheme string, cfg *config.Postgres) string {
	return fmt.Sprintf("%s://%s:%s@%s/%s?sslmode=%s",
		scheme,
		cfg.User,
		cfg.Password,
		net.JoinHostPort(cfg.Host, cfg.Port),
		cfg.Name,
		cfg.SSLMode,
	)
}

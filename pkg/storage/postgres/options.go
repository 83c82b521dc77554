package postgres

import (
	"errors"
	"time"
)

type Option func(*Postgres)

func MaxPoolSize(size int32) Option {
	return func(p *Postgres) {
		p.maxPoolSize = size
	}
}

func MaxConnAttempts(attempts int) Option {
	return func(p *Postgres) {
		p.connAttempts = attempts
	}
}

func BaseRetryDelay(delay time.Duration) Option {
	return func(p *Postgres) {
		p.baseRetryDelay = delay
	}
}

func MaxRetryDelay(delay time.Duration) Option {
	return func(p *Postgres) {
		p.maxRetryDelay = delay
	}
}

func (p *Postgres) validate() error {
	switch {
	case p.maxPoolSize <= 0:
		return errors.New("postgres: max pool size must be positive")
	case p.connAttempts <= 0:
		return errors.New("postgres: connection attempts must be positive")
	case p.baseRetryDelay <= 0:
		return errors.New("postgres: base retry delay must be positive")
	case p.maxRetryDelay <= 0:
		return errors.New("postgres: max retry delay must be positive")
	case p.baseRetryDelay > p.maxRetryDelay:
		return errors.New("postgres: base retry delay cannot exceed max retry delay")
	}
	return nil
}

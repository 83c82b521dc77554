package app

import (
	"context"
	"testing"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestInitMetrics_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	cfg := &config.Metrics{
		Host:              "127.0.0.1",
		Port:              "0",
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		ReadHeaderTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	eg, egCtx := errgroup.WithContext(ctx)

	metrics := initMetrics(egCtx, eg, cfg, logger.Nop())
	require.NotNil(t, metrics)

	// Give the listener a moment to come up, then signal shutdown the
	// same way a SIGTERM does.
	time.Sleep(50 * time.Millisecond)
	cancel()

	done := make(chan error, 1)
	go func() { done <- eg.Wait() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop after context cancellation")
	}
}

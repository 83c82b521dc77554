package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/metric"

	"github.com/shopspring/decimal"
)

const _maxErrorBodyBytes = 4 << 10

// Client obtains short-lived bearer tokens from the payment gateway. The
// token authorizes the subsequent hosted-page redirect; the charge itself
// happens on the gateway's own page, never through this backend.
type Client struct {
	httpClient *http.Client
	cfg        *config.Gateway
	log        logger.Logger
	metrics    metric.Gateway
}

type tokenRequest struct {
	GrantType    string      `json:"grant_type"`
	ClientID     string      `json:"client_id"`
	ClientSecret string      `json:"client_secret"`
	OrderID      string      `json:"orderId"`
	CustomerID   string      `json:"customerId"`
	Amount       json.Number `json:"amount"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func NewClient(cfg *config.Gateway, log logger.Logger, metrics metric.Gateway) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		log:        log,
		metrics:    metrics,
	}
}

// FetchToken requests a bearer token for one checkout attempt. Any transport
// failure or non-success status yields ErrGatewayAuth; a success response
// without a usable token field yields ErrMalformedGatewayResponse.
func (c *Client) FetchToken(
	ctx context.Context,
	orderID string,
	customerKey string,
	amount decimal.Decimal,
) (string, error) {
	const op = "gateway.FetchToken"
	log := c.log.Ctx(ctx)

	body, err := json.Marshal(tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		OrderID:      orderID,
		CustomerID:   customerKey,
		Amount:       json.Number(amount.String()),
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Infow("requesting gateway token", "order_id", orderID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.TokenRequest("transport_error", time.Since(start))
		c.metrics.TokenFailure("transport")
		log.Errorw("gateway token request failed",
			"order_id", orderID,
			"error", err,
		)
		return "", fmt.Errorf("%s: %w: %w", op, entity.ErrGatewayAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.TokenRequest("error_status", time.Since(start))
		c.metrics.TokenFailure("status")
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, _maxErrorBodyBytes))
		log.Errorw("gateway token request rejected",
			"order_id", orderID,
			"status", resp.StatusCode,
			"body", string(detail),
		)
		return "", fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, entity.ErrGatewayAuth)
	}

	var token tokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&token); err != nil {
		c.metrics.TokenRequest("malformed", time.Since(start))
		c.metrics.TokenFailure("decode")
		log.Errorw("gateway token response undecodable",
			"order_id", orderID,
			"error", err,
		)
		return "", fmt.Errorf("%s: decode response: %w", op, entity.ErrMalformedGatewayResponse)
	}

	if token.AccessToken == "" {
		c.metrics.TokenRequest("malformed", time.Since(start))
		c.metrics.TokenFailure("missing_token")
		log.Errorw("gateway token response missing access_token", "order_id", orderID)
		return "", fmt.Errorf("%s: missing access_token field: %w", op, entity.ErrMalformedGatewayResponse)
	}

	c.metrics.TokenRequest("success", time.Since(start))
	log.Infow("gateway token obtained", "order_id", orderID)

	return token.AccessToken, nil
}

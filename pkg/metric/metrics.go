package metric

import (
	"net/http"
	"time"
)

type (
	Factory interface {
		HTTP() HTTP
		Gateway() Gateway
		Transaction() Transaction
		Cache() Cache
		Events() Events
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	// Gateway instruments outbound calls to the payment gateway.
	Gateway interface {
		TokenRequest(outcome string, duration time.Duration)
		TokenFailure(reason string)
	}

	Transaction interface {
		ObserveDuration(operation string, duration time.Duration)
		IncrementRetries(operation string)
		IncrementFailures(operation string)
	}

	Cache interface {
		Hit(cacheType string)
		Miss(cacheType string)
		Eviction(cacheType string, reason string)
		Size(cacheType string, size int)
	}

	// Events instruments the checkout event publisher.
	Events interface {
		Published(topic string)
		PublishFailed(topic string, reason string)
	}
)

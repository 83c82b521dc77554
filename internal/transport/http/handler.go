package httpt

import (
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/service"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/metric"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	checkout       *service.CheckoutService
	catalog        *service.CatalogService
	users          *service.UserService
	log            logger.Logger
	metrics        metric.HTTP
	requestTimeout time.Duration
	router         *gin.Engine
}

func NewHandler(
	checkout *service.CheckoutService,
	catalog *service.CatalogService,
	users *service.UserService,
	log logger.Logger,
	metrics metric.HTTP,
	requestTimeout time.Duration,
) *Handler {
	h := &Handler{
		checkout:       checkout,
		catalog:        catalog,
		users:          users,
		log:            log,
		metrics:        metrics,
		requestTimeout: requestTimeout,
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.Recovery())

	h.router = router

	h.setupRoutes()

	return h
}

func (h *Handler) Engine() *gin.Engine {
	return h.router
}

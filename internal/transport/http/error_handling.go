package httpt

import (
	"context"
	"errors"
	"net/http"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"

	"github.com/gin-gonic/gin"
)

func (h *Handler) handleServiceError(c *gin.Context, err error, op, invalidMsg string) {
	log := h.log.Ctx(c.Request.Context())

	log.Errorw(op+" failed",
		"error", err,
		"remote_addr", c.ClientIP(),
		"user_agent", c.Request.UserAgent(),
	)

	switch {
	case errors.Is(err, entity.ErrInvalidData):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidMsg})
	case errors.Is(err, entity.ErrDataNotFound):
		log.Warnw("resource not found",
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.Is(err, entity.ErrConflictingData):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Conflicting data"})
	case errors.Is(err, entity.ErrGatewayAuth),
		errors.Is(err, entity.ErrMalformedGatewayResponse):
		log.Errorw("payment gateway unavailable",
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Payment gateway error"})
	case errors.Is(err, context.DeadlineExceeded):
		log.Warnw("request timeout",
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
		)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "Request timed out"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal service error"})
	}
}

func (h *Handler) handleInvalidID(c *gin.Context, op, value, msg string) {
	h.log.Ctx(c.Request.Context()).Warnw("invalid identifier format",
		"op", op,
		"value", value,
		"remote_addr", c.ClientIP(),
	)

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

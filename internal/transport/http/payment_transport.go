package httpt

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Get a payment order
// @Description Returns a recorded checkout attempt by its order identifier
// @Tags Checkout
// @Produce json
// @Param order_id path string true "Order identifier"
// @Success 200 {object} httpt.SuccessResponse "Payment order"
// @Failure 400 {object} httpt.ErrorResponse "Invalid order identifier"
// @Failure 404 {object} httpt.ErrorResponse "Payment order not found"
// @Failure 500 {object} httpt.ErrorResponse "Internal server error"
// @Router /payments/{order_id} [get]
func (h *Handler) getPaymentOrderHandler(c *gin.Context) {
	const op = "transport.getPaymentOrderHandler"

	orderIDStr := c.Param("order_id")

	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		h.handleInvalidID(c, op, orderIDStr, "Invalid order identifier format")
		return
	}

	order, err := h.checkout.GetPaymentOrder(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err, op, "Invalid order identifier")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: order})
}

package httpt

import (
	"context"
	"net/http"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"

	"github.com/gin-gonic/gin"
)

// @Summary Initiate a payment
// @Description Validates the checkout payload, obtains a payment token from the gateway and returns the form fields for the hosted payment page redirect
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body httpt.CheckoutRequest true "Checkout payload"
// @Success 200 {object} httpt.CheckoutResponse "Payment session created"
// @Failure 400 {object} httpt.ErrorResponse "Invalid checkout data"
// @Failure 502 {object} httpt.ErrorResponse "Payment gateway error"
// @Failure 500 {object} httpt.ErrorResponse "Internal server error"
// @Router /checkout [post]
func (h *Handler) createCheckoutHandler(c *gin.Context) {
	const op = "transport.createCheckoutHandler"

	var req entity.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Ctx(c.Request.Context()).Warnw("malformed checkout body",
			"op", op,
			"error", err,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	session, err := h.checkout.CreatePayment(ctx, &req)
	if err != nil {
		h.handleServiceError(c, err, op,
			"Invalid checkout data. Check name, email, address and items.")
		return
	}

	c.JSON(http.StatusOK, CheckoutResponse{
		Success:     true,
		PaymentURL:  session.PaymentURL,
		PaymentData: session.FormPayload,
		OrderID:     session.OrderID.String(),
	})
}

// @Summary Gateway payment callback
// @Description Receives the form-encoded response the gateway posts back after a payment attempt and acknowledges it
// @Tags Checkout
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} httpt.SuccessResponse "Callback acknowledged"
// @Failure 400 {object} httpt.ErrorResponse "Empty callback payload"
// @Router /payment-response [post]
func (h *Handler) paymentResponseHandler(c *gin.Context) {
	const op = "transport.paymentResponseHandler"

	if err := c.Request.ParseForm(); err != nil {
		h.log.Ctx(c.Request.Context()).Warnw("unparseable callback form",
			"op", op,
			"error", err,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid callback payload"})
		return
	}

	fields := make(map[string]string, len(c.Request.PostForm))
	for key := range c.Request.PostForm {
		fields[key] = c.Request.PostForm.Get(key)
	}

	if err := h.checkout.HandleGatewayResponse(c.Request.Context(), fields); err != nil {
		h.handleServiceError(c, err, op, "Invalid callback payload")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Payment response received"})
}

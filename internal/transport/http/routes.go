package httpt

import (
	"net/http"

	_ "github.com/jfsanchez2k/webflow-ecommerce/docs" // for swagger

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Webflow Checkout API
// @version         1.0
// @description     Checkout backend: product catalog, user management and payment initiation against the Agilpay gateway.
// @termsOfService  http://swagger.io/terms/
// @contact.name    API Support
// @contact.email   support@example.com
// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func (h *Handler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	h.router.POST("/checkout", h.createCheckoutHandler)
	h.router.GET("/products", h.listProductsHandler)
	h.router.GET("/payments/:order_id", h.getPaymentOrderHandler)
	h.router.POST("/payment-response", h.paymentResponseHandler)

	users := h.router.Group("/users")
	{
		users.GET("", h.listUsersHandler)
		users.POST("", h.createUserHandler)
		users.GET("/:id", h.getUserHandler)
		users.PUT("/:id", h.updateUserHandler)
		users.DELETE("/:id", h.deleteUserHandler)
	}

	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

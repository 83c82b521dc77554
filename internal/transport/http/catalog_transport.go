package httpt

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary List products
// @Description Returns the product catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} httpt.SuccessResponse "Product list"
// @Router /products [get]
func (h *Handler) listProductsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: h.catalog.List()})
}

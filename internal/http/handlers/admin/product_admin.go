package admin

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品请求
type ProductRequest struct {
	ID            uint   `json:"id"`
	Name          string `json:"name" binding:"required,notblank"`
	Description   string `json:"description"`
	ProductTypeID uint   `json:"productTypeId"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		ProductTypeID: r.ProductTypeID,
	}
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	var req ProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.ProductService.Create(principal, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_created", "product_id", item.ID, "operator_id", principal.UserID)
	response.Created(c, item)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	principal, id, ok := getPrincipalAndID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.ProductService.Update(principal, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, item)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	principal, id, ok := getPrincipalAndID(c)
	if !ok {
		return
	}
	if err := h.ProductService.Delete(principal, id); err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_deleted", "product_id", id, "operator_id", principal.UserID)
	response.NoContent(c)
}

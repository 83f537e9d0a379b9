package admin

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductTypeRequest 商品类型请求
type ProductTypeRequest struct {
	ID          uint   `json:"id"`
	Name        string `json:"name" binding:"required,notblank"`
	Description string `json:"description"`
}

func (r ProductTypeRequest) toInput() service.ProductTypeInput {
	return service.ProductTypeInput{ID: r.ID, Name: r.Name, Description: r.Description}
}

// CreateProductType 创建商品类型
func (h *Handler) CreateProductType(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	var req ProductTypeRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.ProductTypeService.Create(principal, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_type_created", "product_type_id", item.ID, "operator_id", principal.UserID)
	response.Created(c, item)
}

// UpdateProductType 更新商品类型
func (h *Handler) UpdateProductType(c *gin.Context) {
	principal, id, ok := getPrincipalAndID(c)
	if !ok {
		return
	}
	var req ProductTypeRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.ProductTypeService.Update(principal, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, item)
}

// DeleteProductType 删除商品类型，仍被商品引用时返回冲突
func (h *Handler) DeleteProductType(c *gin.Context) {
	principal, id, ok := getPrincipalAndID(c)
	if !ok {
		return
	}
	if err := h.ProductTypeService.Delete(principal, id); err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_type_deleted", "product_type_id", id, "operator_id", principal.UserID)
	response.NoContent(c)
}

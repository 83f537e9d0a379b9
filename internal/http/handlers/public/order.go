package public

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	// 字段级校验由订单服务完成，以保证错误路径与订单项位置一致
	var req service.CreateOrderInput
	if !handlershared.BindJSON(c, &req) {
		return
	}
	resp, err := h.OrderService.CreateOrder(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, resp)
}

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	q := handlershared.ParsePageQuery(c)
	orders, total, err := h.OrderService.ListByUser(c.Request.Context(), principal, q)
	if err != nil {
		respondError(c, err)
		return
	}
	handlershared.RespondPage(c, orders, q, total)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	principal, id, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单并回补库存
func (h *Handler) CancelOrder(c *gin.Context) {
	principal, id, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.OrderService.CancelOrder(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, resp)
}

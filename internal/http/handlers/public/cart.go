package public

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	InventoryItemID uint `json:"inventoryItemId"`
	Quantity        int  `json:"quantity"`
}

// CartQuantityRequest 购物车数量更新请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	items, err := h.CartService.List(principal, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// AddCartItem 加入购物车，同一库存项重复加入返回冲突
func (h *Handler) AddCartItem(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	var req CartItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.CartService.AddItem(principal, uid, req.InventoryItemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := handlershared.ParamUint(c, "item_id")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.CartService.UpdateItem(principal, uid, itemID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"inventoryItemId": itemID, "quantity": req.Quantity})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := handlershared.ParamUint(c, "item_id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(principal, uid, itemID); err != nil {
		respondError(c, err)
		return
	}
	response.NoContent(c)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	principal, uid, ok := getPrincipalAndParam(c, "id")
	if !ok {
		return
	}
	if err := h.CartService.Clear(principal, uid); err != nil {
		respondError(c, err)
		return
	}
	response.NoContent(c)
}

package admin

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// InventoryRequest 库存项请求，productId 与 yugiohCardId 二选一
type InventoryRequest struct {
	ID           uint         `json:"id"`
	ProductID    *uint        `json:"productId"`
	YugiohCardID *uint        `json:"yugiohCardId"`
	Version      string       `json:"version"`
	Condition    string       `json:"condition" binding:"required"`
	Price        models.Money `json:"price"`
	Quantity     int          `json:"quantity"`
}

func (r InventoryRequest) toInput() service.InventoryInput {
	return service.InventoryInput{
		ID:           r.ID,
		ProductID:    r.ProductID,
		YugiohCardID: r.YugiohCardID,
		Version:      r.Version,
		Condition:    r.Condition,
		Price:        r.Price,
		Quantity:     r.Quantity,
	}
}

// CreateInventoryItem 创建库存项
func (h *Handler) CreateInventoryItem(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	var req InventoryRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.InventoryService.Create(principal, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_inventory_item_created",
		"inventory_item_id", item.ID,
		"quantity", item.Quantity,
		"operator_id", principal.UserID,
	)
	response.Created(c, item)
}

// UpdateInventoryItem 更新库存项
func (h *Handler) UpdateInventoryItem(c *gin.Context) {
	principal, id, ok := getPrincipalAndID(c)
	if !ok {
		return
	}
	var req InventoryRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.InventoryService.Update(principal, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, item)
}

// DeleteInventoryItem 删除库存项，仍在购物车中时返回冲突
func (h *Handler) DeleteInventoryItem(c *gin.Context) {
	principal, id, ok := getPrincipalAndID(c)
	if !ok {
		return
	}
	if err := h.InventoryService.Delete(principal, id); err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_inventory_item_deleted", "inventory_item_id", id, "operator_id", principal.UserID)
	response.NoContent(c)
}

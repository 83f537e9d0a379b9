package admin

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// YugiohCardRequest 卡牌请求，数值字段缺省与显式 0 需要区分
type YugiohCardRequest struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name" binding:"required,notblank"`
	Description   string   `json:"description"`
	CategoryID    uint     `json:"categoryId"`
	TypeID        *uint    `json:"typeId"`
	Attribute     string   `json:"attribute"`
	Level         *int     `json:"level"`
	PendulumScale *int     `json:"pendulumScale"`
	LinkValue     *int     `json:"linkValue"`
	LinkArrows    []string `json:"linkArrows"`
	Atk           *int     `json:"atk"`
	Def           *int     `json:"def"`
}

func (r YugiohCardRequest) toInput() service.YugiohCardInput {
	return service.YugiohCardInput{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		TypeID:        r.TypeID,
		Attribute:     r.Attribute,
		Level:         r.Level,
		PendulumScale: r.PendulumScale,
		LinkValue:     r.LinkValue,
		LinkArrows:    r.LinkArrows,
		Atk:           r.Atk,
		Def:           r.Def,
	}
}

// CreateYugiohCard 创建卡牌
func (h *Handler) CreateYugiohCard(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	var req YugiohCardRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	card, err := h.YugiohCardService.Create(principal, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_yugioh_card_created", "yugioh_card_id", card.ID, "operator_id", principal.UserID)
	response.Created(c, card)
}

// UpdateYugiohCard 更新卡牌
func (h *Handler) UpdateYugiohCard(c *gin.Context) {
	principal, id, ok := getPrincipalAndID(c)
	if !ok {
		return
	}
	var req YugiohCardRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	card, err := h.YugiohCardService.Update(principal, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, card)
}

// DeleteYugiohCard 删除卡牌
func (h *Handler) DeleteYugiohCard(c *gin.Context) {
	principal, id, ok := getPrincipalAndID(c)
	if !ok {
		return
	}
	if err := h.YugiohCardService.Delete(principal, id); err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_yugioh_card_deleted", "yugioh_card_id", id, "operator_id", principal.UserID)
	response.NoContent(c)
}

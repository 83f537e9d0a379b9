package public

import (
	"strconv"
	"strings"

	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProductTypes 商品类型列表
func (h *Handler) ListProductTypes(c *gin.Context) {
	q := handlershared.ParsePageQuery(c)
	items, total, err := h.ProductTypeService.List(q)
	if err != nil {
		respondError(c, err)
		return
	}
	handlershared.RespondPage(c, items, q, total)
}

// GetProductType 商品类型详情
func (h *Handler) GetProductType(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	item, err := h.ProductTypeService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, item)
}

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	typeID, ok := handlershared.QueryUint(c, "productTypeId")
	if !ok {
		return
	}
	q := service.ProductQuery{PageQuery: handlershared.ParsePageQuery(c), ProductTypeID: typeID}
	items, total, err := h.ProductService.List(q)
	if err != nil {
		respondError(c, err)
		return
	}
	handlershared.RespondPage(c, items, q.PageQuery, total)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	item, err := h.ProductService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, item)
}

// ListYugiohCards 卡牌列表
func (h *Handler) ListYugiohCards(c *gin.Context) {
	categoryID, ok := handlershared.QueryUint(c, "categoryId")
	if !ok {
		return
	}
	typeID, ok := handlershared.QueryUint(c, "typeId")
	if !ok {
		return
	}
	q := service.YugiohCardQuery{
		PageQuery:  handlershared.ParsePageQuery(c),
		CategoryID: categoryID,
		TypeID:     typeID,
		Attribute:  strings.TrimSpace(c.Query("attribute")),
	}
	items, total, err := h.YugiohCardService.List(q)
	if err != nil {
		respondError(c, err)
		return
	}
	handlershared.RespondPage(c, items, q.PageQuery, total)
}

// GetYugiohCard 卡牌详情
func (h *Handler) GetYugiohCard(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	item, err := h.YugiohCardService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, item)
}

// ListYugiohCardCategories 卡牌类别列表
func (h *Handler) ListYugiohCardCategories(c *gin.Context) {
	items, err := h.YugiohCardService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// ListYugiohCardTypes 卡牌种族列表
func (h *Handler) ListYugiohCardTypes(c *gin.Context) {
	items, err := h.YugiohCardService.ListTypes()
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// ListInventory 库存列表
func (h *Handler) ListInventory(c *gin.Context) {
	productID, ok := handlershared.QueryUint(c, "productId")
	if !ok {
		return
	}
	cardID, ok := handlershared.QueryUint(c, "yugiohCardId")
	if !ok {
		return
	}
	inStock, _ := strconv.ParseBool(c.DefaultQuery("inStock", "false"))
	q := service.InventoryQuery{
		PageQuery:    handlershared.ParsePageQuery(c),
		ProductID:    productID,
		YugiohCardID: cardID,
		InStockOnly:  inStock,
	}
	items, total, err := h.InventoryService.List(q)
	if err != nil {
		respondError(c, err)
		return
	}
	handlershared.RespondPage(c, items, q.PageQuery, total)
}

// GetInventoryItem 库存项详情
func (h *Handler) GetInventoryItem(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	item, err := h.InventoryService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, item)
}

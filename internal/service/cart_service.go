package service

import (
	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/repository"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	InventoryItemID uint         `json:"inventoryItemId"`
	Name            string       `json:"name"`
	Version         string       `json:"version"`
	Condition       string       `json:"condition"`
	Quantity        int          `json:"quantity"`
	UnitPrice       models.Money `json:"unitPrice"`
	Subtotal        models.Money `json:"subtotal"`
	Available       int          `json:"available"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo      repository.CartRepository
	inventoryRepo repository.InventoryRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, inventoryRepo repository.InventoryRepository) *CartService {
	return &CartService{
		cartRepo:      cartRepo,
		inventoryRepo: inventoryRepo,
	}
}

// List 获取用户购物车
func (s *CartService) List(principal *authz.Principal, userID uint) ([]CartItemDetail, error) {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return nil, err
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		detail := CartItemDetail{
			InventoryItemID: item.InventoryItemID,
			Quantity:        item.Quantity,
		}
		if inv := item.InventoryItem; inv != nil {
			detail.Name = inv.DisplayName()
			detail.Version = inv.Version
			detail.Condition = inv.Condition
			detail.UnitPrice = inv.Price
			detail.Subtotal = inv.Price.Times(item.Quantity)
			detail.Available = inv.Quantity
		}
		details = append(details, detail)
	}
	return details, nil
}

var errCartLineExists = newDetailError(ErrResourceAlreadyExists, "inventory item is already in the cart")

// AddItem 加入购物车，同一库存条目重复加入返回 ErrResourceAlreadyExists
func (s *CartService) AddItem(principal *authz.Principal, userID, inventoryItemID uint, quantity int) (*models.ShoppingCartItem, error) {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return nil, err
	}
	if err := validateCartLine(inventoryItemID, quantity); err != nil {
		return nil, err
	}
	inv, err := s.inventoryRepo.GetByID(inventoryItemID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, notFoundError("inventory item %d not found", inventoryItemID)
	}
	item := &models.ShoppingCartItem{
		UserID:          userID,
		InventoryItemID: inventoryItemID,
		Quantity:        quantity,
	}
	// 唯一索引兜底并发重复加入
	created, err := s.cartRepo.CreateIfAbsent(item)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, errCartLineExists
	}
	item.InventoryItem = inv
	return item, nil
}

// UpdateItem 修改购物车数量
func (s *CartService) UpdateItem(principal *authz.Principal, userID, inventoryItemID uint, quantity int) error {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return err
	}
	if err := validateCartLine(inventoryItemID, quantity); err != nil {
		return err
	}
	rows, err := s.cartRepo.UpdateQuantity(userID, inventoryItemID, quantity)
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFoundError("cart item %d not found", inventoryItemID)
	}
	return nil
}

// RemoveItem 移除购物车条目
func (s *CartService) RemoveItem(principal *authz.Principal, userID, inventoryItemID uint) error {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return err
	}
	rows, err := s.cartRepo.DeleteByUserAndItem(userID, inventoryItemID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFoundError("cart item %d not found", inventoryItemID)
	}
	return nil
}

// Clear 清空购物车
func (s *CartService) Clear(principal *authz.Principal, userID uint) error {
	if err := authz.RequireSameUserOrAdmin(principal, userID); err != nil {
		return err
	}
	return s.cartRepo.ClearByUser(userID)
}

func validateCartLine(inventoryItemID uint, quantity int) error {
	var fields []FieldError
	if inventoryItemID == 0 {
		fields = append(fields, FieldError{Field: "inventoryItemId", Message: "must be positive"})
	}
	if quantity <= 0 {
		fields = append(fields, FieldError{Field: "quantity", Message: "must be positive"})
	}
	return fieldValidation(fields)
}

package repository

import (
	"github.com/cardmart-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(userID uint) ([]models.ShoppingCartItem, error)
	CreateIfAbsent(item *models.ShoppingCartItem) (bool, error)
	UpdateQuantity(userID, inventoryItemID uint, quantity int) (int64, error)
	DeleteByUserAndItem(userID, inventoryItemID uint) (int64, error)
	ClearByUser(userID uint) error
	CountByInventoryItem(inventoryItemID uint) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户购物车项
func (r *GormCartRepository) ListByUser(userID uint) ([]models.ShoppingCartItem, error) {
	var items []models.ShoppingCartItem
	if err := r.db.Preload("InventoryItem").Preload("InventoryItem.Product").Preload("InventoryItem.YugiohCard").
		Where("user_id = ?", userID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateIfAbsent 添加购物车项，(user_id, inventory_item_id) 已存在时不写入并返回 false
func (r *GormCartRepository) CreateIfAbsent(item *models.ShoppingCartItem) (bool, error) {
	result := r.db.Omit("InventoryItem").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "inventory_item_id"}},
		DoNothing: true,
	}).Create(item)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateQuantity 更新购物车数量
func (r *GormCartRepository) UpdateQuantity(userID, inventoryItemID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND inventory_item_id = ?", userID, inventoryItemID).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

// DeleteByUserAndItem 删除购物车项
func (r *GormCartRepository) DeleteByUserAndItem(userID, inventoryItemID uint) (int64, error) {
	result := r.db.Where("user_id = ? AND inventory_item_id = ?", userID, inventoryItemID).Delete(&models.ShoppingCartItem{})
	return result.RowsAffected, result.Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.ShoppingCartItem{}).Error
}

// CountByInventoryItem 统计引用该库存条目的购物车行
func (r *GormCartRepository) CountByInventoryItem(inventoryItemID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.ShoppingCartItem{}).Where("inventory_item_id = ?", inventoryItemID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package models

import "time"

// ShoppingCartItem 购物车条目
type ShoppingCartItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                                 // 主键
	UserID          uint      `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"userId"`                // 用户ID
	InventoryItemID uint      `gorm:"not null;uniqueIndex:idx_cart_user_item;index" json:"inventoryItemId"` // 库存条目ID
	Quantity        int       `gorm:"not null" json:"quantity"`                                             // 数量
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`                                               // 创建时间
	UpdatedAt       time.Time `json:"updatedAt"`                                                            // 更新时间

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID;constraint:OnDelete:RESTRICT" json:"inventoryItem,omitempty"`
}

// TableName 指定表名
func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}

package models

import (
	"time"
)

// OrderItem 订单项（下单时的库存快照）
type OrderItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                 // 主键
	OrderID         uint      `gorm:"index;not null" json:"orderId"`                        // 订单ID
	InventoryItemID uint      `gorm:"index;not null" json:"inventoryItemId"`                // 库存条目ID
	ProductName     string    `gorm:"type:varchar(200);not null" json:"productName"`        // 商品名称快照
	Version         string    `gorm:"type:varchar(120);not null;default:''" json:"version"` // 版本快照
	Condition       string    `gorm:"type:varchar(32);not null" json:"condition"`           // 品相快照
	UnitPrice       Money     `gorm:"type:decimal(20,2);not null" json:"unitPrice"`         // 单价快照
	Quantity        int       `gorm:"not null" json:"quantity"`                             // 数量
	CreatedAt       time.Time `json:"createdAt"`                                            // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal 行小计
func (i OrderItem) Subtotal() Money {
	return i.UnitPrice.Times(i.Quantity)
}

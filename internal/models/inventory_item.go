package models

import (
	"errors"
	"time"
)

// ErrInventoryRefInvalid 库存引用必须且只能指向商品或卡牌之一
var ErrInventoryRefInvalid = errors.New("inventory item must reference exactly one of product or card")

// InventoryRef 库存引用（ProductRef 或 CardRef）
type InventoryRef interface {
	RefID() uint
	inventoryRef()
}

// ProductRef 指向商品的库存引用
type ProductRef struct {
	ID uint
}

// RefID 返回引用的主键
func (r ProductRef) RefID() uint { return r.ID }
func (ProductRef) inventoryRef() {}

// CardRef 指向卡牌的库存引用
type CardRef struct {
	ID uint
}

// RefID 返回引用的主键
func (r CardRef) RefID() uint { return r.ID }
func (CardRef) inventoryRef() {}

// InventoryItem 库存条目
type InventoryItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                   // 主键
	ProductID    *uint     `gorm:"index" json:"productId"`                                 // 商品ID（与卡牌ID二选一）
	YugiohCardID *uint     `gorm:"index" json:"yugiohCardId"`                              // 卡牌ID（与商品ID二选一）
	Version      string    `gorm:"type:varchar(120);not null;default:''" json:"version"`   // 版本/卡号
	Condition    string    `gorm:"type:varchar(32);not null" json:"condition"`             // 品相
	Price        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`     // 单价
	Quantity     int       `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"` // 库存数量
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`                                 // 创建时间
	UpdatedAt    time.Time `json:"updatedAt"`                                              // 更新时间

	// 关联
	Product    *Product    `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	YugiohCard *YugiohCard `gorm:"foreignKey:YugiohCardID;constraint:OnDelete:RESTRICT" json:"yugiohCard,omitempty"`
}

// TableName 指定表名
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// Ref 返回库存引用，存储状态非法时返回错误
func (i *InventoryItem) Ref() (InventoryRef, error) {
	hasProduct := i.ProductID != nil && *i.ProductID > 0
	hasCard := i.YugiohCardID != nil && *i.YugiohCardID > 0
	switch {
	case hasProduct && !hasCard:
		return ProductRef{ID: *i.ProductID}, nil
	case hasCard && !hasProduct:
		return CardRef{ID: *i.YugiohCardID}, nil
	default:
		return nil, ErrInventoryRefInvalid
	}
}

// SetRef 写入库存引用，同时清空另一列
func (i *InventoryItem) SetRef(ref InventoryRef) error {
	if ref == nil || ref.RefID() == 0 {
		return ErrInventoryRefInvalid
	}
	id := ref.RefID()
	switch ref.(type) {
	case ProductRef:
		i.ProductID = &id
		i.YugiohCardID = nil
	case CardRef:
		i.YugiohCardID = &id
		i.ProductID = nil
	default:
		return ErrInventoryRefInvalid
	}
	return nil
}

// DisplayName 返回引用对象的名称（需预加载关联）
func (i *InventoryItem) DisplayName() string {
	if i.Product != nil {
		return i.Product.Name
	}
	if i.YugiohCard != nil {
		return i.YugiohCard.Name
	}
	return ""
}

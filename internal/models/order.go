package models

import (
	"time"
)

// Order 订单表
type Order struct {
	ID         uint       `gorm:"primarykey" json:"id"`                                    // 主键
	UserID     uint       `gorm:"index;not null" json:"userId"`                            // 用户ID
	Status     string     `gorm:"type:varchar(32);not null;index" json:"status"`           // 订单状态
	TotalPrice Money      `gorm:"type:decimal(20,2);not null;default:0" json:"totalPrice"` // 订单总价（创建时冻结）
	CanceledAt *time.Time `gorm:"index" json:"canceledAt"`                                 // 取消时间
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`                                  // 创建时间
	UpdatedAt  time.Time  `gorm:"index" json:"updatedAt"`                                  // 更新时间

	// 关联
	Items     []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`     // 订单项
	Addresses []OrderAddress `gorm:"foreignKey:OrderID" json:"addresses,omitempty"` // 订单地址
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// BillingAddress 返回第一条账单地址
func (o *Order) BillingAddress() *OrderAddress {
	for i := range o.Addresses {
		if o.Addresses[i].BillingAddress {
			return &o.Addresses[i]
		}
	}
	return nil
}

// DeliveryAddress 返回第一条收货地址
func (o *Order) DeliveryAddress() *OrderAddress {
	for i := range o.Addresses {
		if o.Addresses[i].DeliveryAddress {
			return &o.Addresses[i]
		}
	}
	return nil
}

// AddressSetConsistent 每个订单应恰好有一条账单地址和一条收货地址，且每行只承担一个角色
func (o *Order) AddressSetConsistent() bool {
	billing, delivery := 0, 0
	for _, addr := range o.Addresses {
		if addr.BillingAddress == addr.DeliveryAddress {
			return false
		}
		if addr.BillingAddress {
			billing++
		} else {
			delivery++
		}
	}
	return billing == 1 && delivery == 1
}

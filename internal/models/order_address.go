package models

// OrderAddress 订单地址（账单或收货，二者恰好其一）
type OrderAddress struct {
	ID              uint `gorm:"primarykey" json:"id"`                          // 主键
	OrderID         uint `gorm:"index;not null" json:"orderId"`                 // 订单ID
	BillingAddress  bool `gorm:"not null;default:false" json:"billingAddress"`  // 账单地址
	DeliveryAddress bool `gorm:"not null;default:false" json:"deliveryAddress"` // 收货地址

	// 地址
	AddressFields `gorm:"embedded"`
}

// TableName 指定表名
func (OrderAddress) TableName() string {
	return "order_addresses"
}

package models

import "time"

// OrderStatusLog 订单状态事件日志（由后台任务写入）
type OrderStatusLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                 // 主键
	OrderID   uint      `gorm:"index;not null" json:"orderId"`                        // 订单ID
	Status    string    `gorm:"type:varchar(32);not null" json:"status"`              // 状态
	EventID   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"eventId"` // 事件ID
	Published bool      `gorm:"not null;default:false" json:"published"`              // 是否已投递到消息总线
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                               // 创建时间
}

// TableName 指定表名
func (OrderStatusLog) TableName() string {
	return "order_status_logs"
}

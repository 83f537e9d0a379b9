package models

import "time"

// ProductType 商品类型（例如 卡盒、卡套、周边）
type ProductType struct {
	ID          uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"` // 名称
	Description string    `gorm:"type:text" json:"description"`                       // 描述
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`                             // 创建时间
	UpdatedAt   time.Time `json:"updatedAt"`                                          // 更新时间
}

// TableName 指定表名
func (ProductType) TableName() string {
	return "product_types"
}

package models

import "time"

// Product 商品表
type Product struct {
	ID            uint      `gorm:"primarykey" json:"id"`                         // 主键
	Name          string    `gorm:"type:varchar(200);not null;index" json:"name"` // 名称
	Description   string    `gorm:"type:text" json:"description"`                 // 描述
	ProductTypeID uint      `gorm:"not null;index" json:"productTypeId"`          // 商品类型ID
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`                       // 创建时间
	UpdatedAt     time.Time `json:"updatedAt"`                                    // 更新时间

	// 关联
	ProductType *ProductType `gorm:"foreignKey:ProductTypeID;constraint:OnDelete:RESTRICT" json:"productType,omitempty"` // 商品类型
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// AddressFields 地址公共字段（用户地址与订单地址共用）
type AddressFields struct {
	FullName   string `gorm:"type:varchar(120)" json:"fullName"`
	Street     string `gorm:"type:varchar(200);not null" json:"street"`
	Number     string `gorm:"type:varchar(20)" json:"number"`
	Complement string `gorm:"type:varchar(120)" json:"complement"`
	City       string `gorm:"type:varchar(120);not null" json:"city"`
	State      string `gorm:"type:varchar(120)" json:"state"`
	ZipCode    string `gorm:"type:varchar(20);not null" json:"zipCode"`
	Country    string `gorm:"type:varchar(80);not null" json:"country"`
	Phone      string `gorm:"type:varchar(40)" json:"phone"`
}

// UserAddress 用户地址簿
type UserAddress struct {
	ID        uint           `gorm:"primarykey" json:"id"`         // 主键
	UserID    uint           `gorm:"index;not null" json:"userId"` // 用户ID
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`       // 创建时间
	UpdatedAt time.Time      `json:"updatedAt"`                    // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`               // 软删除时间

	// 地址
	AddressFields `gorm:"embedded"`
}

// TableName 指定表名
func (UserAddress) TableName() string {
	return "user_addresses"
}

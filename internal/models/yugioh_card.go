package models

import "time"

// YugiohCardCategory 卡牌类别（决定卡牌的字段形态）
type YugiohCardCategory struct {
	ID   uint   `gorm:"primarykey" json:"id"`                               // 主键
	Name string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"` // 名称
	Kind string `gorm:"type:varchar(32);not null;index" json:"kind"`        // 形态：MONSTER/MONSTER_PENDULUM/MONSTER_LINK/NON_MONSTER
}

// TableName 指定表名
func (YugiohCardCategory) TableName() string {
	return "yugioh_card_categories"
}

// YugiohCardType 卡牌种族（例如 龙族、魔法师族）
type YugiohCardType struct {
	ID   uint   `gorm:"primarykey" json:"id"`                               // 主键
	Name string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"` // 名称
}

// TableName 指定表名
func (YugiohCardType) TableName() string {
	return "yugioh_card_types"
}

// YugiohCard 游戏王卡牌
type YugiohCard struct {
	ID            uint        `gorm:"primarykey" json:"id"`                         // 主键
	Name          string      `gorm:"type:varchar(200);not null;index" json:"name"` // 卡名
	Description   string      `gorm:"type:text" json:"description"`                 // 效果描述
	CategoryID    uint        `gorm:"not null;index" json:"categoryId"`             // 类别ID
	TypeID        *uint       `gorm:"index" json:"typeId"`                          // 种族ID（可选）
	Attribute     string      `gorm:"type:varchar(16)" json:"attribute,omitempty"`  // 属性
	Level         *int        `json:"level,omitempty"`                              // 等级/阶级
	PendulumScale *int        `json:"pendulumScale,omitempty"`                      // 灵摆刻度
	LinkValue     *int        `json:"linkValue,omitempty"`                          // 连接值
	LinkArrows    StringArray `gorm:"type:json" json:"linkArrows,omitempty"`        // 连接箭头
	Atk           *int        `json:"atk,omitempty"`                                // 攻击力
	Def           *int        `json:"def,omitempty"`                                // 守备力
	CreatedAt     time.Time   `gorm:"index" json:"createdAt"`                       // 创建时间
	UpdatedAt     time.Time   `json:"updatedAt"`                                    // 更新时间

	// 关联
	Category *YugiohCardCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Type     *YugiohCardType     `gorm:"foreignKey:TypeID;constraint:OnDelete:RESTRICT" json:"type,omitempty"`
}

// TableName 指定表名
func (YugiohCard) TableName() string {
	return "yugioh_cards"
}

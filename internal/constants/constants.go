package constants

// 订单状态常量
const (
	OrderStatusPendingValidation = "PENDING-VALIDATION"
	OrderStatusConfirmed         = "CONFIRMED"
	OrderStatusCanceled          = "CANCELED"
)

// 用户权限常量
const (
	PermissionAdmin    = "ADMIN"
	PermissionCustomer = "CUSTOMER"
)

// 卡牌类别常量
const (
	CardKindMonster         = "MONSTER"
	CardKindMonsterPendulum = "MONSTER_PENDULUM"
	CardKindMonsterLink     = "MONSTER_LINK"
	CardKindNonMonster      = "NON_MONSTER"
)

// 卡牌属性常量
const (
	CardAttributeDark   = "DARK"
	CardAttributeDivine = "DIVINE"
	CardAttributeEarth  = "EARTH"
	CardAttributeFire   = "FIRE"
	CardAttributeLight  = "LIGHT"
	CardAttributeWater  = "WATER"
	CardAttributeWind   = "WIND"
)

// CardAttributes 合法的卡牌属性
var CardAttributes = []string{
	CardAttributeDark, CardAttributeDivine, CardAttributeEarth, CardAttributeFire,
	CardAttributeLight, CardAttributeWater, CardAttributeWind,
}

// 连接箭头方向常量
const (
	LinkArrowTop         = "TOP"
	LinkArrowTopRight    = "TOP_RIGHT"
	LinkArrowRight       = "RIGHT"
	LinkArrowBottomRight = "BOTTOM_RIGHT"
	LinkArrowBottom      = "BOTTOM"
	LinkArrowBottomLeft  = "BOTTOM_LEFT"
	LinkArrowLeft        = "LEFT"
	LinkArrowTopLeft     = "TOP_LEFT"
)

// LinkArrows 合法的连接箭头方向
var LinkArrows = []string{
	LinkArrowTop, LinkArrowTopRight, LinkArrowRight, LinkArrowBottomRight,
	LinkArrowBottom, LinkArrowBottomLeft, LinkArrowLeft, LinkArrowTopLeft,
}

// 库存品相常量
const (
	ConditionMint        = "MINT"
	ConditionNearMint    = "NEAR_MINT"
	ConditionExcellent   = "EXCELLENT"
	ConditionGood        = "GOOD"
	ConditionLightPlayed = "LIGHT_PLAYED"
	ConditionPlayed      = "PLAYED"
	ConditionPoor        = "POOR"
)

// Conditions 合法的库存品相
var Conditions = []string{
	ConditionMint, ConditionNearMint, ConditionExcellent, ConditionGood,
	ConditionLightPlayed, ConditionPlayed, ConditionPoor,
}

// 订单事件类型常量
const (
	OrderEventConfirmed = "order.confirmed"
	OrderEventCanceled  = "order.canceled"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderStatusChanged = "order:status_changed"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "cm"
)

// 分页常量
const (
	PageSizeDefault = 20
	PageSizeMax     = 100
	SortAsc         = "asc"
	SortDesc        = "desc"
)

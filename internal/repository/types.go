package repository

// ListFilter 通用分页与排序条件
type ListFilter struct {
	Page      int
	PageSize  int
	Direction string // asc / desc，按主键排序
	Search    string
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	ListFilter
	ProductTypeID uint
}

// CardListFilter 查询卡牌列表的过滤条件
type CardListFilter struct {
	ListFilter
	CategoryID uint
	TypeID     uint
	Attribute  string
}

// InventoryListFilter 查询库存列表的过滤条件
type InventoryListFilter struct {
	ListFilter
	ProductID    uint
	YugiohCardID uint
	InStockOnly  bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
}

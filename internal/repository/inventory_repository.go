package repository

import (
	"errors"

	"github.com/cardmart-next/internal/models"

	"gorm.io/gorm"
)

// InventoryRepository 库存数据访问接口
type InventoryRepository interface {
	List(filter InventoryListFilter) ([]models.InventoryItem, int64, error)
	GetByID(id uint) (*models.InventoryItem, error)
	Create(item *models.InventoryItem) error
	Update(item *models.InventoryItem) error
	Delete(id uint) error
	CountByProduct(productID uint) (int64, error)
	CountByCard(cardID uint) (int64, error)
	DecreaseStock(id uint, quantity int) (int64, error)
	IncreaseStock(id uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) InventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

func (r *GormInventoryRepository) withRefs(query *gorm.DB) *gorm.DB {
	return query.Preload("Product").Preload("YugiohCard")
}

// List 库存列表
func (r *GormInventoryRepository) List(filter InventoryListFilter) ([]models.InventoryItem, int64, error) {
	query := r.db.Model(&models.InventoryItem{})
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.YugiohCardID > 0 {
		query = query.Where("yugioh_card_id = ?", filter.YugiohCardID)
	}
	if filter.InStockOnly {
		query = query.Where("quantity > 0")
	}
	query = applySearch(query, filter.Search, "version")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.InventoryItem
	if err := applyListFilter(r.withRefs(query), filter.ListFilter).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID 根据 ID 获取库存条目（含引用对象）
func (r *GormInventoryRepository) GetByID(id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.withRefs(r.db).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建库存条目
func (r *GormInventoryRepository) Create(item *models.InventoryItem) error {
	return r.db.Omit("Product", "YugiohCard").Create(item).Error
}

// Update 更新库存条目
func (r *GormInventoryRepository) Update(item *models.InventoryItem) error {
	return r.db.Omit("Product", "YugiohCard").Save(item).Error
}

// Delete 删除库存条目
func (r *GormInventoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.InventoryItem{}, id).Error
}

// CountByProduct 统计引用该商品的库存条目
func (r *GormInventoryRepository) CountByProduct(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.InventoryItem{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCard 统计引用该卡牌的库存条目
func (r *GormInventoryRepository) CountByCard(cardID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.InventoryItem{}).Where("yugioh_card_id = ?", cardID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DecreaseStock 条件扣减库存，库存不足时影响行数为 0
func (r *GormInventoryRepository) DecreaseStock(id uint, quantity int) (int64, error) {
	if id == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrease params")
	}
	result := r.db.Model(&models.InventoryItem{}).
		Where("id = ? AND quantity >= ?", id, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncreaseStock 归还库存，条目不存在时影响行数为 0
func (r *GormInventoryRepository) IncreaseStock(id uint, quantity int) (int64, error) {
	if id == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock increase params")
	}
	result := r.db.Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

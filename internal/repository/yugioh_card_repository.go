package repository

import (
	"errors"

	"github.com/cardmart-next/internal/models"

	"gorm.io/gorm"
)

// YugiohCardRepository 卡牌数据访问接口
type YugiohCardRepository interface {
	List(filter CardListFilter) ([]models.YugiohCard, int64, error)
	GetByID(id uint) (*models.YugiohCard, error)
	Create(card *models.YugiohCard) error
	Update(card *models.YugiohCard) error
	Delete(id uint) error
	ListCategories() ([]models.YugiohCardCategory, error)
	GetCategoryByID(id uint) (*models.YugiohCardCategory, error)
	ListTypes() ([]models.YugiohCardType, error)
	GetTypeByID(id uint) (*models.YugiohCardType, error)
}

// GormYugiohCardRepository GORM 实现
type GormYugiohCardRepository struct {
	db *gorm.DB
}

// NewYugiohCardRepository 创建卡牌仓库
func NewYugiohCardRepository(db *gorm.DB) *GormYugiohCardRepository {
	return &GormYugiohCardRepository{db: db}
}

// List 卡牌列表
func (r *GormYugiohCardRepository) List(filter CardListFilter) ([]models.YugiohCard, int64, error) {
	query := r.db.Model(&models.YugiohCard{})
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.TypeID > 0 {
		query = query.Where("type_id = ?", filter.TypeID)
	}
	if filter.Attribute != "" {
		query = query.Where("attribute = ?", filter.Attribute)
	}
	query = applySearch(query, filter.Search, "name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cards []models.YugiohCard
	query = query.Preload("Category").Preload("Type")
	if err := applyListFilter(query, filter.ListFilter).Find(&cards).Error; err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// GetByID 根据 ID 获取卡牌
func (r *GormYugiohCardRepository) GetByID(id uint) (*models.YugiohCard, error) {
	var card models.YugiohCard
	if err := r.db.Preload("Category").Preload("Type").First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// Create 创建卡牌
func (r *GormYugiohCardRepository) Create(card *models.YugiohCard) error {
	return r.db.Omit("Category", "Type").Create(card).Error
}

// Update 更新卡牌
func (r *GormYugiohCardRepository) Update(card *models.YugiohCard) error {
	return r.db.Omit("Category", "Type").Save(card).Error
}

// Delete 删除卡牌
func (r *GormYugiohCardRepository) Delete(id uint) error {
	return r.db.Delete(&models.YugiohCard{}, id).Error
}

// ListCategories 获取全部卡牌类别
func (r *GormYugiohCardRepository) ListCategories() ([]models.YugiohCardCategory, error) {
	var rows []models.YugiohCardCategory
	if err := r.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetCategoryByID 根据 ID 获取卡牌类别
func (r *GormYugiohCardRepository) GetCategoryByID(id uint) (*models.YugiohCardCategory, error) {
	var row models.YugiohCardCategory
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListTypes 获取全部卡牌种族
func (r *GormYugiohCardRepository) ListTypes() ([]models.YugiohCardType, error) {
	var rows []models.YugiohCardType
	if err := r.db.Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTypeByID 根据 ID 获取卡牌种族
func (r *GormYugiohCardRepository) GetTypeByID(id uint) (*models.YugiohCardType, error) {
	var row models.YugiohCardType
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

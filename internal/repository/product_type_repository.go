package repository

import (
	"errors"

	"github.com/cardmart-next/internal/models"

	"gorm.io/gorm"
)

// ProductTypeRepository 商品类型数据访问接口
type ProductTypeRepository interface {
	List(filter ListFilter) ([]models.ProductType, int64, error)
	GetByID(id uint) (*models.ProductType, error)
	CountByName(name string, excludeID uint) (int64, error)
	Create(productType *models.ProductType) error
	Update(productType *models.ProductType) error
	Delete(id uint) error
}

// GormProductTypeRepository GORM 实现
type GormProductTypeRepository struct {
	db *gorm.DB
}

// NewProductTypeRepository 创建商品类型仓库
func NewProductTypeRepository(db *gorm.DB) *GormProductTypeRepository {
	return &GormProductTypeRepository{db: db}
}

// List 商品类型列表
func (r *GormProductTypeRepository) List(filter ListFilter) ([]models.ProductType, int64, error) {
	query := applySearch(r.db.Model(&models.ProductType{}), filter.Search, "name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductType
	if err := applyListFilter(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetByID 根据 ID 获取商品类型
func (r *GormProductTypeRepository) GetByID(id uint) (*models.ProductType, error) {
	var row models.ProductType
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CountByName 统计同名类型数量（可排除自身）
func (r *GormProductTypeRepository) CountByName(name string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.ProductType{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建商品类型
func (r *GormProductTypeRepository) Create(productType *models.ProductType) error {
	return r.db.Create(productType).Error
}

// Update 更新商品类型
func (r *GormProductTypeRepository) Update(productType *models.ProductType) error {
	return r.db.Save(productType).Error
}

// Delete 删除商品类型
func (r *GormProductTypeRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProductType{}, id).Error
}

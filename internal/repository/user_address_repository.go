package repository

import (
	"errors"

	"github.com/cardmart-next/internal/models"

	"gorm.io/gorm"
)

// UserAddressRepository 用户地址数据访问接口
type UserAddressRepository interface {
	ListByUser(userID uint) ([]models.UserAddress, error)
	GetByIDAndUser(id, userID uint) (*models.UserAddress, error)
	Create(address *models.UserAddress) error
	Update(address *models.UserAddress) error
	Delete(id, userID uint) error
}

// GormUserAddressRepository GORM 实现
type GormUserAddressRepository struct {
	db *gorm.DB
}

// NewUserAddressRepository 创建用户地址仓库
func NewUserAddressRepository(db *gorm.DB) *GormUserAddressRepository {
	return &GormUserAddressRepository{db: db}
}

// ListByUser 获取用户全部地址
func (r *GormUserAddressRepository) ListByUser(userID uint) ([]models.UserAddress, error) {
	var addresses []models.UserAddress
	if err := r.db.Where("user_id = ?", userID).Order("id asc").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// GetByIDAndUser 获取用户的指定地址
func (r *GormUserAddressRepository) GetByIDAndUser(id, userID uint) (*models.UserAddress, error) {
	var address models.UserAddress
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// Create 创建地址
func (r *GormUserAddressRepository) Create(address *models.UserAddress) error {
	return r.db.Create(address).Error
}

// Update 更新地址
func (r *GormUserAddressRepository) Update(address *models.UserAddress) error {
	return r.db.Save(address).Error
}

// Delete 删除地址
func (r *GormUserAddressRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.UserAddress{}).Error
}

package repository

import (
	"errors"

	"github.com/cardmart-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderStatusLogRepository 订单状态日志数据访问接口
type OrderStatusLogRepository interface {
	Create(log *models.OrderStatusLog) (bool, error)
	GetByEventID(eventID string) (*models.OrderStatusLog, error)
	MarkPublished(eventID string) error
	ListByOrder(orderID uint) ([]models.OrderStatusLog, error)
}

// GormOrderStatusLogRepository GORM 实现
type GormOrderStatusLogRepository struct {
	db *gorm.DB
}

// NewOrderStatusLogRepository 创建订单状态日志仓库
func NewOrderStatusLogRepository(db *gorm.DB) *GormOrderStatusLogRepository {
	return &GormOrderStatusLogRepository{db: db}
}

// Create 写入状态日志，事件 ID 重复时忽略并返回 false
func (r *GormOrderStatusLogRepository) Create(log *models.OrderStatusLog) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).Create(log)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetByEventID 根据事件 ID 获取状态日志
func (r *GormOrderStatusLogRepository) GetByEventID(eventID string) (*models.OrderStatusLog, error) {
	var row models.OrderStatusLog
	if err := r.db.Where("event_id = ?", eventID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// MarkPublished 标记事件已投递
func (r *GormOrderStatusLogRepository) MarkPublished(eventID string) error {
	return r.db.Model(&models.OrderStatusLog{}).Where("event_id = ?", eventID).Update("published", true).Error
}

// ListByOrder 获取订单的状态日志
func (r *GormOrderStatusLogRepository) ListByOrder(orderID uint) ([]models.OrderStatusLog, error) {
	var rows []models.OrderStatusLog
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

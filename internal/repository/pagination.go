package repository

import (
	"strings"

	"github.com/cardmart-next/internal/constants"

	"gorm.io/gorm"
)

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return query.Limit(pageSize).Offset(offset)
}

// applyIDSort 按主键排序，非法方向回退为升序。
func applyIDSort(query *gorm.DB, direction string) *gorm.DB {
	if query == nil {
		return query
	}
	if strings.EqualFold(strings.TrimSpace(direction), constants.SortDesc) {
		return query.Order("id desc")
	}
	return query.Order("id asc")
}

// applyListFilter 依次应用排序与分页
func applyListFilter(query *gorm.DB, filter ListFilter) *gorm.DB {
	return applyPagination(applyIDSort(query, filter.Direction), filter.Page, filter.PageSize)
}

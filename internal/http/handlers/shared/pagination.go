package shared

import (
	"strconv"
	"strings"

	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constants.PageSizeDefault
	}
	if pageSize > constants.PageSizeMax {
		pageSize = constants.PageSizeMax
	}
	return page, pageSize
}

// ParsePageQuery 从查询参数解析分页条件，非数字的页码按默认值处理。
func ParsePageQuery(c *gin.Context) service.PageQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(firstQuery(c, "pageSize", "page_size"))
	return service.PageQuery{
		Page:      page,
		PageSize:  pageSize,
		Direction: strings.TrimSpace(c.Query("direction")),
		Search:    strings.TrimSpace(c.Query("search")),
	}
}

// RespondPage 输出分页列表。
func RespondPage(c *gin.Context, data interface{}, q service.PageQuery, total int64) {
	page, pageSize := NormalizePagination(q.Page, q.PageSize)
	response.SuccessWithPage(c, data, response.NewPagination(page, pageSize, total))
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(c.Query(key)); value != "" {
			return value
		}
	}
	return ""
}

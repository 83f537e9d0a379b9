package service

import (
	"strings"

	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/repository"
)

// PageQuery 列表分页参数
type PageQuery struct {
	Page      int
	PageSize  int
	Direction string
	Search    string
}

// normalizePageQuery 补齐默认分页并校验排序方向
func normalizePageQuery(q PageQuery) (repository.ListFilter, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = constants.PageSizeDefault
	}
	if pageSize > constants.PageSizeMax {
		pageSize = constants.PageSizeMax
	}
	direction := strings.ToLower(strings.TrimSpace(q.Direction))
	switch direction {
	case "":
		direction = constants.SortAsc
	case constants.SortAsc, constants.SortDesc:
	default:
		return repository.ListFilter{}, validationError("direction must be asc or desc",
			FieldError{Field: "direction", Message: "must be asc or desc"})
	}
	return repository.ListFilter{
		Page:      page,
		PageSize:  pageSize,
		Direction: direction,
		Search:    strings.TrimSpace(q.Search),
	}, nil
}

// checkPathID 路径ID与请求体ID不一致时报错，请求体未携带ID视为一致
func checkPathID(pathID, bodyID uint) error {
	if bodyID != 0 && bodyID != pathID {
		return validationError("path id does not match body id", FieldError{Field: "id", Message: "does not match path id"})
	}
	return nil
}

func blankField(field string) FieldError {
	return FieldError{Field: field, Message: "must not be blank"}
}

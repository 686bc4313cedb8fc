package repositories

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"hr-system/pkg/types"
)

// ListParams - белые списки для фильтрации, поиска и сортировки (защита от SQL Injection).
type ListParams struct {
	AllowedFilters map[string]string
	SearchColumns  []string
	AllowedSort    map[string]string
	DefaultSort    string
}

// applyConditions добавляет WHERE из поиска и filter[...]. Значения через запятую -> IN.
func applyConditions(builder sq.SelectBuilder, filter types.Filter, params ListParams) sq.SelectBuilder {
	if filter.Search != "" && len(params.SearchColumns) > 0 {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		var conditions sq.Or
		for _, col := range params.SearchColumns {
			conditions = append(conditions, sq.ILike{col: pattern})
		}
		builder = builder.Where(conditions)
	}

	// порядок ключей фиксирован, чтобы SQL был одинаковым между запросами
	keys := make([]string, 0, len(filter.Filter))
	for key := range filter.Filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		dbColumn, ok := params.AllowedFilters[key]
		if !ok {
			continue
		}
		if _, isList := filter.Filter[key].(string); !isList {
			builder = builder.Where(sq.Eq{dbColumn: filter.Filter[key]})
			continue
		}
		switch values := filter.Values(key); len(values) {
		case 0:
		case 1:
			builder = builder.Where(sq.Eq{dbColumn: values[0]})
		default:
			builder = builder.Where(sq.Eq{dbColumn: values})
		}
	}
	return builder
}

// applySortAndPaging добавляет ORDER BY и LIMIT/OFFSET.
func applySortAndPaging(builder sq.SelectBuilder, filter types.Filter, params ListParams) sq.SelectBuilder {
	fields := make([]string, 0, len(filter.Sort))
	for field := range filter.Sort {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	sorted := false
	for _, field := range fields {
		dbColumn, ok := params.AllowedSort[field]
		if !ok {
			continue
		}
		direction := "ASC"
		if strings.EqualFold(filter.Sort[field], "desc") {
			direction = "DESC"
		}
		builder = builder.OrderBy(dbColumn + " " + direction)
		sorted = true
	}
	if !sorted && params.DefaultSort != "" {
		builder = builder.OrderBy(params.DefaultSort)
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}
	return builder
}

package types

import "strings"

// Filter - разобранные параметры списка: search, sort[...], filter[...], limit/page.
//
//	/api/persons?search=Lopez&sort[apellidop]=asc&filter[estatus]=Activo&filter[departamento_id]=1,2&limit=10&page=1&withPagination=true
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	Page           int                    `json:"page"`
	WithPagination bool                   `json:"with_pagination"`
}

// Values возвращает значения filter[key], записанные через запятую.
// Пустые элементы отбрасываются; ключа нет - nil.
func (f Filter) Values(key string) []string {
	raw, ok := f.Filter[key].(string)
	if !ok {
		return nil
	}
	var values []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	return values
}

type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// Package pagination holds the limit/offset paging helpers shared by the
// list endpoints.
package pagination

const (
	DefaultLimit = 50
	MaxLimit     = 250
)

// Normalize clamps a requested page window to the supported range.
func Normalize(limit, offset int) (int, int) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// PageInfo describes the window a list response covers and whether another
// page exists after it.
type PageInfo struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// BuildPageInfo trims an over-fetched result set back to the requested page.
// Callers fetch limit+1 rows; the extra row is how HasMore is detected
// without a second COUNT query.
func BuildPageInfo[T any](items []T, limit, offset int) ([]T, PageInfo) {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	return items, PageInfo{
		Limit:   limit,
		Offset:  offset,
		Count:   len(items),
		HasMore: hasMore,
	}
}

package utils

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ClampPage returns the 1-based page and page size actually served.
func ClampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case perPage < 1:
		perPage = DefaultPerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}
	return page, perPage
}

// PageOffset is the row offset of page after clamping.
func PageOffset(page, perPage int) int {
	page, perPage = ClampPage(page, perPage)
	return (page - 1) * perPage
}

func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

package service

const MAX_PAGE_SIZE = 100

// normalizePage floors page at 1 and clamps pageSize into [1, MAX_PAGE_SIZE].
func normalizePage(page int, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MAX_PAGE_SIZE {
		pageSize = MAX_PAGE_SIZE
	}
	return page, pageSize
}

func pageOffset(page int, pageSize int) int {
	return (page - 1) * pageSize
}

func totalPages(totalCount int64, pageSize int) int {
	size := int64(pageSize)
	return int((totalCount + size - 1) / size)
}

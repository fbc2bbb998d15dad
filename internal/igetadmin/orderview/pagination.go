package orderview

// PageCount is ceil(count / pageSize) with a floor of one page.
func PageCount(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

func ClampPage(page, pages int) int {
	if page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

func pageBounds(page, pageSize, count int) (start, end int) {
	start = (page - 1) * pageSize
	if start > count {
		start = count
	}
	end = start + pageSize
	if end > count {
		end = count
	}
	return start, end
}

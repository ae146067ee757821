package utils

// ChunkIDs splits ids into pages of at most pageSize keys. The backing
// store caps bulk point lookups, so callers fetch per page and merge.
func ChunkIDs(ids []uint, pageSize int) [][]uint {
	if pageSize <= 0 {
		pageSize = 10
	}
	var pages [][]uint
	for start := 0; start < len(ids); start += pageSize {
		end := start + pageSize
		if end > len(ids) {
			end = len(ids)
		}
		pages = append(pages, ids[start:end])
	}
	return pages
}

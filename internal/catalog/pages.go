package catalog

// DefaultVisiblePages is how many page buttons a pager shows at once.
const DefaultVisiblePages = 5

// PageNumbers returns the page buttons to show for the current page: a window
// of at most maxVisible pages centred on current and shifted to stay within
// [1, total].
func PageNumbers(current, total, maxVisible int) []int {
	if total < 1 {
		return nil
	}
	if maxVisible < 1 {
		maxVisible = DefaultVisiblePages
	}
	start := max(1, current-maxVisible/2)
	end := start + maxVisible - 1
	if end > total {
		end = total
		start = max(1, end-maxVisible+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

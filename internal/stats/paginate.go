package stats

// Page describes one page of a paginated list.
type Page struct {
	Number      int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	Total       int  `json:"total"`
	PerPage     int  `json:"per_page"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate computes the page for a list of total items. Pages outside the
// valid range fall back to the first page. An empty list still has one page.
func Paginate(total, perPage, page int) Page {
	if perPage < 1 {
		perPage = 1
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	if page < 1 || page > pages {
		page = 1
	}
	return Page{
		Number:      page,
		TotalPages:  pages,
		Total:       total,
		PerPage:     perPage,
		HasNext:     page < pages,
		HasPrevious: page > 1,
	}
}

// Bounds returns the slice bounds of the page's items.
func (p Page) Bounds() (start, end int) {
	start = (p.Number - 1) * p.PerPage
	end = start + p.PerPage
	if start > p.Total {
		start = p.Total
	}
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// Next is the following page number, or the current one on the last page.
func (p Page) Next() int {
	if p.HasNext {
		return p.Number + 1
	}
	return p.Number
}

// Previous is the preceding page number, or the current one on the first page.
func (p Page) Previous() int {
	if p.HasPrevious {
		return p.Number - 1
	}
	return p.Number
}

// Numbers lists every page number, for rendering pagination controls.
func (p Page) Numbers() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

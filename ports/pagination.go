package ports

// MaxPageLimit caps the page size a caller can request.
const MaxPageLimit = 100

// Page selects a window of a list result. Number is 1-based.
type Page struct {
	Number int
	Limit  int
}

// NewPage normalizes caller input, falling back to defaultLimit.
func NewPage(number, limit, defaultLimit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// PageInfo describes a page of results for API responses.
type PageInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Info builds response metadata for a result set of total rows.
func (p Page) Info(total int) PageInfo {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageInfo{Page: p.Number, Limit: p.Limit, Total: total, Pages: pages}
}

package dto

// Pagination holds page/limit query parameters
type Pagination struct {
	Page  int
	Limit int
}

// MaxPageLimit caps the limit query parameter
const MaxPageLimit = 100

// Normalize fills defaults and clamps out-of-range values
func (p Pagination) Normalize(defaultLimit int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset returns the number of rows to skip
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ListResponse represents a paginated list response
type ListResponse[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}

// NewListResponse builds a ListResponse and computes the page count
func NewListResponse[T any](results []T, count int64, p Pagination) ListResponse[T] {
	if results == nil {
		results = []T{}
	}

	totalPages := 0
	if p.Limit > 0 {
		totalPages = int(count) / p.Limit
		if int(count)%p.Limit > 0 {
			totalPages++
		}
	}

	return ListResponse[T]{
		Count:      count,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		Results:    results,
	}
}

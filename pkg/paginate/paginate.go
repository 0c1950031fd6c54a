// Package paginate holds the paginator metadata block that accompanies a
// page of post results.
package paginate

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Paginator struct {
	SlNo        int   `json:"slNo"`
	Prev        *int  `json:"prev"`
	Next        *int  `json:"next"`
	PerPage     int   `json:"perPage"`
	TotalPosts  int64 `json:"totalPosts"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage"`
}

// Normalize applies the page/limit defaults for paginated post queries.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// New computes the paginator block for a page of results. SlNo is the serial
// number of the first item on the current page; Prev/Next are page numbers,
// absent at the boundaries.
func New(total int64, page, limit int) Paginator {
	page, limit = Normalize(page, limit)

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	p := Paginator{
		SlNo:        (page-1)*limit + 1,
		PerPage:     limit,
		TotalPosts:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
	}

	if p.HasPrevPage {
		prev := page - 1
		p.Prev = &prev
	}
	if p.HasNextPage {
		next := page + 1
		p.Next = &next
	}

	return p
}

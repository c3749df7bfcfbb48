package statica

// unlimitedPageSize replaces the -1 "show everything" sentinel so a listing
// that fits always yields exactly one page.
const unlimitedPageSize = 999

// PageSpec describes a single page of a paginated listing. Numbering starts
// at 1. Next and Prev are 0 when there is no such page.
type PageSpec struct {
	Number int
	Offset int
	Count  int
	Next   int
	Prev   int
	First  bool
	Last   bool
}

// PagePlan is the derived pagination layout for one listing instance. It is
// a pure function of (totalItems, pageSize) and carries no wall-clock state.
type PagePlan struct {
	PageSize   int
	TotalItems int
	TotalPages int
	Pages      []PageSpec
}

// Paginated reports whether the plan spans more than one page. Single-page
// plans carry no pagination metadata downstream.
func (p PagePlan) Paginated() bool { return p.TotalPages > 1 }

// Plan lays out pages of pageSize items over totalItems. A pageSize of -1
// (or any non-positive value) means unlimited and is normalized so that the
// listing fits a single page. An empty listing still yields one empty page.
func Plan(totalItems, pageSize int) PagePlan {
	if pageSize <= 0 {
		pageSize = unlimitedPageSize
	}

	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	plan := PagePlan{
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		Pages:      make([]PageSpec, 0, totalPages),
	}
	for n := 1; n <= totalPages; n++ {
		offset := (n - 1) * pageSize
		count := totalItems - offset
		if count > pageSize {
			count = pageSize
		}
		if count < 0 {
			count = 0
		}
		spec := PageSpec{
			Number: n,
			Offset: offset,
			Count:  count,
			First:  n == 1,
			Last:   n == totalPages,
		}
		if n < totalPages {
			spec.Next = n + 1
		}
		if n > 1 {
			spec.Prev = n - 1
		}
		plan.Pages = append(plan.Pages, spec)
	}
	return plan
}

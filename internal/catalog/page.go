package catalog

import "github.com/mrlokans/bookstore/internal/entities"

// PageSize is the number of books shown per listing page.
const PageSize = 5

// Page is one slice of a search result plus navigation metadata.
type Page struct {
	Items      []entities.Book
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
	Search     string
}

func newPage(items []entities.Book, page, perPage int, total int64, search string) *Page {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return &Page{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		Search:     search,
	}
}

func (p *Page) HasPrev() bool {
	return p.Page > 1
}

func (p *Page) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p *Page) PrevNum() int {
	if !p.HasPrev() {
		return 0
	}
	return p.Page - 1
}

func (p *Page) NextNum() int {
	if !p.HasNext() {
		return 0
	}
	return p.Page + 1
}

// PageNumbers returns the page links to render. A zero marks a gap.
// The first and last two pages are always listed, plus two pages before
// and four pages after the current one.
func (p *Page) PageNumbers() []int {
	const (
		leftEdge     = 2
		leftCurrent  = 2
		rightCurrent = 4
		rightEdge    = 2
	)

	var numbers []int
	last := 0
	for num := 1; num <= p.TotalPages; num++ {
		inWindow := num <= leftEdge ||
			(num >= p.Page-leftCurrent && num <= p.Page+rightCurrent) ||
			num > p.TotalPages-rightEdge
		if !inWindow {
			continue
		}
		if last+1 != num {
			numbers = append(numbers, 0)
		}
		numbers = append(numbers, num)
		last = num
	}
	return numbers
}

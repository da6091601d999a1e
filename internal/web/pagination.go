package web

import (
	"net/http"
	"strconv"

	"github.com/UkralStul/social-blog-service/internal/domain"
)

// postsPerPage is the fixed page size for every feed.
const postsPerPage = 10

// Page is one slice of a paginated post listing.
type Page struct {
	Posts    []*domain.Post
	Number   int
	NumPages int
	Count    int
}

func (p *Page) HasPrev() bool   { return p.Number > 1 }
func (p *Page) HasNext() bool   { return p.Number < p.NumPages }
func (p *Page) PrevNumber() int { return p.Number - 1 }
func (p *Page) NextNumber() int { return p.Number + 1 }

// pageNumber reads the page query parameter. Anything that is not a
// positive integer means page one.
func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// clampPage keeps a requested page inside the valid range: requests past
// the end get the last page rather than an empty one.
func clampPage(number, count int) (page, numPages, offset int) {
	numPages = (count + postsPerPage - 1) / postsPerPage
	if numPages < 1 {
		numPages = 1
	}
	if number > numPages {
		number = numPages
	}
	return number, numPages, (number - 1) * postsPerPage
}
